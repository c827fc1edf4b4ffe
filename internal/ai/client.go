package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"rental-autotest/internal/config"
	"rental-autotest/internal/ports"
	"rental-autotest/pkg/apperr"
	"rental-autotest/pkg/logg"
	"rental-autotest/pkg/tracing"
	"strings"

	"github.com/ollama/ollama/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	aiClientName = "AIClient"
	aiTracer     = "ai.client"
)

// Client asks a local Ollama model to turn an instruction into command text.
type Client struct {
	config *config.LLMConfig
	logger *zap.Logger
	tracer trace.Tracer
	api    *api.Client
	system string
}

var _ ports.LLMClient = (*Client)(nil)

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Client `optional:"true"`
}

func NewClient(params Params) (*Client, error) {
	const op = "NewClient"

	base, err := url.Parse(params.Config.LLMConfig.Host)
	if err != nil {
		return nil, apperr.InvalidReqError(op, "OLLAMA_HOST", err)
	}

	httpClient := params.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		config: params.Config.LLMConfig,
		logger: params.Logger.With(zap.String(logg.Layer, aiClientName)),
		tracer: otel.Tracer(aiTracer),
		api:    api.NewClient(base, httpClient),
		system: SystemPrompt(),
	}, nil
}

func (c *Client) Model() string {
	return c.config.Model
}

// Generate returns the model's raw reply to instruction. The reply is not
// validated here.
func (c *Client) Generate(ctx context.Context, instruction string) (output string, err error) {
	const op = "Generate"
	logger := c.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, c.tracer, logger, op,
		attribute.String("model", c.config.Model))
	defer func() {
		step.End(err)
	}()

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	stream := false
	req := &api.ChatRequest{
		Model: c.config.Model,
		Messages: []api.Message{
			{Role: "system", Content: c.system},
			{Role: "user", Content: userMessage(instruction)},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": c.config.Temperature,
		},
	}

	logger.Debug("Sending prompt to model", zap.String(logg.Prompt, instruction))
	step.AddEvent("sending chat request")

	var reply strings.Builder

	err = c.api.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)

		return nil
	})
	if err != nil {
		return "", classifyError(op, err)
	}

	output = strings.TrimSpace(reply.String())
	step.SetAttributes(attribute.Int("output_length", len(output)))
	logger.Debug("Response received from model", zap.Int("output_length", len(output)))

	return output, nil
}

func classifyError(op string, err error) error {
	code := apperr.CodeAIError
	reason := "api_error"

	var statusErr api.StatusError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code, reason = apperr.CodeTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		reason = "canceled"
	case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound:
		code, reason = apperr.CodeNotFound, "model_not_found"
	case strings.Contains(err.Error(), "connection refused"):
		code, reason = apperr.CodeUnavailable, "server_unreachable"
	}

	return apperr.Wrap(op, code, fmt.Errorf("ollama: %w", err), map[string]any{
		apperr.MetaReason: reason,
		apperr.MetaStage:  apperr.StageAI,
	})
}
