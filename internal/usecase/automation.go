package usecase

import (
	"context"
	"errors"
	"rental-autotest/internal/entity"
	"rental-autotest/internal/ports"
	"rental-autotest/internal/vocabulary"
	"rental-autotest/pkg/apperr"
	"rental-autotest/pkg/logg"
	"rental-autotest/pkg/tracing"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	automationServiceName = "AutomationService"
	automationTracer      = "usecase.automation"

	msgNoResponse  = "No response from model."
	msgParseFailed = "Couldn't parse instruction"
)

// AutomationService runs the whole pipeline: prompt, model, intent, browser.
type AutomationService struct {
	logger       *zap.Logger
	tracer       trace.Tracer
	llm          ports.LLMClient
	extractor    ports.IntentExtractor
	orchestrator ports.Orchestrator
	now          func() time.Time
}

type AutomationServiceParams struct {
	fx.In

	Logger       *zap.Logger
	LLM          ports.LLMClient
	Extractor    ports.IntentExtractor
	Orchestrator ports.Orchestrator
}

func NewAutomationService(params AutomationServiceParams) *AutomationService {
	return &AutomationService{
		logger:       params.Logger.With(zap.String(logg.Layer, automationServiceName)),
		tracer:       otel.Tracer(automationTracer),
		llm:          params.LLM,
		extractor:    params.Extractor,
		orchestrator: params.Orchestrator,
		now:          time.Now,
	}
}

// Execute asks the model to translate prompt into a command and runs it.
// Only an empty prompt is reported as an error; every other failure comes
// back as an error-status result.
func (s *AutomationService) Execute(ctx context.Context, prompt string) (result *entity.ExecutionResult, err error) {
	const op = "Execute"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("prompt", prompt))
	defer func() {
		step.End(err)
	}()

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperr.InvalidReqError(op, "prompt", errors.New("prompt cannot be empty"))
	}

	logger.Info("Sending prompt to model", zap.String(logg.Prompt, prompt), zap.String("model", s.llm.Model()))
	step.AddEvent("calling model")

	raw, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		logger.Error("Model call failed", zap.Error(err))

		return s.failure(err.Error()), nil
	}

	if strings.TrimSpace(raw) == "" {
		logger.Warn("Model returned empty output")

		return s.failure(msgNoResponse), nil
	}

	logger.Debug("Raw model output", zap.String("output", raw))
	step.AddEvent("model responded")

	return s.ExecuteRaw(ctx, raw), nil
}

// ExecuteRaw skips the model and runs whatever command raw contains.
func (s *AutomationService) ExecuteRaw(ctx context.Context, raw string) *entity.ExecutionResult {
	const op = "ExecuteRaw"
	logger := s.logger.With(zap.String(logg.Operation, op))

	candidate, err := s.extractor.Extract(ctx, raw)
	if err != nil {
		logger.Warn("Couldn't parse instruction",
			zap.String("reason", apperr.Reason(err)),
			zap.Error(err))

		return s.failure(msgParseFailed)
	}

	cmd := vocabulary.Normalize(candidate.Command)
	logger.Info("Parsed instruction",
		zap.String(logg.Action, string(cmd.Action)),
		zap.String("fragment", candidate.Fragment))

	return s.orchestrator.Run(ctx, cmd)
}

func (s *AutomationService) failure(message string) *entity.ExecutionResult {
	now := s.now()

	return &entity.ExecutionResult{
		RunID:      uuid.New(),
		Status:     entity.StatusError,
		Message:    message,
		StartedAt:  now,
		FinishedAt: now,
	}
}
