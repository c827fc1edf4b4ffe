package intent

import (
	"context"
	"errors"
	"rental-autotest/internal/entity"
	"rental-autotest/pkg/apperr"
	"rental-autotest/pkg/logg"
	"rental-autotest/pkg/tracing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	extractorName   = "IntentExtractor"
	extractorTracer = "intent.extractor"
)

var errNoCandidates = errors.New("no JSON object found in model output")

type Extractor struct {
	logger *zap.Logger
	tracer trace.Tracer
}

type Params struct {
	fx.In

	Logger *zap.Logger
}

func NewExtractor(params Params) *Extractor {
	return &Extractor{
		logger: params.Logger.With(zap.String(logg.Layer, extractorName)),
		tracer: otel.Tracer(extractorTracer),
	}
}

// Extract returns the single command text most likely meant, or an
// extraction_failed error when text holds no usable object.
func (e *Extractor) Extract(ctx context.Context, text string) (chosen *entity.Candidate, err error) {
	const op = "Extract"
	logger := e.logger.With(zap.String(logg.Operation, op))

	_, step := tracing.StartSpan(ctx, e.tracer, logger, op, attribute.Int("text_length", len(text)))
	defer func() {
		step.End(err)
	}()

	candidates := ExtractCandidates(text)
	step.SetAttributes(attribute.Int("candidates", len(candidates)))

	if len(candidates) == 0 {
		logger.Info("No JSON objects found in model output")

		return nil, apperr.Wrap(op, apperr.CodeExtractionFailed, errNoCandidates, map[string]any{
			apperr.MetaReason: "no_candidates",
			apperr.MetaStage:  apperr.StageExtraction,
		})
	}

	logger.Debug("Found candidate objects", zap.Int("count", len(candidates)))

	for i, c := range candidates {
		logger.Debug("Candidate",
			zap.Int("index", i),
			zap.Int("offset", c.Offset),
			zap.String("fragment", c.Fragment))
	}

	if len(candidates) > 1 {
		for _, s := range Rank(text, candidates) {
			logger.Debug("Candidate score",
				zap.Int("score", s.Score),
				zap.Int("offset", s.Candidate.Offset),
				zap.String(logg.Action, string(s.Candidate.Command.Action)))
		}
	}

	best, _ := Select(text, candidates)
	step.SetAttributes(attribute.String("action", string(best.Command.Action)))

	return &best, nil
}
