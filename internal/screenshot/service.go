// Package screenshot captures checkpoint images of a browser view. Capture
// failures are logged and reported as a nil screenshot, never as an error.
package screenshot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"rental-autotest/internal/config"
	"rental-autotest/internal/entity"
	"rental-autotest/internal/ports"
	"rental-autotest/pkg/apperr"
	"rental-autotest/pkg/logg"
	"rental-autotest/pkg/tracing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	// register decoders for drivers that hand back JPEG
	_ "image/jpeg"
)

const (
	serviceName     = "ScreenshotService"
	screenshotTrace = "screenshot.service"
)

type Service struct {
	maxWidth int
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewService(params Params) *Service {
	return &Service{
		maxWidth: params.Config.ScreenshotConfig.MaxWidth,
		logger:   params.Logger.With(zap.String(logg.Layer, serviceName)),
		tracer:   otel.Tracer(screenshotTrace),
		now:      time.Now,
	}
}

// Capture rasterises view, shrinking it to the configured width if wider,
// and returns it PNG-encoded. It returns nil on any failure.
func (s *Service) Capture(ctx context.Context, view ports.Screenshotter, label string) (shot *entity.Screenshot) {
	const op = "Capture"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Checkpoint, label))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("label", label))

	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("screenshot panicked: %v", r)
			shot = nil
		}

		if err != nil {
			logger.Warn("Error capturing screenshot", zap.Error(err))
		}

		step.End(err)
	}()

	raw, err := view.Screenshot(ctx)
	if err != nil {
		err = apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason:     "capture_failed",
			apperr.MetaStage:      apperr.StageScreenshot,
			apperr.MetaCheckpoint: label,
		})

		return nil
	}

	data, bounds, err := s.downscale(raw)
	if err != nil {
		err = apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason:     "encode_failed",
			apperr.MetaStage:      apperr.StageScreenshot,
			apperr.MetaCheckpoint: label,
		})

		return nil
	}

	step.SetAttributes(attribute.Int("width", bounds.Dx()), attribute.Int("height", bounds.Dy()))
	logger.Debug("Checkpoint captured", zap.Int("bytes", len(data)))

	return &entity.Screenshot{
		Label:   label,
		TakenAt: s.now(),
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Data:    data,
	}
}

func (s *Service) downscale(raw []byte) ([]byte, image.Rectangle, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("decode: %w", err)
	}

	img := src
	b := src.Bounds()

	if b.Dx() > s.maxWidth {
		height := b.Dy() * s.maxWidth / b.Dx()
		if height < 1 {
			height = 1
		}

		dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("encode: %w", err)
	}

	return buf.Bytes(), img.Bounds(), nil
}
