package bootstrap

import (
	"rental-autotest/internal/ai"
	"rental-autotest/internal/browser"
	"rental-autotest/internal/config"
	"rental-autotest/internal/console"
	"rental-autotest/internal/intent"
	"rental-autotest/internal/ports"
	"rental-autotest/internal/screenshot"
	"rental-autotest/internal/usecase"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Playwright may download a browser on start.
const startTimeout = 3 * time.Minute

func NewApp(opts ...fx.Option) *fx.App {
	return fx.New(append(options(), opts...)...)
}

func options() []fx.Option {
	return []fx.Option{
		fx.Provide(
			config.GetConfig,
			newLogger,
			newTraceProvider,

			browser.NewManager,
			func(m *browser.Manager) ports.BrowserLauncher { return m },
			fx.Annotate(ai.NewClient, fx.As(new(ports.LLMClient))),
			fx.Annotate(intent.NewExtractor, fx.As(new(ports.IntentExtractor))),
			fx.Annotate(screenshot.NewService, fx.As(new(ports.ScreenshotCapturer))),
			usecase.NewFixedWait,

			usecase.NewUsecase,

			console.NewInterface,
		),

		fx.Invoke(
			func(*sdktrace.TracerProvider) {},
			registerBrowser,
		),

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: logger}
			l.UseLogLevel(zapcore.DebugLevel)

			return l
		}),

		fx.StartTimeout(startTimeout),
	}
}
