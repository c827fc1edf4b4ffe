package bootstrap

import (
	"context"
	"errors"
	"rental-autotest/internal/browser"
	"rental-autotest/internal/console"
	"rental-autotest/internal/usecase"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Handles are the entry points a command needs once the graph is running.
type Handles struct {
	Usecase *usecase.Service
	Console *console.Interface
	Logger  *zap.Logger
}

func registerBrowser(lc fx.Lifecycle, manager *browser.Manager, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Starting browser driver...")

			if err := manager.Start(ctx); err != nil {
				logger.Error("Failed to start browser driver", zap.Error(err))

				return err
			}

			logger.Info("Browser driver ready")

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping browser driver...")

			if err := manager.Stop(ctx); err != nil {
				logger.Error("Failed to stop browser driver", zap.Error(err))
			}

			return nil
		},
	})
}

// Run starts the application, hands its entry points to fn and stops it
// again whatever fn returns.
func Run(ctx context.Context, fn func(ctx context.Context, h Handles) error, opts ...fx.Option) (err error) {
	var h Handles

	app := NewApp(append(opts, fx.Populate(&h.Usecase, &h.Console, &h.Logger))...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()

	if err := app.Start(startCtx); err != nil {
		return err
	}

	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()

		err = errors.Join(err, app.Stop(stopCtx))
	}()

	return fn(ctx, h)
}
