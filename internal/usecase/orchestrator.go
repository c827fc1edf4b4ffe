package usecase

import (
	"context"
	"fmt"
	"rental-autotest/internal/config"
	"rental-autotest/internal/entity"
	"rental-autotest/internal/ports"
	"rental-autotest/internal/vocabulary"
	"rental-autotest/pkg/apperr"
	"rental-autotest/pkg/logg"
	"rental-autotest/pkg/tracing"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	orchestratorName   = "ActionOrchestrator"
	orchestratorTracer = "usecase.orchestrator"

	labelInitial = "Initial page load"
	labelFinal   = "Final state"
)

type actionHandler func(ctx context.Context, r *run, cmd entity.Command) (string, error)

// Orchestrator turns one command into a browser session: open, navigate,
// run the action's fixed step sequence with checkpoints, close. It keeps no
// state between runs.
type Orchestrator struct {
	targetURL string
	waits     config.WaitConfig
	logger    *zap.Logger
	tracer    trace.Tracer
	launcher  ports.BrowserLauncher
	shots     ports.ScreenshotCapturer
	wait      ports.WaitPolicy
	handlers  map[entity.ActionKind]actionHandler
	now       func() time.Time
}

type OrchestratorParams struct {
	fx.In

	Config      *config.Config
	Logger      *zap.Logger
	Launcher    ports.BrowserLauncher
	Screenshots ports.ScreenshotCapturer
	Wait        ports.WaitPolicy
}

func NewOrchestrator(params OrchestratorParams) *Orchestrator {
	o := &Orchestrator{
		targetURL: params.Config.BrowserConfig.TargetURL,
		waits:     *params.Config.WaitConfig,
		logger:    params.Logger.With(zap.String(logg.Layer, orchestratorName)),
		tracer:    otel.Tracer(orchestratorTracer),
		launcher:  params.Launcher,
		shots:     params.Screenshots,
		wait:      params.Wait,
		now:       time.Now,
	}

	o.handlers = map[entity.ActionKind]actionHandler{
		entity.ActionSearchCar:         o.searchCar,
		entity.ActionFillBookingForm:   o.fillBookingForm,
		entity.ActionSubmitBooking:     o.submitBooking,
		entity.ActionResetForm:         o.resetForm,
		entity.ActionNavigateToSection: o.navigateToSection,
		entity.ActionTestContactLinks:  o.testContactLinks,
		entity.ActionCheckPricing:      o.checkPricing,
		entity.ActionValidateEmptyForm: o.validateEmptyForm,
		entity.ActionCheckCarDetails:   o.checkCarDetails,
	}

	return o
}

// Run executes cmd and always returns a result. Faults, including panics,
// become error results; the browser session is closed on every path.
func (o *Orchestrator) Run(ctx context.Context, cmd entity.Command) (result *entity.ExecutionResult) {
	const op = "Run"

	cmd = vocabulary.Normalize(cmd)

	r := &run{
		id:    uuid.New(),
		state: stateIdle,
		shots: o.shots,
		wait:  o.wait,
	}
	r.logger = o.logger.With(
		zap.String(logg.RunID, r.id.String()),
		zap.String(logg.Action, string(cmd.Action)))
	logger := r.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, o.tracer, logger, op,
		attribute.String("run_id", r.id.String()),
		attribute.String("action", string(cmd.Action)))

	result = &entity.ExecutionResult{
		RunID:     r.id,
		Action:    cmd.Action,
		StartedAt: o.now(),
	}

	var runErr error
	defer func() {
		if rec := recover(); rec != nil {
			runErr = fmt.Errorf("unexpected fault: %v", rec)
			result.Status = entity.StatusError
			result.Message = errorMessage(runErr)
		}

		r.transition(stateDone)

		result.Screenshot = r.representative()
		result.Checkpoints = r.labels()
		result.FinishedAt = o.now()

		step.SetAttributes(
			attribute.String("status", string(result.Status)),
			attribute.Int("checkpoints", len(r.checkpoints)))
		step.End(runErr)

		logger.Info("Run finished",
			zap.String("status", string(result.Status)),
			zap.String("message", result.Message),
			zap.Int("checkpoints", len(r.checkpoints)),
			zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))
	}()

	session, err := o.launcher.Open(ctx)
	if err != nil {
		runErr = err
		logger.Error("Failed to open browser session", zap.Error(err))
		result.Status = entity.StatusError
		result.Message = errorMessage(err)

		return result
	}

	r.session = session
	r.transition(stateSessionOpen)

	defer func() {
		r.transition(stateSessionClosing)

		if err := session.Close(ctx); err != nil {
			logger.Warn("Failed to close browser session", zap.Error(err))
		}
	}()

	message, err := o.drive(ctx, r, cmd)
	if err != nil {
		runErr = err
		logger.Error("Action failed", zap.Error(err))
		r.checkpoint(ctx, session, "Error occurred: "+err.Error())
		result.Status = entity.StatusError
		result.Message = errorMessage(err)
	} else {
		result.Status = entity.StatusSuccess
		result.Message = message
	}

	r.checkpoint(ctx, session, labelFinal)

	return result
}

// drive performs the entry sequence and dispatches to the action handler.
func (o *Orchestrator) drive(ctx context.Context, r *run, cmd entity.Command) (message string, err error) {
	const op = "drive"

	defer func() {
		if rec := recover(); rec != nil {
			err = apperr.Wrap(op, apperr.CodeInternal, fmt.Errorf("unexpected fault: %v", rec), map[string]any{
				apperr.MetaReason: "panic",
				apperr.MetaStage:  apperr.StageExecution,
				apperr.MetaAction: string(cmd.Action),
			})
		}
	}()

	navErr := r.session.Navigate(ctx, o.targetURL)
	if navErr == nil {
		navErr = r.settle(ctx, o.waits.Initial)
	}

	r.checkpoint(ctx, r.session, labelInitial)

	if navErr != nil {
		return "", navErr
	}

	r.transition(stateDispatching)

	handler, ok := o.handlers[cmd.Action]
	if !ok {
		unsupported := apperr.WrapWithReason(op, apperr.CodeUnsupportedAction,
			fmt.Errorf("no step sequence for %q", cmd.Action), "unsupported_action")
		r.logger.Warn("Unsupported action",
			zap.String("code", apperr.CodeOf(unsupported)),
			zap.Error(unsupported))

		return fmt.Sprintf("Unsupported action: %s", cmd.Action), nil
	}

	return handler(ctx, r, cmd)
}

// Supports reports whether the orchestrator has a step sequence for kind.
func (o *Orchestrator) Supports(kind entity.ActionKind) bool {
	_, ok := o.handlers[kind]

	return ok
}

func errorMessage(err error) string {
	return "Error: " + err.Error()
}
