package usecase

import (
	"context"
	"rental-autotest/internal/entity"
	"rental-autotest/internal/ports"
	"rental-autotest/pkg/logg"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type runState string

const (
	stateIdle           runState = "idle"
	stateSessionOpen    runState = "session_open"
	stateDispatching    runState = "dispatching"
	stateStepSequence   runState = "step_sequence"
	stateSessionClosing runState = "session_closing"
	stateDone           runState = "done"
)

// run is the per-invocation state of the orchestrator. It is never shared.
type run struct {
	id          uuid.UUID
	state       runState
	steps       int
	session     ports.BrowserSession
	shots       ports.ScreenshotCapturer
	wait        ports.WaitPolicy
	logger      *zap.Logger
	checkpoints []*entity.Screenshot
}

func (r *run) transition(to runState) {
	r.logger.Debug("Run state changed",
		zap.String("from", string(r.state)),
		zap.String(logg.State, string(to)))
	r.state = to
}

// advance moves to the next step of the action's sequence.
func (r *run) advance(description string) {
	if r.state != stateStepSequence {
		r.transition(stateStepSequence)
	}

	r.steps++
	r.logger.Debug("Step", zap.Int("step", r.steps), zap.String("description", description))
}

func (r *run) settle(ctx context.Context, d time.Duration) error {
	return r.wait.Settle(ctx, d)
}

// checkpoint records a screenshot of view. A failed capture is dropped.
func (r *run) checkpoint(ctx context.Context, view ports.Screenshotter, label string) {
	shot := r.shots.Capture(ctx, view, label)
	if shot == nil {
		r.logger.Warn("Checkpoint skipped", zap.String(logg.Checkpoint, label))

		return
	}

	r.checkpoints = append(r.checkpoints, shot)
}

// captureSpawned lets a spawned view settle, captures it and closes it,
// returning its address.
func (r *run) captureSpawned(ctx context.Context, view ports.View, d time.Duration, label string) (string, error) {
	defer func() {
		if err := view.Close(ctx); err != nil {
			r.logger.Warn("Failed to close spawned view", zap.Error(err))
		}
	}()

	if err := r.settle(ctx, d); err != nil {
		return "", err
	}

	r.checkpoint(ctx, view, label)

	return view.URL(), nil
}

// representative is the last state before the final checkpoint.
func (r *run) representative() *entity.Screenshot {
	switch n := len(r.checkpoints); n {
	case 0:
		return nil
	case 1:
		return r.checkpoints[0]
	default:
		return r.checkpoints[n-2]
	}
}

func (r *run) labels() []string {
	out := make([]string, len(r.checkpoints))
	for i, c := range r.checkpoints {
		out[i] = c.Label
	}

	return out
}
