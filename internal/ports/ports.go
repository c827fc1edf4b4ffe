package ports

import (
	"context"
	"rental-autotest/internal/entity"
	"time"
)

type LLMClient interface {
	Generate(ctx context.Context, instruction string) (string, error)
	Model() string
}

// Screenshotter is anything that can rasterise what it currently shows.
type Screenshotter interface {
	Screenshot(ctx context.Context) ([]byte, error)
}

// View is a single browser tab.
type View interface {
	Screenshotter
	URL() string
	Close(ctx context.Context) error
}

// DialogRecorder remembers the text of native prompts accepted on a view.
type DialogRecorder interface {
	Message() string
}

// BrowserSession is exclusively owned by one orchestrator run. Close tears
// down the whole browser, not just the primary view.
type BrowserSession interface {
	Screenshotter
	URL() string
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, value string) error
	SelectOption(ctx context.Context, selector, value string) error
	Check(ctx context.Context, selector string) error
	ScrollIntoView(ctx context.Context, selector string) error
	TextContent(ctx context.Context, selector string) (string, error)
	// ExpectView runs trigger and waits for the view it spawns.
	ExpectView(ctx context.Context, trigger func() error) (View, error)
	// AcceptDialogs auto-accepts every native prompt from now on.
	AcceptDialogs(ctx context.Context) DialogRecorder
	Close(ctx context.Context) error
}

type BrowserLauncher interface {
	Open(ctx context.Context) (BrowserSession, error)
}

type ScreenshotCapturer interface {
	Capture(ctx context.Context, view Screenshotter, label string) *entity.Screenshot
}

// WaitPolicy lets the page settle between steps. d is the nominal delay for
// the step; event-driven policies may return earlier.
type WaitPolicy interface {
	Settle(ctx context.Context, d time.Duration) error
}

type IntentExtractor interface {
	Extract(ctx context.Context, text string) (*entity.Candidate, error)
}

type Orchestrator interface {
	Run(ctx context.Context, cmd entity.Command) *entity.ExecutionResult
}
