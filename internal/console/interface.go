package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"rental-autotest/internal/config"
	"rental-autotest/internal/entity"
	"rental-autotest/internal/screenshot"
	"rental-autotest/internal/usecase"
	"rental-autotest/internal/usecase/adapters"
	"rental-autotest/internal/vocabulary"
	"rental-autotest/pkg/logg"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const rule = "──────────────────────────────────────────────────"

var errExit = errors.New("exit")

// QuickPrompts are the one-shot prompts offered by the quick command.
var QuickPrompts = []string{
	"search for BMW car",
	"fill booking form for van",
	"check SUV pricing",
	"check luxury car details",
	"test contact links",
	"submit booking",
	"reset form",
}

type Interface struct {
	screenshotDir string
	logger        *zap.Logger
	automation    adapters.AutomationService
	in            io.Reader
	out           io.Writer
	now           func() time.Time

	mu      sync.Mutex
	history []entity.RunRecord
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Usecase *usecase.Service
}

func NewInterface(params Params) *Interface {
	return newInterface(params.Config, params.Logger, params.Usecase.Automation, os.Stdin, os.Stdout)
}

func newInterface(cfg *config.Config, logger *zap.Logger, automation adapters.AutomationService, in io.Reader, out io.Writer) *Interface {
	return &Interface{
		screenshotDir: cfg.ScreenshotConfig.Dir,
		logger:        logger.With(zap.String(logg.Layer, "Console")),
		automation:    automation,
		in:            in,
		out:           out,
		now:           time.Now,
	}
}

// Start reads commands until input ends, the user exits or ctx is done.
func (i *Interface) Start(ctx context.Context) error {
	i.printBanner()
	i.printHelp()

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(i.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		fmt.Fprint(i.out, "\n> ")

		var (
			input string
			ok    bool
		)

		select {
		case <-ctx.Done():
			fmt.Fprintln(i.out, "\nInterrupted.")

			return nil
		case input, ok = <-lines:
		}

		if !ok {
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if err := i.handleCommand(ctx, input); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}

			i.logger.Error("Command error", zap.Error(err))
			fmt.Fprintf(i.out, "Error: %v\n", err)
		}
	}
}

func (i *Interface) handleCommand(ctx context.Context, input string) error {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "help", "h":
		i.printHelp()

		return nil
	case "exit", "quit", "q":
		fmt.Fprintln(i.out, "Shutting down...")

		return errExit
	case "history":
		i.printHistory()

		return nil
	case "clear":
		i.ClearHistory()
		fmt.Fprintln(i.out, "History cleared.")

		return nil
	case "actions":
		PrintActions(i.out)

		return nil
	case "quick":
		return i.quick(ctx, arg)
	case "raw":
		if arg == "" {
			return errors.New("raw needs the command text, e.g. raw {\"action\": \"reset_form\"}")
		}

		i.Report(input, i.automation.ExecuteRaw(ctx, arg))

		return nil
	default:
		return i.RunPrompt(ctx, input)
	}
}

func (i *Interface) quick(ctx context.Context, arg string) error {
	if arg == "" {
		fmt.Fprintln(i.out, "Quick prompts:")
		for n, p := range QuickPrompts {
			fmt.Fprintf(i.out, "  %d. %s\n", n+1, p)
		}

		return nil
	}

	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(QuickPrompts) {
		return fmt.Errorf("quick expects a number between 1 and %d", len(QuickPrompts))
	}

	return i.RunPrompt(ctx, QuickPrompts[n-1])
}

// RunPrompt executes prompt through the model and reports the outcome.
func (i *Interface) RunPrompt(ctx context.Context, prompt string) error {
	fmt.Fprintf(i.out, "\nRunning: %s\n%s\n", prompt, rule)

	result, err := i.automation.Execute(ctx, prompt)
	if err != nil {
		return err
	}

	i.Report(prompt, result)

	return nil
}

// Report prints result, saves its screenshot when configured and appends
// it to the history.
func (i *Interface) Report(prompt string, result *entity.ExecutionResult) {
	at := i.now()

	i.mu.Lock()
	i.history = append(i.history, entity.RunRecord{Prompt: prompt, Result: result, At: at})
	i.mu.Unlock()

	fmt.Fprintln(i.out, rule)

	if result.Succeeded() {
		fmt.Fprintf(i.out, "OK     %s\n", result.Message)
	} else {
		fmt.Fprintf(i.out, "FAILED %s\n", result.Message)
	}

	if result.Action != "" {
		fmt.Fprintf(i.out, "Action: %s\n", result.Action)
	}

	if len(result.Checkpoints) > 0 {
		fmt.Fprintf(i.out, "Checkpoints: %s\n", strings.Join(result.Checkpoints, " | "))
	}

	if result.Screenshot == nil || i.screenshotDir == "" {
		return
	}

	path, err := screenshot.Save(i.screenshotDir, string(result.Action), result.Screenshot, at)
	if err != nil {
		i.logger.Warn("Failed to save screenshot", zap.Error(err))

		return
	}

	fmt.Fprintf(i.out, "Screenshot: %s\n", path)
}

// History returns a copy of the recorded runs, oldest first.
func (i *Interface) History() []entity.RunRecord {
	i.mu.Lock()
	defer i.mu.Unlock()

	return append([]entity.RunRecord(nil), i.history...)
}

func (i *Interface) ClearHistory() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.history = nil
}

func (i *Interface) printHistory() {
	records := i.History()
	if len(records) == 0 {
		fmt.Fprintln(i.out, "No runs yet.")

		return
	}

	for n, r := range records {
		fmt.Fprintf(i.out, "%2d. [%s] %-8s %-20s %s\n    %s\n",
			n+1, r.At.Format("15:04:05"), r.Result.Status, r.Result.Action, r.Prompt, r.Result.Message)
	}
}

// PrintActions writes the supported actions with their fields.
func PrintActions(w io.Writer) {
	for _, e := range vocabulary.Entries() {
		fmt.Fprintf(w, "  %-22s %s", e.Kind, e.Purpose)

		if len(e.Required) > 0 {
			fmt.Fprintf(w, " (required: %s)", strings.Join(e.Required, ", "))
		}

		if len(e.Optional) > 0 {
			fmt.Fprintf(w, " (optional: %s)", strings.Join(e.Optional, ", "))
		}

		fmt.Fprintln(w)
	}
}

func (i *Interface) printBanner() {
	fmt.Fprint(i.out, `
╔═══════════════════════════════════════════════════╗
║                                                   ║
║           Car Rental Test Automation              ║
║                                                   ║
║   Natural language in, browser checkpoints out    ║
║                                                   ║
╚═══════════════════════════════════════════════════╝
`)
}

func (i *Interface) printHelp() {
	fmt.Fprint(i.out, `
Available commands:
  help, h       - Show this help message
  actions       - List supported actions
  quick         - List quick prompts
  quick <n>     - Run quick prompt n
  raw <json>    - Run a command without the model
  history       - Show past runs
  clear         - Clear history
  exit, quit, q - Exit the application

Anything else is sent to the model as an instruction:
  Examples:
    - Search for BMW cars
    - Fill booking form for Keerthana with a VAN
    - Check pricing for Luxury cars
`)
}
