package main

import (
	"context"
	"errors"
	"fmt"
	"rental-autotest/internal/bootstrap"
	"rental-autotest/internal/console"
	"rental-autotest/internal/entity"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// runner starts the application graph around fn.
type runner func(ctx context.Context, fn func(ctx context.Context, h bootstrap.Handles) error, opts ...fx.Option) error

var defaultRunner runner = bootstrap.Run

var errRunFailed = errors.New("run failed")

func newRootCmd(run runner) *cobra.Command {
	repl := &cobra.Command{
		Use:   "repl",
		Short: "Interactive shell (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), func(ctx context.Context, h bootstrap.Handles) error {
				return h.Console.Start(ctx)
			})
		},
	}

	root := &cobra.Command{
		Use:           "rental-autotest",
		Short:         "Drive the car rental demo site from natural language instructions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          repl.RunE,
	}

	root.AddCommand(
		repl,
		&cobra.Command{
			Use:   "run <instruction>",
			Short: "Send one instruction through the model and run it",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				prompt := strings.Join(args, " ")

				return run(cmd.Context(), func(ctx context.Context, h bootstrap.Handles) error {
					result, err := h.Usecase.Automation.Execute(ctx, prompt)
					if err != nil {
						return err
					}

					return report(h.Console, prompt, result)
				})
			},
		},
		&cobra.Command{
			Use:   "exec <command-text>",
			Short: "Run command text directly, skipping the model",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				raw := strings.Join(args, " ")

				return run(cmd.Context(), func(ctx context.Context, h bootstrap.Handles) error {
					return report(h.Console, raw, h.Usecase.Automation.ExecuteRaw(ctx, raw))
				})
			},
		},
		&cobra.Command{
			Use:   "actions",
			Short: "List supported actions",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				console.PrintActions(cmd.OutOrStdout())
			},
		},
	)

	return root
}

func report(c *console.Interface, prompt string, result *entity.ExecutionResult) error {
	c.Report(prompt, result)

	if !result.Succeeded() {
		return fmt.Errorf("%w: %s", errRunFailed, result.Message)
	}

	return nil
}
