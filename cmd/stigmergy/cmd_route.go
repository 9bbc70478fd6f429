package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ptreezh/stigmergy/internal/calllog"
)

func newRouteCmd(logger *slog.Logger, configPath *string) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "route [prompt...]",
		Short: "Route a prompt to the tool it names",
		Long: `Classify a prompt and, when it asks for another tool ("use gemini to ..."
or "请用codex帮我..."), execute the task there and print the result report.

Exits 1 without output when the prompt carries no cross-CLI intent, so a
hook invocation falls through to the calling tool's normal processing.

The prompt is read from the arguments, or from stdin when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading prompt from stdin: %w", err)
				}
				text = string(data)
			}

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			log := calllog.Open(cfg.DataDir)
			defer func() { _ = log.Close() }()

			rt, _ := buildRouter(cfg, logger, log)
			report, handled := rt.Route(cmd.Context(), text, source, nil)
			if !handled {
				return errNotHandled
			}

			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "tool the prompt came from (suppresses self-delegation)")
	_ = cmd.RegisterFlagCompletionFunc("source", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeToolNames(toComplete)
	})

	return cmd
}
