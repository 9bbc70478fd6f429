package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ptreezh/stigmergy/internal/config"
)

// errNotHandled marks a prompt with no cross-CLI intent. The route command
// exits 1 without output so the calling tool's hook falls through to its
// normal prompt processing.
var errNotHandled = errors.New("not handled")

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	config.LoadEnvFiles()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(logger)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errNotHandled) {
			os.Exit(1)
		}
		logger.Error("stigmergy failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "stigmergy",
		Short:         "Cross-CLI delegation router for AI coding tools",
		Long: `stigmergy routes "use X to do Y" prompts between installed AI CLI tools
(claude, gemini, codex, qwen, iflow and friends). Each tool gets a small
hook that forwards prompts through the router; a prompt naming another
tool is executed there and the result comes back as a markdown report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(
		newRouteCmd(logger, &configPath),
		newStatusCmd(logger, &configPath),
		newStatsCmd(logger, &configPath),
		newInstallCmd(logger, &configPath),
		newLogsCmd(logger, &configPath),
		newCompletionCmd(),
	)

	return root
}
