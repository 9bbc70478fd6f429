package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newInstallCmd(logger *slog.Logger, configPath *string) *cobra.Command {
	var only []string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the delegation hook into each tool's config",
		Long: `Write the stigmergy shim descriptor into the config file of each enabled
tool, so the tool forwards user prompts through "stigmergy route". Existing
entries from other plugins are preserved; re-running updates in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if len(only) > 0 {
				cfg.Tools = only
			}

			_, reg := buildRouter(cfg, logger, nil)

			var failed int
			for _, name := range reg.Known() {
				a := reg.Get(name)
				if a == nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s  error: adapter unavailable\n", name)
					continue
				}
				if err := a.Initialize(cmd.Context()); err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s  error: %v\n", name, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s  installed\n", name)
			}

			if failed > 0 {
				return fmt.Errorf("%d tool(s) failed to install", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&only, "tool", nil, "install for these tools only (repeatable)")
	_ = cmd.RegisterFlagCompletionFunc("tool", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeToolNames(toComplete)
	})

	return cmd
}
