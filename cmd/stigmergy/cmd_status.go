package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd(logger *slog.Logger, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show availability and health of the supported tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			_, reg := buildRouter(cfg, logger, nil)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "%-12s  %-11s  %6s  %6s  %8s  %s\n",
				"TOOL", "AVAILABLE", "TOTAL", "ERRORS", "SUCCESS", "LAST ACTIVITY")

			for _, name := range reg.Known() {
				a := reg.Get(name)
				if a == nil {
					fmt.Fprintf(out, "%-12s  %-11s\n", name, "error")
					continue
				}
				h := a.HealthCheck(cmd.Context())

				avail := "no"
				if h.Available {
					avail = "yes"
				}
				last := "never"
				if !h.LastActivity.IsZero() {
					last = h.LastActivity.Format(time.DateTime)
				}
				fmt.Fprintf(out, "%-12s  %-11s  %6d  %6d  %7.0f%%  %s\n",
					h.Tool, avail, h.Total, h.Errors, h.SuccessRate*100, last)
			}
			return nil
		},
	}
}
