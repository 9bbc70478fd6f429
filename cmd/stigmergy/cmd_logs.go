package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ptreezh/stigmergy/internal/calllog"
)

func newLogsCmd(logger *slog.Logger, configPath *string) *cobra.Command {
	var (
		follow bool
		asJSON bool
		lastN  int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the cross-CLI call log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			log := calllog.Open(cfg.DataDir)

			if follow {
				return log.Tail(cmd.Context(), cmd.OutOrStdout())
			}

			recs, err := log.Records()
			if err != nil {
				return err
			}
			if lastN > 0 && len(recs) > lastN {
				recs = recs[len(recs)-lastN:]
			}

			out := cmd.OutOrStdout()
			for _, rec := range recs {
				if asJSON {
					data, err := json.Marshal(rec)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(data))
					continue
				}
				status := "ok"
				if !rec.Success {
					status = "FAIL"
				}
				fmt.Fprintf(out, "%s  %-4s  %s -> %s  %q\n",
					rec.Timestamp.Local().Format(time.DateTime), status,
					rec.SourceTool, rec.TargetTool, rec.Task)
				if rec.Error != "" {
					fmt.Fprintf(out, "%21s%s\n", "", rec.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "follow log output")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON records")
	cmd.Flags().IntVarP(&lastN, "tail", "n", 0, "show only the last N records")

	return cmd
}
