package main

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ptreezh/stigmergy/internal/adapter"
	"github.com/ptreezh/stigmergy/internal/calllog"
)

func newStatsCmd(logger *slog.Logger, configPath *string) *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cross-CLI call statistics from the call log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			recs, err := calllog.Open(cfg.DataDir).Records()
			if err != nil {
				return err
			}

			stats := aggregate(recs)
			out := cmd.OutOrStdout()

			if tool != "" {
				s, ok := stats[tool]
				if !ok {
					fmt.Fprintf(out, "no calls recorded for %s\n", tool)
					return nil
				}
				printStats(out, []adapter.Stats{s})
				return nil
			}

			names := make([]string, 0, len(stats))
			for name := range stats {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([]adapter.Stats, 0, len(names))
			for _, name := range names {
				rows = append(rows, stats[name])
			}
			printStats(out, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&tool, "tool", "", "show stats for one source tool only")
	_ = cmd.RegisterFlagCompletionFunc("tool", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeToolNames(toComplete)
	})

	return cmd
}

// aggregate rebuilds per-source counters from the persisted call records.
func aggregate(recs []adapter.ExecutionRecord) map[string]adapter.Stats {
	histories := make(map[string]*adapter.History)
	for _, rec := range recs {
		h, ok := histories[rec.SourceTool]
		if !ok {
			h = adapter.NewHistory()
			histories[rec.SourceTool] = h
		}
		h.Append(rec)
	}

	out := make(map[string]adapter.Stats, len(histories))
	for name, h := range histories {
		out[name] = h.Snapshot(name)
	}
	return out
}

func printStats(out io.Writer, rows []adapter.Stats) {
	fmt.Fprintf(out, "%-12s  %6s  %6s  %11s  %8s  %s\n",
		"SOURCE", "CALLS", "ERRORS", "CROSS-CALLS", "SUCCESS", "LAST ACTIVITY")
	for _, s := range rows {
		last := "never"
		if !s.LastActivity.IsZero() {
			last = s.LastActivity.Local().Format(time.DateTime)
		}
		fmt.Fprintf(out, "%-12s  %6d  %6d  %11d  %7.0f%%  %s\n",
			s.Tool, s.Total, s.Errors, s.CrossCalls, s.SuccessRate*100, last)
	}
}
