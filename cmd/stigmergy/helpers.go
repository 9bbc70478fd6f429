package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ptreezh/stigmergy/internal/adapter"
	"github.com/ptreezh/stigmergy/internal/adapter/cli"
	"github.com/ptreezh/stigmergy/internal/config"
	"github.com/ptreezh/stigmergy/internal/router"
)

// enabledTools resolves the configured tool list against the supported set.
// Unknown names are reported; an empty list means every supported tool.
func enabledTools(cfg *config.Config, logger *slog.Logger) []string {
	if len(cfg.Tools) == 0 {
		return cli.Names()
	}
	var out []string
	for _, name := range cfg.Tools {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, ok := cli.Specs[key]; !ok {
			logger.Warn("ignoring unknown tool in config", "tool", name)
			continue
		}
		out = append(out, key)
	}
	return out
}

// buildRouter wires the registry, the adapters, and the dispatch core. The
// delegate closure is resolved late so adapters constructed before the
// router exists still re-delegate through it.
func buildRouter(cfg *config.Config, logger *slog.Logger, sink router.Sink) (*router.Router, *adapter.Registry) {
	reg := adapter.NewRegistry(logger)

	var rt *router.Router
	delegate := func(ctx context.Context, text, source string, depth int) (string, bool) {
		return rt.Delegate(ctx, text, source, depth)
	}

	for _, name := range enabledTools(cfg, logger) {
		spec := cli.Specs[name]
		reg.RegisterFactory(name, func() (adapter.Adapter, error) {
			return cli.New(spec, cli.Options{
				Logger:   logger,
				Timeout:  cfg.Timeout.Duration,
				MaxDepth: cfg.MaxDepth,
				Delegate: delegate,
				History:  reg.History(spec.Name),
			}), nil
		})
	}

	rt = router.New(router.Options{
		Registry:    reg,
		Logger:      logger,
		Sink:        sink,
		InstallHint: cli.InstallHint,
		Config: router.Config{
			Timeout:  cfg.Timeout.Duration,
			MaxDepth: cfg.MaxDepth,
			Rules:    cfg.RoutingRules,
		},
	})
	return rt, reg
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// completeToolNames offers the supported tool vocabulary for completion.
func completeToolNames(toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, name := range cli.Names() {
		if strings.HasPrefix(name, toComplete) {
			out = append(out, name)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
