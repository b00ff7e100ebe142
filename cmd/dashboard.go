package cmd

import (
	"context"
	"fmt"

	"github.com/DIEAbdulHadi/NebuloViz/internal/adapters/render/dashboard"
	"github.com/DIEAbdulHadi/NebuloViz/internal/adapters/render/shell"
	"github.com/DIEAbdulHadi/NebuloViz/internal/telemetry"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDashboardCmd(app *app) *cobra.Command {
	var route string
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive sales dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if metricsAddr == "" {
				metricsAddr = app.cfg.Metrics.Addr
			}
			return runDashboard(cmd.Context(), app, route, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&route, "route", shell.RootRoute, "Route to open")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on host:port while the dashboard runs")

	return cmd
}

func runDashboard(ctx context.Context, app *app, route string, metricsAddr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	collector, err := startMetrics(ctx, app, metricsAddr)
	if err != nil {
		return err
	}

	cache, release := app.newCache(collector)
	defer release()

	model := shell.New(shell.Options{
		Route:       route,
		Cache:       cache,
		Credentials: app.sessions,
		Logout:      app.sessions.Logout,
		LoadDashboard: func() (tea.Model, error) {
			return dashboard.New(cache, app.api), nil
		},
		Logger: app.logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	unsubscribe := app.sessions.Subscribe(func(_ string, ok bool) {
		go p.Send(shell.SessionChangedMsg{SignedIn: ok})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

// startMetrics exposes query metrics on addr. Without an address the cache
// records nothing.
func startMetrics(ctx context.Context, app *app, addr string) (telemetry.Collector, error) {
	if addr == "" {
		return telemetry.Noop(), nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	collector, err := telemetry.NewPrometheusCollector(registry)
	if err != nil {
		return nil, fmt.Errorf("register query metrics: %w", err)
	}

	listening, errCh, err := telemetry.Serve(ctx, addr, registry)
	if err != nil {
		return nil, fmt.Errorf("start metrics listener: %w", err)
	}
	app.logger.Info("serving metrics", zap.String("addr", listening.String()))

	go func() {
		if err := <-errCh; err != nil {
			app.logger.Error("metrics listener stopped", zap.Error(err))
		}
	}()

	return collector, nil
}
