package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/adapters/render/dashboard"
	"github.com/DIEAbdulHadi/NebuloViz/internal/adapters/render/shell"
	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/telemetry"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	defaultSnapshotWait  = 10 * time.Second
	defaultSnapshotWidth = 100
	snapshotHeight       = 60
)

type snapshotOptions struct {
	Route     string
	Customers []string
	Dates     string
	SetDates  bool
	Predict   bool
	Wait      time.Duration
	Width     int
}

func newSnapshotCmd(app *app) *cobra.Command {
	opts := snapshotOptions{}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the dashboard once all of its queries settle and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.SetDates = cmd.Flags().Changed("dates")
			view, err := runSnapshot(cmd.Context(), app, opts)
			if view != "" {
				if _, writeErr := fmt.Fprintln(cmd.OutOrStdout(), view); writeErr != nil {
					return writeErr
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.Route, "route", shell.RootRoute, "Route to render")
	cmd.Flags().StringSliceVar(&opts.Customers, "customers", nil, "Customers to select (comma separated)")
	cmd.Flags().StringVar(&opts.Dates, "dates", domain.FormatFutureDates(domain.DefaultFutureDates), "Forecast dates (comma separated)")
	cmd.Flags().BoolVar(&opts.Predict, "predict", false, "Run the sales forecast")
	cmd.Flags().DurationVar(&opts.Wait, "wait", defaultSnapshotWait, "Give up waiting for queries after this long")
	cmd.Flags().IntVar(&opts.Width, "width", defaultSnapshotWidth, "Render width in columns")

	return cmd
}

// runSnapshot drives the shell headless until every observed query settles and
// returns its final view. On timeout the partial view is returned with an error.
func runSnapshot(ctx context.Context, app *app, opts snapshotOptions) (string, error) {
	if opts.Wait <= 0 {
		opts.Wait = defaultSnapshotWait
	}
	if opts.Width <= 0 {
		opts.Width = defaultSnapshotWidth
	}

	cache, release := app.newCache(telemetry.Noop())
	defer release()

	model := shell.New(shell.Options{
		Route:       opts.Route,
		Cache:       cache,
		Credentials: app.sessions,
		LoadDashboard: func() (tea.Model, error) {
			d := dashboard.New(cache, app.api)
			if opts.SetDates {
				d = d.SetFutureDates(opts.Dates)
			}
			if opts.Predict {
				d = d.Predict()
			}
			return presetDashboard{Model: d, customers: opts.Customers, applied: len(opts.Customers) == 0, logger: app.logger}, nil
		},
		Logger: app.logger,
	})

	p := tea.NewProgram(
		snapshotModel{shell: model, wait: opts.Wait, width: opts.Width},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("render snapshot: %w", err)
	}

	result, ok := finalModel.(snapshotModel)
	if !ok {
		return "", fmt.Errorf("unexpected final snapshot model type %T", finalModel)
	}

	view := strings.TrimRight(result.shell.View(), "\n")
	if result.timedOut {
		return view, fmt.Errorf("queries still loading after %s", opts.Wait)
	}
	return view, nil
}

type snapshotTimeoutMsg struct{}

type snapshotModel struct {
	shell    tea.Model
	wait     time.Duration
	width    int
	timedOut bool
}

func (m snapshotModel) Init() tea.Cmd {
	width := m.width
	return tea.Batch(
		m.shell.Init(),
		func() tea.Msg { return tea.WindowSizeMsg{Width: width, Height: snapshotHeight} },
		tea.Tick(m.wait, func(time.Time) tea.Msg { return snapshotTimeoutMsg{} }),
	)
}

func (m snapshotModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(snapshotTimeoutMsg); ok {
		m.timedOut = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.shell, cmd = m.shell.Update(msg)

	if m.settled() {
		// Fetches complete off the UI loop, so pull the committed results in
		// before deciding the view is final.
		m.shell, _ = m.shell.Update(dashboard.SyncMsg{})
		if m.settled() {
			return m, tea.Quit
		}
	}
	return m, cmd
}

func (m snapshotModel) settled() bool {
	settler, ok := m.shell.(interface{ Settled() bool })
	return ok && settler.Settled()
}

func (m snapshotModel) View() string {
	return ""
}

// presetDashboard applies a customer selection once the customer list arrives.
type presetDashboard struct {
	dashboard.Model
	customers []string
	applied   bool
	logger    *zap.Logger
}

func (p presetDashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := p.Model.Update(msg)
	if d, ok := next.(dashboard.Model); ok {
		p.Model = d
	}
	return p.apply(), cmd
}

func (p presetDashboard) apply() presetDashboard {
	if p.applied {
		return p
	}
	options := p.CustomerOptions()
	if len(options) == 0 {
		return p
	}

	selection := domain.NewSelection(options, p.customers...)
	if len(selection) < len(p.customers) {
		p.logger.Warn("ignoring unknown customers", zap.Strings("requested", p.customers), zap.Strings("selected", selection))
	}
	p.Model = p.Select(selection)
	p.applied = true
	return p
}

// Settled also waits for the selection to be applied, unless the customer
// list never arrived.
func (p presetDashboard) Settled() bool {
	if !p.Model.Settled() {
		return false
	}
	return p.applied || len(p.CustomerOptions()) == 0
}
