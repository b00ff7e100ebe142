package shell

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/adapters/render/dashboard"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"github.com/DIEAbdulHadi/NebuloViz/internal/query"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	Title = "NebuloViz Advanced Sales Dashboard"

	DefaultPruneInterval = time.Minute
)

var (
	quitKey   = key.NewBinding(key.WithKeys("ctrl+c", "esc"))
	logoutKey = key.NewBinding(key.WithKeys("ctrl+o"))
)

// SessionChangedMsg tells the shell the credential changed.
type SessionChangedMsg struct {
	SignedIn bool
}

type dashboardLoadedMsg struct {
	model tea.Model
	err   error
}

type cacheUpdatedMsg struct {
	key query.Key
}

type pruneTickMsg time.Time

type logoutDoneMsg struct {
	err error
}

type Options struct {
	Route string
	Cache *query.Cache
	// Credentials reports whether a session is active for the title bar.
	Credentials ports.CredentialSource
	// Logout erases the session. ctrl+o is ignored when nil.
	Logout func(context.Context) error
	// LoadDashboard builds the dashboard. It runs off the UI loop the first
	// time the root route is shown.
	LoadDashboard func() (tea.Model, error)
	PruneInterval time.Duration
	Clock         ports.Clock
	Logger        *zap.Logger
}

// Model is the application frame: title bar, route dispatch, the containment
// boundary around the page and the bridge from cache updates to the UI loop.
type Model struct {
	opts    Options
	styles  styles
	spinner spinner.Model
	page    page

	dashboard *Deferred[tea.Model]
	content   boundary
	loaded    bool
	loadErr   error

	signedIn bool
	status   string
	width    int
}

func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.PruneInterval <= 0 {
		opts.PruneInterval = DefaultPruneInterval
	}
	logger := opts.Logger.Named("shell")

	m := Model{
		opts:   opts,
		styles: newStyles(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(colorPrimary)),
		),
		page:    resolve(opts.Route),
		content: newBoundary(nil, logger),
	}
	if opts.LoadDashboard != nil {
		m.dashboard = Defer(opts.LoadDashboard)
	}
	if opts.Credentials != nil {
		_, m.signedIn = opts.Credentials.Credential()
	}
	opts.Logger = logger
	m.opts = opts

	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.page == pageDashboard {
		cmds = append(cmds, m.loadDashboard())
	}
	if m.opts.Cache != nil {
		cmds = append(cmds, m.listen(), m.schedulePrune())
	}
	return tea.Batch(cmds...)
}

func (m Model) loadDashboard() tea.Cmd {
	if m.dashboard == nil {
		return func() tea.Msg {
			return dashboardLoadedMsg{err: errors.New("dashboard is not available")}
		}
	}

	deferred := m.dashboard
	return func() tea.Msg {
		loaded := make(chan dashboardLoadedMsg, 1)
		if !deferred.Start(func(model tea.Model, err error) {
			loaded <- dashboardLoadedMsg{model: model, err: err}
		}) {
			model, err := deferred.Await(context.Background())
			return dashboardLoadedMsg{model: model, err: err}
		}
		return <-loaded
	}
}

func (m Model) listen() tea.Cmd {
	if m.opts.Cache == nil {
		return nil
	}
	updates := m.opts.Cache.Updates()
	return func() tea.Msg {
		updated, ok := <-updates
		if !ok {
			return nil
		}
		return cacheUpdatedMsg{key: updated}
	}
}

func (m Model) schedulePrune() tea.Cmd {
	return tea.Tick(m.opts.PruneInterval, func(t time.Time) tea.Msg {
		return pruneTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, quitKey):
			return m, tea.Quit
		case key.Matches(msg, logoutKey):
			return m, m.logout()
		}
	case spinner.TickMsg:
		var spinCmd, childCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		m.content, childCmd = m.content.update(msg)
		return m, tea.Batch(spinCmd, childCmd)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case dashboardLoadedMsg:
		return m.mount(msg)
	case cacheUpdatedMsg:
		var cmd tea.Cmd
		m.content, cmd = m.content.update(dashboard.SyncMsg{})
		return m, tea.Batch(cmd, m.listen())
	case pruneTickMsg:
		var cmd tea.Cmd
		m.content, cmd = m.content.update(dashboard.SyncMsg{})
		if removed := m.opts.Cache.Prune(m.opts.Clock.Now()); removed > 0 {
			m.opts.Logger.Debug("pruned query cache", zap.Int("removed", removed))
		}
		return m, tea.Batch(cmd, m.schedulePrune())
	case SessionChangedMsg:
		m.signedIn = msg.SignedIn
		var cmd tea.Cmd
		m.content, cmd = m.content.update(dashboard.SyncMsg{})
		return m, cmd
	case logoutDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Sign out failed: %v", msg.err)
			return m, nil
		}
		m.status = ""
		m.signedIn = false
		return m, nil
	}

	var cmd tea.Cmd
	m.content, cmd = m.content.update(msg)
	return m, cmd
}

func (m Model) mount(msg dashboardLoadedMsg) (tea.Model, tea.Cmd) {
	m.loaded = true
	if msg.err != nil {
		m.loadErr = msg.err
		m.opts.Logger.Error("load dashboard", zap.Error(msg.err))
		return m, nil
	}

	m.content = newBoundary(msg.model, m.opts.Logger)
	cmd := m.content.init()
	if m.width > 0 {
		var sizeCmd tea.Cmd
		m.content, sizeCmd = m.content.update(tea.WindowSizeMsg{Width: m.width})
		cmd = tea.Batch(cmd, sizeCmd)
	}
	return m, cmd
}

func (m Model) logout() tea.Cmd {
	if m.opts.Logout == nil {
		return nil
	}
	logout := m.opts.Logout
	return func() tea.Msg {
		return logoutDoneMsg{err: logout(context.Background())}
	}
}

// Ready reports whether the page finished loading.
func (m Model) Ready() bool {
	return m.page == pageNotFound || m.loaded
}

// Settled reports whether the page is loaded and none of its queries is
// fetching.
func (m Model) Settled() bool {
	if !m.Ready() {
		return false
	}
	if m.content.failed() {
		return true
	}
	if settler, ok := m.content.child.(interface{ Settled() bool }); ok {
		return settler.Settled()
	}
	return true
}

func (m Model) View() string {
	sections := []string{m.header(), m.body()}
	if m.status != "" {
		sections = append(sections, m.styles.status.Render(m.status))
	}
	sections = append(sections, m.styles.footer.Render(m.help()))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) header() string {
	session := m.styles.signedOut.Render("○ signed out")
	if m.signedIn {
		session = m.styles.signedIn.Render("● signed in")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.titleBar.Render(Title),
		" ",
		m.styles.route.Render(m.opts.Route),
		"  ",
		session,
	)
}

func (m Model) body() string {
	switch {
	case m.page == pageNotFound:
		return m.styles.notFound.Render(fmt.Sprintf("404: no page at %q.", m.opts.Route))
	case !m.loaded:
		return fmt.Sprintf("\n%s Loading dashboard...", m.spinner.View())
	case m.loadErr != nil:
		return m.styles.fallback.Render(fallbackMessage)
	default:
		return m.content.view(m.styles)
	}
}

func (m Model) help() string {
	parts := "esc quit"
	if m.opts.Logout != nil {
		parts += " • ctrl+o sign out"
	}
	if helper, ok := m.content.child.(interface{ Help() string }); ok && !m.content.failed() && m.loaded {
		parts = helper.Help() + " • " + parts
	}
	return parts
}
