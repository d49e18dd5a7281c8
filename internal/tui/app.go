// internal/tui/app.go
//
// This is the terminal UI for tastematch.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// Two screens: the quiz walks through the question bank, the summary shows
// the resolved match and pulses the restart button until the user leaves.

package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kingrea/tastematch/internal/config"
	"github.com/kingrea/tastematch/internal/quiz"
	"github.com/kingrea/tastematch/internal/report"
	"github.com/kingrea/tastematch/internal/summary"
)

// appState represents which "screen" we're on
type appState int

const (
	stateQuiz    appState = iota // Answering questions
	stateSummary                 // Showing the resolved match
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// ReporterFactory builds the reporter for one playthrough.
type ReporterFactory func() report.Reporter

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithReporterFactory overrides how score reporters are created.
func WithReporterFactory(factory ReporterFactory) AppOption {
	return func(a *App) {
		if factory != nil {
			a.newReporter = factory
		}
	}
}

// WithLogger routes app logs to the given zap logger.
func WithLogger(l *zap.Logger) AppOption {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithHeartbeat overrides the summary pulse interval.
func WithHeartbeat(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.heartbeat = d
		}
	}
}

// WithBank overrides the question bank named in the config.
func WithBank(bank quiz.Bank) AppOption {
	return func(a *App) {
		if len(bank.Questions) > 0 {
			a.bank = bank
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state       appState
	config      *config.Config
	bank        quiz.Bank
	log         *zap.Logger
	newReporter ReporterFactory
	heartbeat   time.Duration

	keys keyMap
	help help.Model

	quiz    *quizScreen
	summary *summaryScreen
	runs    int

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp creates a new App for the project directory.
func NewApp(cfg *config.Config, opts ...AppOption) (*App, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	app := &App{
		state:     stateQuiz,
		config:    cfg,
		log:       zap.NewNop(),
		heartbeat: cfg.HeartbeatInterval(),
		keys:      defaultKeyMap(),
		help:      help.New(),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	if len(app.bank.Questions) == 0 {
		bank, err := quiz.LoadBank(cfg.BankPath())
		if err != nil {
			return nil, err
		}
		app.bank = bank
	}
	if app.newReporter == nil {
		app.newReporter = app.defaultReporterFactory()
	}
	app.quiz = newQuizScreen(app.bank, app.listWidth(), app.listHeight())
	return app, nil
}

func (a *App) defaultReporterFactory() ReporterFactory {
	endpoint := a.config.ReportEndpoint()
	if endpoint == "" {
		return func() report.Reporter { return report.Nop{} }
	}
	timeout := a.config.ReportTimeout()
	return func() report.Reporter {
		rep, err := report.NewHTTP(endpoint, report.WithTimeout(timeout))
		if err != nil {
			a.log.Warn("score reporting disabled", zap.Error(err))
			return report.Nop{}
		}
		return rep
	}
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	title := a.bank.Title
	if title == "" {
		title = "tastematch"
	}
	return tea.SetWindowTitle(title)
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.quiz.setSize(a.listWidth(), a.listHeight())
		return a, nil

	case pulseMsg:
		if a.summary == nil {
			return a, nil
		}
		return a, a.summary.handlePulse(msg)

	case reportMsg:
		if a.summary == nil {
			return a, nil
		}
		return a, a.summary.handleReport(msg)

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			return a.quit()
		}
		switch a.state {
		case stateQuiz:
			return a.updateQuiz(msg)
		case stateSummary:
			if key.Matches(msg, a.keys.Restart) {
				a.summary.session.Restart()
			}
			return a, nil
		}
	}
	return a, nil
}

func (a *App) updateQuiz(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Choose):
		if a.quiz.choose() {
			return a.showSummary()
		}
		return a, nil
	case key.Matches(msg, a.keys.Skip):
		if a.quiz.skip() {
			return a.showSummary()
		}
		return a, nil
	case key.Matches(msg, a.keys.Back):
		a.quiz.back()
		return a, nil
	}
	var cmd tea.Cmd
	a.quiz.options, cmd = a.quiz.options.Update(msg)
	return a, cmd
}

// showSummary mounts a fresh result session for the collected answers.
func (a *App) showSummary() (tea.Model, tea.Cmd) {
	a.runs++
	a.summary = newSummaryScreen(a.runs, a.bank.Questions,
		summary.WithReporter(a.newReporter()),
		summary.WithLogger(a.log.Named("summary")),
		summary.WithHeartbeat(a.heartbeat),
		summary.WithRestart(a.restartQuiz),
	)
	a.state = stateSummary
	cmd := a.summary.mount(a.quiz.answers)
	a.log.Info("quiz finished",
		zap.Int("run", a.runs),
		zap.String("verdict", string(a.summary.view.Verdict)))
	return a, cmd
}

// restartQuiz is the navigation target of the summary's restart action.
func (a *App) restartQuiz() {
	a.summary.unmount()
	a.summary = nil
	a.quiz = newQuizScreen(a.bank, a.listWidth(), a.listHeight())
	a.state = stateQuiz
	a.log.Info("quiz restarted")
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.Close()
	return a, tea.Quit
}

// Close unmounts any live summary session.
func (a *App) Close() {
	if a.summary != nil {
		a.summary.unmount()
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	var (
		content string
		helpMap help.KeyMap
	)
	switch a.state {
	case stateQuiz:
		content = a.quiz.View()
		helpMap = quizHelp{keys: a.keys}
	case stateSummary:
		content = a.summary.View(a.width)
		helpMap = summaryHelp{keys: a.keys}
	}
	footer := lipgloss.NewStyle().MarginTop(1).Render(a.help.View(helpMap))
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join([]string{content, footer}, "\n"))
}

func (a *App) listWidth() int {
	return max(20, a.width-6)
}

func (a *App) listHeight() int {
	return max(6, a.height-10)
}
