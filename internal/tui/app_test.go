package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/kingrea/tastematch/internal/config"
	"github.com/kingrea/tastematch/internal/quiz"
	"github.com/kingrea/tastematch/internal/report"
	"github.com/kingrea/tastematch/internal/summary"
)

func testBank() quiz.Bank {
	return quiz.Bank{
		Title: "Test Quiz",
		Questions: []quiz.Question{
			{Prompt: "First?", Options: []string{"w", "x", "y", "z"}},
			{Prompt: "Second?", Options: []string{"w", "x", "y", "z"}},
		},
	}
}

type reportCall struct {
	verdict quiz.Category
}

func newTestApp(t *testing.T, calls chan reportCall) *App {
	t.Helper()
	t.Setenv("TASTEMATCH_REPORT_ENDPOINT", "")
	cfg, err := config.NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	factory := func() report.Reporter {
		return report.Func(func(ctx context.Context, verdict quiz.Category) (report.Result, error) {
			if calls != nil {
				calls <- reportCall{verdict: verdict}
			}
			return report.Result{StatusCode: 202}, nil
		})
	}
	app, err := NewApp(cfg,
		WithBank(testBank()),
		WithReporterFactory(factory),
		WithHeartbeat(time.Hour),
	)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func press(t *testing.T, app *App, msg tea.KeyMsg) tea.Cmd {
	t.Helper()
	model, cmd := app.Update(msg)
	if model != app {
		t.Fatalf("update must keep the same model")
	}
	return cmd
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySkip  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}
	keyR     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

func waitForReport(t *testing.T, calls chan reportCall) reportCall {
	t.Helper()
	select {
	case call := <-calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for report")
		return reportCall{}
	}
}

func TestQuizFinishesIntoSummary(t *testing.T) {
	calls := make(chan reportCall, 4)
	app := newTestApp(t, calls)

	press(t, app, keyDown)
	press(t, app, keyEnter)
	if app.state != stateQuiz {
		t.Fatalf("expected quiz after first answer, got %v", app.state)
	}
	press(t, app, keyDown)
	press(t, app, keyEnter)
	if app.state != stateSummary {
		t.Fatalf("expected summary after last answer, got %v", app.state)
	}
	if app.summary == nil {
		t.Fatalf("summary screen must be mounted")
	}
	if got := app.summary.view.Verdict; got != quiz.CategoryB {
		t.Fatalf("expected verdict B, got %s", got)
	}
	if call := waitForReport(t, calls); call.verdict != quiz.CategoryB {
		t.Fatalf("expected report for B, got %s", call.verdict)
	}
	if got := app.summary.session.ReportsStarted(); got != 1 {
		t.Fatalf("expected one report, got %d", got)
	}
}

func TestSkippingEverythingResolvesFirstEligible(t *testing.T) {
	calls := make(chan reportCall, 4)
	app := newTestApp(t, calls)

	press(t, app, keySkip)
	press(t, app, keySkip)
	if app.state != stateSummary {
		t.Fatalf("expected summary, got %v", app.state)
	}
	view := app.summary.view
	if view.Verdict != quiz.CategoryA {
		t.Fatalf("expected verdict A, got %s", view.Verdict)
	}
	if view.Stats.Skipped != 2 || view.Stats.Matched != 0 {
		t.Fatalf("unexpected stats %+v", view.Stats)
	}
	waitForReport(t, calls)
}

func TestExcludedCategoryNeverWins(t *testing.T) {
	calls := make(chan reportCall, 4)
	app := newTestApp(t, calls)

	for i := 0; i < 2; i++ {
		press(t, app, keyDown)
		press(t, app, keyDown)
		press(t, app, keyDown)
		press(t, app, keyEnter)
	}
	if got := app.summary.view.Tally.Get(quiz.CategoryD); got != 2 {
		t.Fatalf("expected D to be tallied twice, got %d", got)
	}
	if got := app.summary.view.Verdict; got != quiz.CategoryA {
		t.Fatalf("expected fallback verdict A, got %s", got)
	}
	waitForReport(t, calls)
}

func TestBackDropsPreviousAnswer(t *testing.T) {
	app := newTestApp(t, nil)

	press(t, app, keySkip)
	if got := len(app.quiz.answers); got != 1 {
		t.Fatalf("expected one answer, got %d", got)
	}
	press(t, app, keyEsc)
	if got := len(app.quiz.answers); got != 0 {
		t.Fatalf("expected answers cleared, got %d", got)
	}
	if app.quiz.index != 0 {
		t.Fatalf("expected first question, got %d", app.quiz.index)
	}
	press(t, app, keyEsc)
	if app.quiz.index != 0 {
		t.Fatalf("back on first question must be a no-op")
	}
}

func TestRestartUnmountsSessionAndResetsQuiz(t *testing.T) {
	calls := make(chan reportCall, 4)
	app := newTestApp(t, calls)

	press(t, app, keyEnter)
	press(t, app, keyEnter)
	waitForReport(t, calls)
	old := app.summary

	press(t, app, keyR)
	if app.state != stateQuiz {
		t.Fatalf("expected quiz after restart, got %v", app.state)
	}
	if app.summary != nil {
		t.Fatalf("summary must be released on restart")
	}
	if app.quiz.index != 0 || len(app.quiz.answers) != 0 {
		t.Fatalf("quiz must start over, got index %d answers %d", app.quiz.index, len(app.quiz.answers))
	}
	if !old.closed {
		t.Fatalf("old summary screen must be unmounted")
	}
	if _, ok := <-old.session.Pulses(); ok {
		t.Fatalf("pulse channel must be closed after unmount")
	}
	if err := old.session.Mount(); err != summary.ErrUnmounted {
		t.Fatalf("expected ErrUnmounted after restart, got %v", err)
	}

	press(t, app, keyEnter)
	press(t, app, keyEnter)
	if app.summary == nil || app.summary.gen == old.gen {
		t.Fatalf("second playthrough must mount a new generation")
	}
	waitForReport(t, calls)
}

func TestQuitUnmountsSummary(t *testing.T) {
	app := newTestApp(t, nil)

	press(t, app, keySkip)
	press(t, app, keySkip)
	screen := app.summary

	cmd := press(t, app, keyQuit)
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if !screen.closed {
		t.Fatalf("summary must be unmounted before quitting")
	}
}

func TestStaleMessagesAreIgnored(t *testing.T) {
	app := newTestApp(t, nil)

	press(t, app, keySkip)
	press(t, app, keySkip)
	screen := app.summary

	if cmd := screen.handlePulse(pulseMsg{gen: screen.gen + 1, value: true}); cmd != nil {
		t.Fatalf("stale pulse must not re-arm the listener")
	}
	if screen.pulse {
		t.Fatalf("stale pulse must not change the button")
	}
	if cmd := screen.handleReport(reportMsg{gen: screen.gen - 1}); cmd != nil {
		t.Fatalf("stale report must not re-arm the listener")
	}

	app.Update(pulseMsg{gen: screen.gen, value: true})
	if !screen.pulse {
		t.Fatalf("expected current pulse to be applied")
	}
	app.Update(reportMsg{gen: screen.gen, outcome: summary.ReportOutcome{
		Verdict: quiz.CategoryA,
		Result:  report.Result{StatusCode: 202},
	}})
	if !screen.reported || screen.status != 202 {
		t.Fatalf("expected report to be recorded, got reported=%v status=%d", screen.reported, screen.status)
	}
}

func TestSummaryViewShowsRecommendation(t *testing.T) {
	app := newTestApp(t, nil)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	press(t, app, keyEnter)
	press(t, app, keyEnter)

	view := app.View()
	for _, want := range []string{"The Groove Lover", "Your Perfect Match", "Match A", "Take Quiz Again", "Questions"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, view)
		}
	}
}

func TestQuizViewShowsProgress(t *testing.T) {
	app := newTestApp(t, nil)

	view := app.View()
	if !strings.Contains(view, "Question 1 of 2") {
		t.Fatalf("expected progress in view:\n%s", view)
	}
	if !strings.Contains(view, "First?") {
		t.Fatalf("expected prompt in view:\n%s", view)
	}
}

func TestRenderSummaryPulseShowsWithoutColor(t *testing.T) {
	renderer := lipgloss.DefaultRenderer()
	prev := renderer.ColorProfile()
	renderer.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { renderer.SetColorProfile(prev) })

	s := summary.New(testBank().Questions)
	view := s.Update([]quiz.Answer{quiz.Pick("y"), quiz.Pick("y")})
	s.Unmount()

	calm := renderSummary(view, false, 80)
	pulsed := renderSummary(view, true, 80)
	if calm == pulsed {
		t.Fatalf("pulse must change the rendered button without color")
	}
	if !strings.Contains(calm, strings.TrimSpace(restartLabel)) || strings.Contains(calm, "▸") {
		t.Fatalf("expected calm button:\n%s", calm)
	}
	if !strings.Contains(pulsed, restartLabelPulsed) {
		t.Fatalf("expected pulsed button:\n%s", pulsed)
	}
	if !strings.Contains(calm, "The Chill Connoisseur") {
		t.Fatalf("expected C recommendation:\n%s", calm)
	}
}
