package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/tastematch/internal/quiz"
	"github.com/kingrea/tastematch/internal/summary"
)

// pulseMsg carries one heartbeat toggle from a summary session.
type pulseMsg struct {
	gen   int
	value bool
}

// reportMsg carries a finished score report.
type reportMsg struct {
	gen     int
	outcome summary.ReportOutcome
}

// summaryScreen adapts a summary.Session to bubbletea. The session's
// background tasks reach the update loop through channels that close once
// the session is unmounted, which ends the listening commands.
type summaryScreen struct {
	gen      int
	session  *summary.Session
	outcomes chan summary.ReportOutcome
	view     summary.View
	pulse    bool
	reported bool
	status   int
	closed   bool
}

func newSummaryScreen(gen int, questions []quiz.Question, opts ...summary.Option) *summaryScreen {
	s := &summaryScreen{
		gen:      gen,
		outcomes: make(chan summary.ReportOutcome, 4),
	}
	opts = append(opts,
		summary.WithRenderer(func(v summary.View) { s.view = v }),
		summary.WithReportDone(func(o summary.ReportOutcome) {
			select {
			case s.outcomes <- o:
			default:
			}
		}),
	)
	s.session = summary.New(questions, opts...)
	return s
}

// mount starts the session and resolves the answers.
func (s *summaryScreen) mount(answers []quiz.Answer) tea.Cmd {
	if err := s.session.Mount(); err != nil {
		return nil
	}
	s.session.Update(answers)
	return tea.Batch(s.waitForPulse(), s.waitForReport())
}

// unmount tears the session down. Safe to call more than once.
func (s *summaryScreen) unmount() {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	s.session.Unmount()
	close(s.outcomes)
}

func (s *summaryScreen) waitForPulse() tea.Cmd {
	gen, ch := s.gen, s.session.Pulses()
	return func() tea.Msg {
		value, ok := <-ch
		if !ok {
			return nil
		}
		return pulseMsg{gen: gen, value: value}
	}
}

func (s *summaryScreen) waitForReport() tea.Cmd {
	gen, ch := s.gen, s.outcomes
	return func() tea.Msg {
		outcome, ok := <-ch
		if !ok {
			return nil
		}
		return reportMsg{gen: gen, outcome: outcome}
	}
}

func (s *summaryScreen) handlePulse(msg pulseMsg) tea.Cmd {
	if s.closed || msg.gen != s.gen {
		return nil
	}
	s.pulse = msg.value
	return s.waitForPulse()
}

func (s *summaryScreen) handleReport(msg reportMsg) tea.Cmd {
	if s.closed || msg.gen != s.gen {
		return nil
	}
	if msg.outcome.Err == nil {
		s.reported = true
		s.status = msg.outcome.Result.StatusCode
	}
	return s.waitForReport()
}

func (s *summaryScreen) View(width int) string {
	return renderSummary(s.view, s.pulse, width)
}

const (
	restartLabel       = "  Take Quiz Again →"
	restartLabelPulsed = "▸ Take Quiz Again ◂"
)

// renderSummary is a pure function of the resolved view and the pulse flag.
func renderSummary(v summary.View, pulse bool, width int) string {
	theme := v.Theme
	rec := v.Recommendation
	accent := lipgloss.Color(theme.Accent)
	primary := lipgloss.Color(theme.PrimaryText)
	secondary := lipgloss.Color(theme.SecondaryText)
	ornament := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Ornament))

	cardWidth := min(max(40, width-4), 72)
	center := lipgloss.NewStyle().Width(cardWidth).Align(lipgloss.Center)

	header := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(spaced(rec.Header))
	icon := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.IconBorder)).
		Padding(0, 2).
		Render(rec.Icon)
	heading := lipgloss.NewStyle().Bold(true).Foreground(primary).Render("Your Perfect Match")
	top := lipgloss.JoinVertical(lipgloss.Center,
		center.Render(header),
		center.Render(icon),
		center.Render(heading),
		center.Render(ornament.Render("✦ ✦ ✦")),
	)

	badge := lipgloss.NewStyle().
		Background(lipgloss.Color(theme.BadgeBg)).
		Foreground(lipgloss.Color(theme.BadgeText)).
		Padding(0, 1).
		Render(fmt.Sprintf("Match %s", v.Verdict))
	title := lipgloss.NewStyle().Bold(true).Foreground(primary).Render(rec.Title)
	divider := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent3)).Render(strings.Repeat("─", 24))
	subtitle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent2)).Render(rec.Subtitle)

	lineStyle := lipgloss.NewStyle().Foreground(secondary).Width(cardWidth - 6).Align(lipgloss.Center)
	lines := make([]string, 0, len(rec.Lines))
	for _, line := range rec.Lines {
		lines = append(lines, lineStyle.Render(line))
	}

	offer := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(theme.Border)).
		Padding(0, 1).
		Width(cardWidth - 8).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Foreground(accent).Render("🎁 Your Exclusive Offer"),
			lipgloss.NewStyle().Foreground(primary).Render(rec.CTA),
		))

	stat := lipgloss.NewStyle().Bold(true).Foreground(accent)
	label := lipgloss.NewStyle().Foreground(secondary)
	stats := lipgloss.JoinHorizontal(lipgloss.Center,
		stat.Render(string(v.Verdict)), " ", label.Render("Your Match"),
		ornament.Render("   |   "),
		stat.Render(fmt.Sprintf("%d", v.Stats.Questions)), " ", label.Render("Questions"),
	)

	inner := []string{
		badge,
		title,
		divider,
		subtitle,
		"",
	}
	inner = append(inner, lines...)
	inner = append(inner, "", offer, "", stats)
	card := lipgloss.NewStyle().
		Background(lipgloss.Color(theme.Background)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Border)).
		Padding(0, 2).
		Width(cardWidth).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, inner...))
	corners := ornament.Render(fmt.Sprintf("%s  %s  %s", "⟡", rec.DecorativeIcon, "⟡"))

	button := lipgloss.NewStyle().
		Background(lipgloss.Color(theme.ButtonBg)).
		Foreground(lipgloss.Color(theme.ButtonText)).
		Padding(0, 3)
	buttonLabel := restartLabel
	if pulse {
		// The marker change keeps the pulse visible on terminals without color.
		button = button.Bold(true).Background(lipgloss.Color(theme.Glow))
		buttonLabel = restartLabelPulsed
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		top,
		"",
		center.Render(corners),
		card,
		"",
		center.Render(button.Render(buttonLabel)),
	)
}

func spaced(value string) string {
	return strings.Join(strings.Split(value, ""), " ")
}
