package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/tastematch/internal/quiz"
)

// optionItem implements list.Item for one answer option
type optionItem struct {
	text string
}

func (i optionItem) Title() string       { return i.text }
func (i optionItem) Description() string { return "" }
func (i optionItem) FilterValue() string { return i.text }

// quizScreen walks the user through the bank one question at a time.
type quizScreen struct {
	bank    quiz.Bank
	index   int
	answers []quiz.Answer
	options list.Model
}

func newQuizScreen(bank quiz.Bank, width, height int) *quizScreen {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	options := list.New(nil, delegate, width, height)
	options.SetShowStatusBar(false)
	options.SetFilteringEnabled(false)
	options.SetShowHelp(false)
	options.SetShowPagination(false)
	options.KeyMap.Quit.SetEnabled(false)
	options.KeyMap.ForceQuit.SetEnabled(false)
	q := &quizScreen{bank: bank, options: options}
	q.loadQuestion()
	return q
}

func (q *quizScreen) loadQuestion() {
	if q.done() {
		return
	}
	question := q.bank.Questions[q.index]
	items := make([]list.Item, len(question.Options))
	for i, opt := range question.Options {
		items[i] = optionItem{text: opt}
	}
	q.options.Title = question.Prompt
	q.options.SetItems(items)
	q.options.Select(0)
}

func (q *quizScreen) done() bool {
	return q.index >= len(q.bank.Questions)
}

// choose records the highlighted option. It reports whether the quiz is over.
func (q *quizScreen) choose() bool {
	item, ok := q.options.SelectedItem().(optionItem)
	if !ok {
		return q.done()
	}
	return q.record(quiz.Pick(item.text))
}

// skip records the skipped marker. It reports whether the quiz is over.
func (q *quizScreen) skip() bool {
	return q.record(quiz.Skip())
}

func (q *quizScreen) record(ans quiz.Answer) bool {
	if q.done() {
		return true
	}
	q.answers = append(q.answers, ans)
	q.index++
	q.loadQuestion()
	return q.done()
}

// back drops the previous answer. It reports whether anything changed.
func (q *quizScreen) back() bool {
	if q.index == 0 {
		return false
	}
	q.index--
	q.answers = q.answers[:q.index]
	q.loadQuestion()
	return true
}

func (q *quizScreen) setSize(width, height int) {
	q.options.SetSize(width, height)
}

func (q *quizScreen) View() string {
	if q.done() {
		return ""
	}
	title := q.bank.Title
	if title == "" {
		title = "Quiz"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#D4AF37")).
		Render(title)
	progress := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(fmt.Sprintf("Question %d of %d", q.index+1, len(q.bank.Questions)))
	return lipgloss.JoinVertical(lipgloss.Left, head, progress, "", q.options.View())
}
