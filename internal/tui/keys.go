package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings shown in the help footer.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Choose  key.Binding
	Skip    key.Binding
	Back    key.Binding
	Restart key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Choose:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Skip:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip")),
		Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Restart: key.NewBinding(key.WithKeys("enter", "r"), key.WithHelp("enter/r", "take quiz again")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// quizHelp is the binding set for the question screen.
type quizHelp struct{ keys keyMap }

func (h quizHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Up, h.keys.Down, h.keys.Choose, h.keys.Skip, h.keys.Back, h.keys.Quit}
}

func (h quizHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

// summaryHelp is the binding set for the result screen.
type summaryHelp struct{ keys keyMap }

func (h summaryHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Restart, h.keys.Quit}
}

func (h summaryHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
