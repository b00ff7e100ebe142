package dashboard

import (
	"strings"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const customersFailure = "Error loading customers."

var (
	cursorUpKey   = key.NewBinding(key.WithKeys("up", "k"))
	cursorDownKey = key.NewBinding(key.WithKeys("down", "j"))
	toggleKey     = key.NewBinding(key.WithKeys(" ", "x"))
	clearKey      = key.NewBinding(key.WithKeys("backspace", "c"))
)

// customerSelect is a multi-select over the customer list. It reports every
// change as a complete new selection.
type customerSelect struct {
	cursor int
}

func (c customerSelect) update(msg tea.KeyMsg, options []string, selection domain.Selection) (customerSelect, tea.Cmd) {
	if len(options) == 0 {
		return c, nil
	}
	c.cursor = min(max(c.cursor, 0), len(options)-1)

	switch {
	case key.Matches(msg, cursorUpKey):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(msg, cursorDownKey):
		if c.cursor < len(options)-1 {
			c.cursor++
		}
	case key.Matches(msg, toggleKey):
		return c, selectionChanged(selection.Toggle(options, options[c.cursor]))
	case key.Matches(msg, clearKey):
		if !selection.Empty() {
			return c, selectionChanged(domain.Selection{})
		}
	}

	return c, nil
}

func selectionChanged(selection domain.Selection) tea.Cmd {
	return func() tea.Msg {
		return SelectionChangedMsg{Selection: selection}
	}
}

func (c customerSelect) view(options []string, selection domain.Selection, focused bool, f frame) string {
	if len(options) == 0 {
		return f.styles.hint.Render("No customers available.")
	}

	lines := make([]string, 0, len(options)+1)
	for i, option := range options {
		pointer := "  "
		if focused && i == c.cursor {
			pointer = f.styles.cursor.Render("> ")
		}
		box := "[ ]"
		if selection.Contains(option) {
			box = f.styles.checked.Render("[x]")
		}
		lines = append(lines, pointer+box+" "+option)
	}

	summary := "No customers selected."
	if !selection.Empty() {
		summary = "Selected: " + strings.Join(selection, ", ")
	}
	lines = append(lines, f.styles.hint.Render(summary))

	return strings.Join(lines, "\n")
}
