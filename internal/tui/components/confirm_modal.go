package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/moviehub/internal/tui/styles"
)

// ConfirmModal asks a yes/no question before a destructive action
type ConfirmModal struct {
	visible bool
	prompt  string
	action  string // opaque tag returned on confirm
}

// Show displays the modal. action is handed back when the user confirms.
func (m *ConfirmModal) Show(prompt, action string) {
	m.visible = true
	m.prompt = prompt
	m.action = action
}

func (m *ConfirmModal) Hide() {
	m.visible = false
}

func (m ConfirmModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, confirmed action).
// Every key is consumed while visible.
func (m *ConfirmModal) HandleKey(key string) (bool, string) {
	if !m.visible {
		return false, ""
	}
	switch key {
	case "y", "Y", "enter":
		m.visible = false
		return true, m.action
	case "n", "N", "esc", "q":
		m.visible = false
	}
	return true, ""
}

// View renders the modal
func (m ConfirmModal) View() string {
	if !m.visible {
		return ""
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(m.prompt),
		styles.DimStyle.Render("y: confirm   n: cancel"),
	)
	return styles.ModalStyle.Render(content)
}
