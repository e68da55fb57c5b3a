package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/moviehub/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	layout := m.calculateColumnLayout(m.Width)
	content := m.Tabs.Current().View()
	if layout.inspectorWidth > 0 {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.Inspector.View())
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTabBar(),
		m.SearchBar.View(),
		m.renderFeatured(),
		content,
		m.renderFooter(),
	)

	// Overlays
	switch {
	case m.Confirm.IsVisible():
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.Confirm.View())
	case m.Omnibar.IsVisible():
		view = m.Omnibar.View()
	case m.SortModal.IsVisible():
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			m.SortModal.View())
	}

	return view
}

// renderTabBar renders the tabs on the left and the account on the right
func (m Model) renderTabBar() string {
	var tabs []string
	for t := Tab(0); t < tabCount; t++ {
		label := m.Tabs.Label(t)
		if t == m.Tabs.Active() {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(label))
		}
	}
	left := strings.Join(tabs, " ")

	right := styles.DimStyle.Render(m.Session.Identity.Name()) + "  " + m.Sync.View()

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderFeatured lists the movies now in theaters
func (m Model) renderFeatured() string {
	if len(m.Browse.Featured) == 0 {
		return ""
	}
	titles := make([]string, len(m.Browse.Featured))
	for i, f := range m.Browse.Featured {
		titles[i] = f.Title
	}
	const label = "Now playing "
	list := styles.Truncate(strings.Join(titles, " · "), m.Width-len(label))
	return styles.AccentStyle.Render(label) + styles.SubtitleStyle.Render(list)
}

// renderFooter renders status on the left and key hints on the right
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.Browse.Loading && m.Tabs.Active() == TabBrowse:
		frame := styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]
		left = styles.SpinnerStyle.Render(frame) + " " + styles.DimStyle.Render("Loading...")
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.SuccessStyle.Render(m.StatusMsg)
		}
	case m.State == StateSearching && m.suggestion != "":
		left = styles.AccentStyle.Render("tab") + styles.DimStyle.Render(" "+m.suggestion)
	}

	right := m.help.ShortHelpView(Keys.ShortHelp())

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Not enough space - status wins
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	content := styles.ModalTitleStyle.Render("Keys") + "\n" +
		m.help.FullHelpView(Keys.FullHelp()) + "\n\n" +
		styles.DimStyle.Render("Press esc or ? to return...")

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(content))
}
