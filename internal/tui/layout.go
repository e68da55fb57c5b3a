package tui

// columnLayout holds calculated widths for the View
type columnLayout struct {
	listWidth      int
	inspectorWidth int // 0 if not shown
}

// calculateColumnLayout splits the width between the list and the inspector
func (m Model) calculateColumnLayout(availableWidth int) columnLayout {
	if !m.ShowInspector || availableWidth < 2*MinColumnWidth {
		return columnLayout{listWidth: availableWidth}
	}
	list := max(availableWidth*ListColumnPercent/100, MinColumnWidth)
	return columnLayout{
		listWidth:      list,
		inspectorWidth: availableWidth - list,
	}
}

// contentHeight is the height left for the list and inspector
func (m Model) contentHeight() int {
	return max(m.Height-ChromeHeight-SearchBarHeight, 3)
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	layout := m.calculateColumnLayout(m.Width)
	height := m.contentHeight()

	m.Tabs.SetSize(layout.listWidth, height)
	if layout.inspectorWidth > 0 {
		m.Inspector.SetSize(layout.inspectorWidth, height)
	}
	m.SearchBar.SetSize(m.Width)
	m.Omnibar.SetSize(m.Width, m.Height)
	m.help.Width = m.Width
}
