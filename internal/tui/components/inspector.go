package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/mmcdole/moviehub/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Inspector displays details for the selected movie
type Inspector struct {
	movie      *domain.Movie
	favorite   bool
	loading    bool // details request in flight
	languages  map[string]string
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{
		languages: make(map[string]string),
	}
}

// SetMovie sets the movie to display. Scroll resets when the movie changes.
func (i *Inspector) SetMovie(m *domain.Movie) {
	if m == nil || i.movie == nil || i.movie.ID != m.ID {
		i.offset = 0
	}
	i.movie = m
}

// Movie returns the displayed movie, or nil
func (i Inspector) Movie() *domain.Movie {
	return i.movie
}

func (i *Inspector) SetFavorite(favorite bool) {
	i.favorite = favorite
}

// SetLoading marks the details as still being fetched
func (i *Inspector) SetLoading(loading bool) {
	i.loading = loading
}

// SetLanguages provides display names for language codes
func (i *Inspector) SetLanguages(langs []domain.Language) {
	i.languages = make(map[string]string, len(langs))
	for _, l := range langs {
		i.languages[l.Code] = l.EnglishName
	}
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve border, scroll indicators, title and blank line
	i.maxVisible = height - InspectorBorderHeight - InspectorScrollIndicators - 2
	if i.maxVisible < 1 {
		i.maxVisible = 1
	}
}

// HasItem returns true if there is a movie to display
func (i Inspector) HasItem() bool {
	return i.movie != nil
}

func (i *Inspector) ScrollUp() {
	if i.offset > 0 {
		i.offset--
	}
}

func (i *Inspector) ScrollDown() {
	i.offset++
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder

	// Border takes 2 chars, leave 1 char safety margin
	contentWidth := max(i.width-3, 10)
	content := i.render(contentWidth)

	titleLine := styles.AccentStyle.Render(styles.Truncate("Details", contentWidth))

	// Three-zone layout: header is fixed, body scrolls, footer is fixed
	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(i.maxVisible-len(headerLines)-len(footerLines), 1)

	totalBodyLines := len(bodyLines)
	maxOffset := max(totalBodyLines-availableForBody, 0)
	offset := min(i.offset, maxOffset)

	end := min(offset+availableForBody, totalBodyLines)
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < totalBodyLines {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if len(headerLines) > 0 {
		parts = append(parts, headerLines...)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if len(footerLines) > 0 {
		parts = append(parts, footerLines...)
	}

	// Subtract frame size so total rendered size equals i.width x i.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(i.width - frameW).
		Height(i.height - frameH).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) render(width int) inspectorContent {
	if i.movie == nil {
		return inspectorContent{body: styles.DimStyle.Render("No movie selected")}
	}
	return inspectorContent{
		header: i.renderHeader(*i.movie, width),
		body:   i.renderBody(*i.movie, width),
		footer: renderFooter(*i.movie, width),
	}
}

func (i Inspector) renderHeader(m domain.Movie, width int) string {
	var b strings.Builder

	star := styles.EmptyStar
	if i.favorite {
		star = styles.FavoriteStar
	}
	b.WriteString(star + " " + styles.TitleStyle.Render(styles.Truncate(m.Title, width-2)))
	b.WriteString("\n")

	if m.OriginalTitle != "" && m.OriginalTitle != m.Title {
		b.WriteString(styles.SubtitleStyle.Render(styles.Truncate(m.OriginalTitle, width)))
		b.WriteString("\n")
	}

	var meta []string
	if y := m.Year(); y != "" {
		meta = append(meta, y)
	}
	if rt := m.FormattedRuntime(); rt != "" {
		meta = append(meta, rt)
	}
	if lang := i.languageName(m.OriginalLanguage); lang != "" {
		meta = append(meta, lang)
	}
	if len(meta) > 0 {
		b.WriteString(styles.DimStyle.Render(styles.Truncate(strings.Join(meta, " · "), width)))
		b.WriteString("\n")
	}

	if r := m.FormattedRating(); r != "" {
		line := lipgloss.NewStyle().Foreground(ratingColor(m.VoteAverage)).Bold(true).Render(r)
		if m.VoteCount > 0 {
			line += styles.DimStyle.Render(fmt.Sprintf(" (%d votes)", m.VoteCount))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if genres := m.GenreNames(); genres != "" {
		b.WriteString(styles.SubtitleStyle.Render(styles.Truncate(genres, width)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (i Inspector) renderBody(m domain.Movie, width int) string {
	if i.loading && m.Overview == "" {
		return styles.DimStyle.Render("Loading details...")
	}
	if m.Overview == "" {
		return styles.DimStyle.Render("No overview available")
	}
	return styles.SubtitleStyle.Render(wordWrap(m.Overview, min(width-2, 80)))
}

func renderFooter(m domain.Movie, width int) string {
	var b strings.Builder
	b.WriteString(styles.DimStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	b.WriteString(styles.DimStyle.Render("t: ") + styles.LinkStyle.Render("Watch trailer"))
	if m.PosterPath != "" {
		b.WriteString(styles.DimStyle.Render("   p: ") + styles.LinkStyle.Render("View poster"))
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("space: Toggle favorite"))

	return b.String()
}

func (i Inspector) languageName(code string) string {
	if code == "" {
		return ""
	}
	if name, ok := i.languages[code]; ok && name != "" {
		return name
	}
	return strings.ToUpper(code)
}

func ratingColor(avg float64) lipgloss.Color {
	switch {
	case avg >= 7:
		return styles.Green
	case avg >= 5:
		return styles.Gold
	default:
		return styles.Red
	}
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
