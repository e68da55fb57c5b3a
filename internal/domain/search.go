package domain

import (
	"fmt"
	"strings"
)

// FilterSelection is the user's current browse criteria. Genre and
// Language are nil when not selected; Query is free text.
type FilterSelection struct {
	Query    string
	Genre    *Genre
	Language *Language
}

// TrimmedQuery returns the query without surrounding whitespace
func (f FilterSelection) TrimmedQuery() string {
	return strings.TrimSpace(f.Query)
}

// HasQuery reports whether a non-blank query is set
func (f FilterSelection) HasQuery() bool {
	return f.TrimmedQuery() != ""
}

// IsEmpty reports whether no criterion is active
func (f FilterSelection) IsEmpty() bool {
	return !f.HasQuery() && f.Genre == nil && f.Language == nil
}

// Title returns the heading for the result section
func (f FilterSelection) Title() string {
	switch {
	case f.HasQuery():
		return fmt.Sprintf("Search: %q", f.TrimmedQuery())
	case f.Genre != nil && f.Language != nil:
		return fmt.Sprintf("%s %s Movies", f.Language.EnglishName, f.Genre.Name)
	case f.Genre != nil:
		return f.Genre.Name + " Movies"
	case f.Language != nil:
		return f.Language.EnglishName + " Movies"
	default:
		return "Popular Movies"
	}
}

// Tags returns the active criteria as short labels for display
func (f FilterSelection) Tags() []string {
	var tags []string
	if f.HasQuery() {
		tags = append(tags, fmt.Sprintf("%q", f.TrimmedQuery()))
	}
	if f.Genre != nil {
		tags = append(tags, f.Genre.Name)
	}
	if f.Language != nil {
		tags = append(tags, f.Language.EnglishName)
	}
	return tags
}
