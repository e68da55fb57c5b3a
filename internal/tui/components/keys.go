package components

import "github.com/charmbracelet/bubbles/key"

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// MovieListKeyMap moves the cursor within a movie list
type MovieListKeyMap struct {
	Up, Down         key.Binding
	Top, Bottom      key.Binding
	HalfUp, HalfDown key.Binding
	PageUp, PageDown key.Binding
}

// PickerKeyMap drives the genre and language picker
type PickerKeyMap struct {
	Close, Choose key.Binding
	Prev, Next    key.Binding
}

var (
	MovieListKeys = MovieListKeyMap{
		Up:       bind("k/↑", "up", "k", "up"),
		Down:     bind("j/↓", "down", "j", "down"),
		Top:      bind("g", "first movie", "g", "home"),
		Bottom:   bind("G", "last movie", "G", "end"),
		HalfUp:   bind("C-u", "half page up", "ctrl+u"),
		HalfDown: bind("C-d", "half page down", "ctrl+d"),
		PageUp:   bind("PgUp", "page up", "pgup"),
		PageDown: bind("PgDn", "page down", "pgdown"),
	}

	PickerKeys = PickerKeyMap{
		Close:  bind("esc", "close", "esc"),
		Choose: bind("enter", "apply filter", "enter"),
		Prev:   bind("↑/C-p", "previous", "up", "ctrl+p"),
		Next:   bind("↓/C-n", "next", "down", "ctrl+n"),
	}
)
