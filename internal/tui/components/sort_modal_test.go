package components

import (
	"testing"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(movies []domain.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}

func TestSortMovies(t *testing.T) {
	movies := []domain.Movie{
		{ID: 1, Title: "heat", VoteAverage: 8.3, ReleaseDate: "1995-12-15", Popularity: 40},
		{ID: 2, Title: "Alien", VoteAverage: 8.5, ReleaseDate: "1979-05-25", Popularity: 60},
		{ID: 3, Title: "Ronin", VoteAverage: 7.2, ReleaseDate: "1998-09-25", Popularity: 20},
	}

	tests := []struct {
		name string
		sel  SortSelection
		want []string
	}{
		{"default keeps order", SortSelection{Field: SortDefault}, []string{"heat", "Alien", "Ronin"}},
		{"title ignores case", SortSelection{Field: SortTitle, Direction: SortAsc}, []string{"Alien", "heat", "Ronin"}},
		{"rating descending", SortSelection{Field: SortRating, Direction: SortDesc}, []string{"Alien", "heat", "Ronin"}},
		{"released ascending", SortSelection{Field: SortReleased, Direction: SortAsc}, []string{"Alien", "heat", "Ronin"}},
		{"released descending", SortSelection{Field: SortReleased, Direction: SortDesc}, []string{"Ronin", "heat", "Alien"}},
		{"popularity descending", SortSelection{Field: SortPopularity, Direction: SortDesc}, []string{"Alien", "heat", "Ronin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(SortMovies(movies, tt.sel)))
		})
	}

	t.Run("input is not modified", func(t *testing.T) {
		SortMovies(movies, SortSelection{Field: SortTitle})
		assert.Equal(t, []string{"heat", "Alien", "Ronin"}, titles(movies))
	})

	t.Run("ties keep catalog order", func(t *testing.T) {
		tied := []domain.Movie{{Title: "B", VoteAverage: 7}, {Title: "A", VoteAverage: 7}}
		assert.Equal(t, []string{"B", "A"}, titles(SortMovies(tied, SortSelection{Field: SortRating, Direction: SortDesc})))
	})
}

func TestSortModal(t *testing.T) {
	t.Run("hidden modal ignores keys", func(t *testing.T) {
		m := NewSortModal()
		handled, sel := m.HandleKey("enter")
		assert.False(t, handled)
		assert.Nil(t, sel)
	})

	t.Run("enter picks the field with its default direction", func(t *testing.T) {
		m := NewSortModal()
		m.Show(MovieSortOptions(), SortSelection{Field: SortDefault})

		m.HandleKey("j") // Title
		handled, sel := m.HandleKey("enter")
		require.True(t, handled)
		require.NotNil(t, sel)
		assert.Equal(t, SortSelection{Field: SortTitle, Direction: SortAsc}, *sel)
		assert.False(t, m.IsVisible())
	})

	t.Run("enter on the active field toggles direction", func(t *testing.T) {
		m := NewSortModal()
		m.Show(MovieSortOptions(), SortSelection{Field: SortRating, Direction: SortDesc})

		_, sel := m.HandleKey("enter")
		require.NotNil(t, sel)
		assert.Equal(t, SortSelection{Field: SortRating, Direction: SortAsc}, *sel)
	})

	t.Run("cursor stays in bounds", func(t *testing.T) {
		m := NewSortModal()
		m.Show(MovieSortOptions(), SortSelection{Field: SortDefault})

		m.HandleKey("k")
		for range 10 {
			m.HandleKey("j")
		}
		_, sel := m.HandleKey("enter")
		require.NotNil(t, sel)
		assert.Equal(t, SortPopularity, sel.Field)
	})

	t.Run("esc closes without choosing", func(t *testing.T) {
		m := NewSortModal()
		m.Show(MovieSortOptions(), SortSelection{})

		handled, sel := m.HandleKey("esc")
		assert.True(t, handled)
		assert.Nil(t, sel)
		assert.False(t, m.IsVisible())
	})
}
