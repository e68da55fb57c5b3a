package service

import (
	"testing"

	"github.com/mmcdole/moviehub/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pickerGenres = []domain.Genre{
	{ID: 28, Name: "Action"},
	{ID: 35, Name: "Comedy"},
	{ID: 36, Name: "History"},
	{ID: 27, Name: "Horror"},
	{ID: 878, Name: "Science Fiction"},
}

func TestFilterGenres(t *testing.T) {
	got := FilterGenres(pickerGenres, "hor")

	require.NotEmpty(t, got)
	assert.Equal(t, "Horror", got[0].Name)
	for _, g := range got {
		assert.NotEqual(t, "Comedy", g.Name)
	}
}

func TestFilterGenresIsCaseInsensitive(t *testing.T) {
	got := FilterGenres(pickerGenres, "SCI")

	require.Len(t, got, 1)
	assert.Equal(t, 878, got[0].ID)
}

func TestFilterBlankReturnsEverything(t *testing.T) {
	got := FilterGenres(pickerGenres, "  ")

	assert.Equal(t, pickerGenres, got)
	got[0].Name = "changed"
	assert.Equal(t, "Action", pickerGenres[0].Name, "result is a copy")
}

func TestFilterLanguages(t *testing.T) {
	langs := []domain.Language{
		{Code: "en", EnglishName: "English"},
		{Code: "es", EnglishName: "Spanish", NativeName: "Español"},
		{Code: "ko", EnglishName: "Korean"},
	}

	got := FilterLanguages(langs, "span")

	require.Len(t, got, 1)
	assert.Equal(t, "es", got[0].Code)
}

func TestFuzzyMatchReportsPositions(t *testing.T) {
	movies := []domain.Movie{movie(1, "Heat"), movie(2, "Alien")}

	got := FuzzyMatch(movies, "aln", func(m domain.Movie) string { return m.Title })

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Index)
	assert.Equal(t, []int{0, 1, 4}, got[0].MatchedIndexes)
	assert.Empty(t, FilterMovies(movies, "zzz"))
}
