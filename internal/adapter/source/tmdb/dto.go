package tmdb

// pagedMovies is the envelope for list endpoints (search, popular, discover)
type pagedMovies struct {
	Page         int        `json:"page"`
	Results      []movieDTO `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

type movieDTO struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	OriginalTitle    string     `json:"original_title"`
	Overview         string     `json:"overview"`
	OriginalLanguage string     `json:"original_language"`
	GenreIDs         []int      `json:"genre_ids"`
	Genres           []genreDTO `json:"genres"` // Only on /movie/{id}
	ReleaseDate      string     `json:"release_date"`
	Popularity       float64    `json:"popularity"`
	VoteAverage      float64    `json:"vote_average"`
	VoteCount        int        `json:"vote_count"`
	PosterPath       *string    `json:"poster_path"`
	BackdropPath     *string    `json:"backdrop_path"`
	Runtime          *int       `json:"runtime"`
}

type genreDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreList struct {
	Genres []genreDTO `json:"genres"`
}

// languageDTO is an entry of /configuration/languages, which returns a bare array
type languageDTO struct {
	Code        string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
	Name        string `json:"name"`
}

// errorBody is TMDB's error envelope
type errorBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Success       bool   `json:"success"`
}
