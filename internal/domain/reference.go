package domain

// DefaultGenres returns TMDB's movie genres. Their ids are fixed by the
// catalog, so the list stands in when the genre endpoint is unreachable.
func DefaultGenres() []Genre {
	return []Genre{
		{ID: 28, Name: "Action"},
		{ID: 12, Name: "Adventure"},
		{ID: 16, Name: "Animation"},
		{ID: 35, Name: "Comedy"},
		{ID: 80, Name: "Crime"},
		{ID: 99, Name: "Documentary"},
		{ID: 18, Name: "Drama"},
		{ID: 10751, Name: "Family"},
		{ID: 14, Name: "Fantasy"},
		{ID: 36, Name: "History"},
		{ID: 27, Name: "Horror"},
		{ID: 10402, Name: "Music"},
		{ID: 9648, Name: "Mystery"},
		{ID: 10749, Name: "Romance"},
		{ID: 878, Name: "Science Fiction"},
		{ID: 10770, Name: "TV Movie"},
		{ID: 53, Name: "Thriller"},
		{ID: 10752, Name: "War"},
		{ID: 37, Name: "Western"},
	}
}

// DefaultLanguages returns a core set of original languages used when the
// language endpoint is unreachable
func DefaultLanguages() []Language {
	return []Language{
		{Code: "en", EnglishName: "English"},
		{Code: "es", EnglishName: "Spanish"},
		{Code: "fr", EnglishName: "French"},
		{Code: "de", EnglishName: "German"},
		{Code: "ja", EnglishName: "Japanese"},
		{Code: "ko", EnglishName: "Korean"},
		{Code: "hi", EnglishName: "Hindi"},
		{Code: "it", EnglishName: "Italian"},
		{Code: "pt", EnglishName: "Portuguese"},
		{Code: "ru", EnglishName: "Russian"},
		{Code: "zh", EnglishName: "Chinese"},
		{Code: "ar", EnglishName: "Arabic"},
	}
}
