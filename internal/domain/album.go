package domain

import "time"

// Album represents a studio album in the catalog.
// Artists are ordered: the first entry is the display artist and participates
// in the title-per-artist uniqueness constraint. Genres are split into a
// primary set (filterable, shown in search results) and a secondary set
// (display only - secondary genres never participate in filter predicates).
type Album struct {
	Entity
	Title             string    `json:"title"`
	ReleaseDate       time.Time `json:"release_date"`
	AvgRating         Rating    `json:"avg_rating"`
	RatingCount       int       `json:"rating_count"`
	Link              string    `json:"link,omitempty"`
	CoverPath         string    `json:"cover_path,omitempty"`
	ArtistIDs         []string  `json:"artist_ids"`
	PrimaryGenreIDs   []string  `json:"primary_genre_ids"`
	SecondaryGenreIDs []string  `json:"secondary_genre_ids,omitempty"`
}

// ReleaseYear returns the calendar year component of the release date.
// Year filters operate on this value only.
func (a *Album) ReleaseYear() int {
	return a.ReleaseDate.Year()
}

// DisplayArtistID returns the first-listed artist, or empty when unset.
func (a *Album) DisplayArtistID() string {
	if len(a.ArtistIDs) == 0 {
		return ""
	}
	return a.ArtistIDs[0]
}

// HasPrimaryGenre reports whether the given genre is among the album's
// primary genres.
func (a *Album) HasPrimaryGenre(genreID string) bool {
	for _, id := range a.PrimaryGenreIDs {
		if id == genreID {
			return true
		}
	}
	return false
}
