package search

// HitType represents the kind of entity a search hit refers to.
type HitType string

// Hit types, in merge precedence order.
const (
	HitTypeArtist HitType = "artist"
	HitTypeAlbum  HitType = "album"
	HitTypeList   HitType = "list"
	HitTypeGenre  HitType = "genre"
)

// typeRank orders hit types for tie-breaking when similarities are equal.
func typeRank(t HitType) int {
	switch t {
	case HitTypeArtist:
		return 0
	case HitTypeAlbum:
		return 1
	case HitTypeList:
		return 2
	default:
		return 3
	}
}

// Hit is one scored search result with type discrimination. Name is the
// matched display text: artist name, album title, list label, or genre name.
// The remaining fields are type-specific and empty for other types.
type Hit struct {
	// Identity
	ID         string  `json:"id"`
	Type       HitType `json:"type"`
	Name       string  `json:"name"`
	Similarity float64 `json:"similarity"`

	// Artist-specific fields
	OriginCountry string `json:"origin_country,omitempty"`
	StartYear     *int   `json:"start_year,omitempty"`
	EndYear       *int   `json:"end_year,omitempty"`

	// Album-specific fields
	ArtistID      string   `json:"artist_id,omitempty"`
	ArtistName    string   `json:"artist_name,omitempty"`
	PrimaryGenres []string `json:"primary_genres,omitempty"`
	CoverPath     string   `json:"cover_path,omitempty"`

	// List-specific fields
	OwnerName  string   `json:"owner_name,omitempty"`
	CoverPaths []string `json:"cover_paths,omitempty"`

	// Genre-specific fields
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
}
