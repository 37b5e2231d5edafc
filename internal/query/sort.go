package query

// SortKey names an ordering for album listings. The zero value sorts by
// insertion order (ascending id).
type SortKey string

// Recognized sort keys. A leading "-" reverses the primary column.
const (
	SortDefault         SortKey = ""
	SortYear            SortKey = "year"
	SortYearDesc        SortKey = "-year"
	SortRating          SortKey = "rating"
	SortRatingDesc      SortKey = "-rating"
	SortRatingCount     SortKey = "ratingcount"
	SortRatingCountDesc SortKey = "-ratingcount"
)

// ParseSortKey maps a raw sortby value to a SortKey. Unrecognized values
// fall back to the default order rather than failing the request.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortYear, SortYearDesc, SortRating, SortRatingDesc,
		SortRatingCount, SortRatingCountDesc:
		return k
	default:
		return SortDefault
	}
}

// OrderBy returns the ORDER BY expression for the key. Every ordering ends
// with an ascending id tie-break so equal primary values keep a stable,
// deterministic order.
func (k SortKey) OrderBy() string {
	switch k {
	case SortYear:
		return "release_year ASC, id ASC"
	case SortYearDesc:
		return "release_year DESC, id ASC"
	case SortRating:
		return "avg_rating ASC, id ASC"
	case SortRatingDesc:
		return "avg_rating DESC, id ASC"
	case SortRatingCount:
		return "rating_count ASC, id ASC"
	case SortRatingCountDesc:
		return "rating_count DESC, id ASC"
	default:
		return "id ASC"
	}
}
