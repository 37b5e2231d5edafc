package domain

// Artist represents a recording artist or band.
// Names are unique across the catalog.
type Artist struct {
	Entity
	Name          string `json:"name"`
	OriginCountry string `json:"origin_country,omitempty"` // ISO 3166-1 alpha-3
	StartYear     *int   `json:"start_year,omitempty"`
	EndYear       *int   `json:"end_year,omitempty"`
}

// YearsValid reports whether the active-year bounds are consistent:
// when both are present, the end year must not precede the start year.
func (a *Artist) YearsValid() bool {
	if a.StartYear == nil || a.EndYear == nil {
		return true
	}
	return *a.EndYear >= *a.StartYear
}

// Active reports whether the artist is still active (no end year recorded).
func (a *Artist) Active() bool {
	return a.EndYear == nil
}
