package domain

// List is a user-curated, ordered collection of albums.
// Private lists are visible to their owner only; public lists are visible
// to every authenticated user (and to search).
type List struct {
	Entity
	Label   string  `json:"label"`
	OwnerID string  `json:"owner_id"`
	Public  bool    `json:"public"`
	Entries []Entry `json:"entries"`
}

// Entry places one album at a position within a list.
// Positions are unique within their list.
type Entry struct {
	ID       string `json:"id"`
	AlbumID  string `json:"album_id"`
	Position int    `json:"position"`
	Note     string `json:"note,omitempty"`
}

// ContainsAlbum reports whether the list already references the album.
func (l *List) ContainsAlbum(albumID string) bool {
	for _, e := range l.Entries {
		if e.AlbumID == albumID {
			return true
		}
	}
	return false
}

// NormalizePositions rewrites entry positions to a dense 0..n-1 sequence,
// preserving the current order. Call after removals so position uniqueness
// holds on the next insert.
func (l *List) NormalizePositions() {
	for i := range l.Entries {
		l.Entries[i].Position = i
	}
}

// VisibleTo reports whether the given user may read this list.
func (l *List) VisibleTo(userID string, isAdmin bool) bool {
	return l.Public || l.OwnerID == userID || isAdmin
}
