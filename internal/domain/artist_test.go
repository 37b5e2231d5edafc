package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestArtist_YearsValid(t *testing.T) {
	tests := []struct {
		name  string
		start *int
		end   *int
		valid bool
	}{
		{"both unset", nil, nil, true},
		{"start only", intPtr(1993), nil, true},
		{"end only", nil, intPtr(2004), true},
		{"ordered", intPtr(1993), intPtr(2004), true},
		{"same year", intPtr(1999), intPtr(1999), true},
		{"inverted", intPtr(2004), intPtr(1993), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Artist{StartYear: tt.start, EndYear: tt.end}
			assert.Equal(t, tt.valid, a.YearsValid())
		})
	}
}

func TestAlbum_ReleaseYear(t *testing.T) {
	a := Album{ReleaseDate: time.Date(1997, time.May, 21, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 1997, a.ReleaseYear())
}

func TestAlbum_DisplayArtistID(t *testing.T) {
	a := Album{ArtistIDs: []string{"artist-1", "artist-2"}}
	assert.Equal(t, "artist-1", a.DisplayArtistID())

	assert.Empty(t, (&Album{}).DisplayArtistID())
}

func TestList_NormalizePositions(t *testing.T) {
	l := List{Entries: []Entry{
		{AlbumID: "album-a", Position: 3},
		{AlbumID: "album-b", Position: 7},
		{AlbumID: "album-c", Position: 9},
	}}

	l.NormalizePositions()

	for i, e := range l.Entries {
		assert.Equal(t, i, e.Position)
	}
}

func TestList_VisibleTo(t *testing.T) {
	l := List{OwnerID: "user-1", Public: false}

	assert.True(t, l.VisibleTo("user-1", false))
	assert.False(t, l.VisibleTo("user-2", false))
	assert.True(t, l.VisibleTo("user-2", true))

	l.Public = true
	assert.True(t, l.VisibleTo("user-2", false))
}
