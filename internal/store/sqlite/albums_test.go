package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crateapp/crate-server/internal/query"
	"github.com/crateapp/crate-server/internal/store"
)

// seedCatalog inserts one artist, three genres and three albums:
//
//	album-a: 1990, rating 1.00 x10,  primary rock
//	album-b: 1995, rating 2.00 x20,  primary rock+jazz
//	album-c: 2000, rating 3.00 x30,  primary jazz, secondary rock
func seedCatalog(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	mustCreate(t, s.CreateArtist(ctx, makeTestArtist("artist-1", "Artist One")))
	mustCreate(t, s.CreateGenre(ctx, makeTestGenre("genre-rock", "Rock", "rock")))
	mustCreate(t, s.CreateGenre(ctx, makeTestGenre("genre-jazz", "Jazz", "jazz")))
	mustCreate(t, s.CreateGenre(ctx, makeTestGenre("genre-pop", "Pop", "pop")))

	a := makeTestAlbum("album-a", "Alpha", "artist-1", 1990)
	a.AvgRating, a.RatingCount = 100, 10
	a.PrimaryGenreIDs = []string{"genre-rock"}
	mustCreate(t, s.CreateAlbum(ctx, a))

	b := makeTestAlbum("album-b", "Beta", "artist-1", 1995)
	b.AvgRating, b.RatingCount = 200, 20
	b.PrimaryGenreIDs = []string{"genre-rock", "genre-jazz"}
	mustCreate(t, s.CreateAlbum(ctx, b))

	c := makeTestAlbum("album-c", "Gamma", "artist-1", 2000)
	c.AvgRating, c.RatingCount = 300, 30
	c.PrimaryGenreIDs = []string{"genre-jazz"}
	c.SecondaryGenreIDs = []string{"genre-rock"}
	mustCreate(t, s.CreateAlbum(ctx, c))
}

// listIDs runs a raw filter map through the query engine against the store
// and returns the matching album IDs in order.
func listIDs(t *testing.T, s *Store, raw map[string]string) []string {
	t.Helper()

	opts, err := query.ParseOptions(raw)
	if err != nil {
		t.Fatalf("parse options %v: %v", raw, err)
	}
	result, err := s.ListAlbums(context.Background(), opts.Compile(), store.DefaultPaginationParams())
	if err != nil {
		t.Fatalf("list albums %v: %v", raw, err)
	}

	ids := make([]string, len(result.Items))
	for i, a := range result.Items {
		ids[i] = a.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAlbumCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s.CreateArtist(ctx, makeTestArtist("artist-1", "Artist One")))
	mustCreate(t, s.CreateArtist(ctx, makeTestArtist("artist-2", "Artist Two")))
	mustCreate(t, s.CreateGenre(ctx, makeTestGenre("genre-rock", "Rock", "rock")))
	mustCreate(t, s.CreateGenre(ctx, makeTestGenre("genre-jazz", "Jazz", "jazz")))

	a := makeTestAlbum("album-1", "First", "artist-1", 1997)
	a.ArtistIDs = []string{"artist-1", "artist-2"}
	a.PrimaryGenreIDs = []string{"genre-rock"}
	a.SecondaryGenreIDs = []string{"genre-jazz"}
	a.AvgRating = 825
	a.RatingCount = 42
	a.Link = "https://example.com/first"
	if err := s.CreateAlbum(ctx, a); err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}

	got, err := s.GetAlbum(ctx, "album-1")
	if err != nil {
		t.Fatalf("GetAlbum: %v", err)
	}
	if got.Title != "First" {
		t.Errorf("Title: got %q", got.Title)
	}
	if got.ReleaseYear() != 1997 {
		t.Errorf("ReleaseYear: got %d", got.ReleaseYear())
	}
	if got.AvgRating != 825 || got.RatingCount != 42 {
		t.Errorf("rating: got %v x%d", got.AvgRating, got.RatingCount)
	}
	// Display artist stays first.
	if !equalIDs(got.ArtistIDs, []string{"artist-1", "artist-2"}) {
		t.Errorf("ArtistIDs: got %v", got.ArtistIDs)
	}
	if !equalIDs(got.PrimaryGenreIDs, []string{"genre-rock"}) {
		t.Errorf("PrimaryGenreIDs: got %v", got.PrimaryGenreIDs)
	}
	if !equalIDs(got.SecondaryGenreIDs, []string{"genre-jazz"}) {
		t.Errorf("SecondaryGenreIDs: got %v", got.SecondaryGenreIDs)
	}

	// Update: swap display artist, promote the secondary genre.
	got.Title = "First (Remaster)"
	got.ArtistIDs = []string{"artist-2", "artist-1"}
	got.PrimaryGenreIDs = []string{"genre-jazz"}
	got.SecondaryGenreIDs = nil
	got.Touch()
	if err := s.UpdateAlbum(ctx, got); err != nil {
		t.Fatalf("UpdateAlbum: %v", err)
	}

	got2, err := s.GetAlbum(ctx, "album-1")
	if err != nil {
		t.Fatalf("GetAlbum after update: %v", err)
	}
	if got2.Title != "First (Remaster)" {
		t.Errorf("Title after update: got %q", got2.Title)
	}
	if got2.DisplayArtistID() != "artist-2" {
		t.Errorf("display artist: got %q", got2.DisplayArtistID())
	}
	if len(got2.SecondaryGenreIDs) != 0 {
		t.Errorf("SecondaryGenreIDs should be empty, got %v", got2.SecondaryGenreIDs)
	}

	if err := s.DeleteAlbum(ctx, "album-1"); err != nil {
		t.Fatalf("DeleteAlbum: %v", err)
	}
	if _, err := s.GetAlbum(ctx, "album-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteAlbum(ctx, "album-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("double delete: expected ErrNotFound, got %v", err)
	}
}

func TestListAlbumsYearFilters(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	tests := []struct {
		name string
		year string
		want []string
	}{
		{"exact", "1995", []string{"album-b"}},
		{"at least", "1995+", []string{"album-b", "album-c"}},
		{"at most", "1995-", []string{"album-a", "album-b"}},
		{"range", "1990,1995", []string{"album-a", "album-b"}},
		{"inverted range matches nothing", "1995,1990", nil},
		{"no match", "1980", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listIDs(t, s, map[string]string{"year": tt.year})
			if !equalIDs(got, tt.want) {
				t.Errorf("year=%s: got %v, want %v", tt.year, got, tt.want)
			}
		})
	}
}

func TestListAlbumsGenreFilters(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	t.Run("include single", func(t *testing.T) {
		got := listIDs(t, s, map[string]string{"ingenres": "genre-rock"})
		// album-c carries rock only as a secondary genre.
		if !equalIDs(got, []string{"album-a", "album-b"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("include is conjunctive", func(t *testing.T) {
		got := listIDs(t, s, map[string]string{"ingenres": "genre-rock,genre-jazz"})
		if !equalIDs(got, []string{"album-b"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("include unknown genre matches nothing", func(t *testing.T) {
		got := listIDs(t, s, map[string]string{"ingenres": "genre-metal"})
		if len(got) != 0 {
			t.Errorf("got %v", got)
		}
	})

	t.Run("exclude ignores secondary role", func(t *testing.T) {
		got := listIDs(t, s, map[string]string{"exgenres": "genre-rock"})
		if !equalIDs(got, []string{"album-c"}) {
			t.Errorf("got %v", got)
		}
	})

	t.Run("include and exclude combine", func(t *testing.T) {
		got := listIDs(t, s, map[string]string{"ingenres": "genre-jazz", "exgenres": "genre-rock"})
		if !equalIDs(got, []string{"album-c"}) {
			t.Errorf("got %v", got)
		}
	})
}

func TestListAlbumsRatingFilters(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	tests := []struct {
		name string
		raw  map[string]string
		want []string
	}{
		{"count at least", map[string]string{"rating_count": "20+"}, []string{"album-b", "album-c"}},
		{"count at most", map[string]string{"rating_count": "20-"}, []string{"album-a", "album-b"}},
		{"rating at least", map[string]string{"avg_rating": "2.00+"}, []string{"album-b", "album-c"}},
		{"rating at most", map[string]string{"avg_rating": "1.50-"}, []string{"album-a"}},
		{"rating boundary is inclusive", map[string]string{"avg_rating": "3.00+"}, []string{"album-c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := listIDs(t, s, tt.raw)
			if !equalIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListAlbumsSorting(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	tests := []struct {
		sortby string
		want   []string
	}{
		{"", []string{"album-a", "album-b", "album-c"}},
		{"year", []string{"album-a", "album-b", "album-c"}},
		{"-year", []string{"album-c", "album-b", "album-a"}},
		{"rating", []string{"album-a", "album-b", "album-c"}},
		{"-rating", []string{"album-c", "album-b", "album-a"}},
		{"ratingcount", []string{"album-a", "album-b", "album-c"}},
		{"-ratingcount", []string{"album-c", "album-b", "album-a"}},
		// Unknown keys fall back to insertion order.
		{"tracklength", []string{"album-a", "album-b", "album-c"}},
	}
	for _, tt := range tests {
		name := tt.sortby
		if name == "" {
			name = "default"
		}
		t.Run(name, func(t *testing.T) {
			got := listIDs(t, s, map[string]string{"sortby": tt.sortby})
			if !equalIDs(got, tt.want) {
				t.Errorf("sortby=%s: got %v, want %v", tt.sortby, got, tt.want)
			}
		})
	}
}

func TestListAlbumsSortTieBreak(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s.CreateArtist(ctx, makeTestArtist("artist-1", "Artist One")))
	// Same year, inserted out of id order.
	mustCreate(t, s.CreateAlbum(ctx, makeTestAlbum("album-z", "Zed", "artist-1", 1999)))
	mustCreate(t, s.CreateAlbum(ctx, makeTestAlbum("album-a", "Aye", "artist-1", 1999)))
	mustCreate(t, s.CreateAlbum(ctx, makeTestAlbum("album-m", "Em", "artist-1", 1999)))

	got := listIDs(t, s, map[string]string{"sortby": "year"})
	if !equalIDs(got, []string{"album-a", "album-m", "album-z"}) {
		t.Errorf("tie-break: got %v", got)
	}
}

func TestListAlbumsIdempotent(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	raw := map[string]string{"year": "1990+", "ingenres": "genre-rock", "sortby": "-rating"}
	first := listIDs(t, s, raw)
	second := listIDs(t, s, raw)
	if !equalIDs(first, second) {
		t.Errorf("repeated query diverged: %v vs %v", first, second)
	}
}

func TestListAlbumsPagination(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s)

	result, err := s.ListAlbums(context.Background(), query.Options{}.Compile(),
		store.PaginationParams{Limit: 2})
	if err != nil {
		t.Fatalf("ListAlbums: %v", err)
	}
	if len(result.Items) != 2 || !result.HasMore || result.Total != 3 {
		t.Errorf("page 1: got %d items, hasMore=%v, total=%d", len(result.Items), result.HasMore, result.Total)
	}

	result, err = s.ListAlbums(context.Background(), query.Options{}.Compile(),
		store.PaginationParams{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListAlbums page 2: %v", err)
	}
	if len(result.Items) != 1 || result.HasMore {
		t.Errorf("page 2: got %d items, hasMore=%v", len(result.Items), result.HasMore)
	}
	if result.Items[0].ID != "album-c" {
		t.Errorf("page 2: got %s", result.Items[0].ID)
	}
}

func TestAlbumTitleExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s.CreateArtist(ctx, makeTestArtist("artist-1", "Artist One")))
	mustCreate(t, s.CreateArtist(ctx, makeTestArtist("artist-2", "Artist Two")))
	mustCreate(t, s.CreateAlbum(ctx, makeTestAlbum("album-1", "Homonym", "artist-1", 1990)))

	exists, err := s.AlbumTitleExists(ctx, "Homonym", "artist-1", "")
	if err != nil {
		t.Fatalf("AlbumTitleExists: %v", err)
	}
	if !exists {
		t.Error("expected duplicate title for same display artist")
	}

	// Same title under a different display artist is fine.
	exists, err = s.AlbumTitleExists(ctx, "Homonym", "artist-2", "")
	if err != nil {
		t.Fatalf("AlbumTitleExists: %v", err)
	}
	if exists {
		t.Error("different artist should not collide")
	}

	// The album itself is excluded when updating.
	exists, err = s.AlbumTitleExists(ctx, "Homonym", "artist-1", "album-1")
	if err != nil {
		t.Fatalf("AlbumTitleExists: %v", err)
	}
	if exists {
		t.Error("update should not collide with itself")
	}
}

func TestListAlbumsByArtist(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s.CreateArtist(ctx, makeTestArtist("artist-1", "Artist One")))
	mustCreate(t, s.CreateArtist(ctx, makeTestArtist("artist-2", "Artist Two")))
	mustCreate(t, s.CreateAlbum(ctx, makeTestAlbum("album-1", "Late", "artist-1", 2005)))
	mustCreate(t, s.CreateAlbum(ctx, makeTestAlbum("album-2", "Early", "artist-1", 1995)))
	mustCreate(t, s.CreateAlbum(ctx, makeTestAlbum("album-3", "Other", "artist-2", 2000)))

	albums, err := s.ListAlbumsByArtist(ctx, "artist-1")
	if err != nil {
		t.Fatalf("ListAlbumsByArtist: %v", err)
	}

	var ids []string
	for _, a := range albums {
		ids = append(ids, a.ID)
	}
	if !equalIDs(ids, []string{"album-2", "album-1"}) {
		t.Errorf("got %v", ids)
	}
}

func TestAlbumReleaseYearTracksDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreate(t, s.CreateArtist(ctx, makeTestArtist("artist-1", "Artist One")))
	a := makeTestAlbum("album-1", "Shifting", "artist-1", 1990)
	mustCreate(t, s.CreateAlbum(ctx, a))

	a.ReleaseDate = time.Date(2003, time.March, 10, 0, 0, 0, 0, time.UTC)
	a.Touch()
	if err := s.UpdateAlbum(ctx, a); err != nil {
		t.Fatalf("UpdateAlbum: %v", err)
	}

	got := listIDs(t, s, map[string]string{"year": "2003"})
	if !equalIDs(got, []string{"album-1"}) {
		t.Errorf("release_year not maintained on update: got %v", got)
	}
}
