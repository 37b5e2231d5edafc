package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crateapp/crate-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeTestUser(id, email string) *domain.User {
	now := time.Now()
	return &domain.User{
		Entity:       domain.Entity{ID: id, CreatedAt: now, UpdatedAt: now},
		Email:        email,
		Name:         "Test User",
		PasswordHash: "argon2id$fake",
	}
}

func makeTestArtist(id, name string) *domain.Artist {
	now := time.Now()
	return &domain.Artist{
		Entity: domain.Entity{ID: id, CreatedAt: now, UpdatedAt: now},
		Name:   name,
	}
}

func makeTestGenre(id, name, slug string) *domain.Genre {
	now := time.Now()
	return &domain.Genre{
		Entity: domain.Entity{ID: id, CreatedAt: now, UpdatedAt: now},
		Name:   name,
		Slug:   slug,
	}
}

func makeTestAlbum(id, title, artistID string, year int) *domain.Album {
	now := time.Now()
	return &domain.Album{
		Entity:      domain.Entity{ID: id, CreatedAt: now, UpdatedAt: now},
		Title:       title,
		ReleaseDate: time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC),
		ArtistIDs:   []string{artistID},
	}
}

// mustCreate fatals on any creation error, keeping fixture setup terse.
func mustCreate(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{
		"users", "sessions", "artists", "genres",
		"albums", "album_artists", "album_genres",
		"lists", "list_entries",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	u := makeTestUser("user-1", "a@example.com")
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent) and keep existing data.
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()

	if _, err := s2.GetUser(context.Background(), "user-1"); err != nil {
		t.Fatalf("get user after re-open: %v", err)
	}
}
