package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/store"
)

const genreColumns = `id, created_at, updated_at, name, slug, description`

func scanGenre(scanner interface{ Scan(dest ...any) error }) (*domain.Genre, error) {
	var g domain.Genre

	var createdAt, updatedAt string

	err := scanner.Scan(
		&g.ID,
		&createdAt,
		&updatedAt,
		&g.Name,
		&g.Slug,
		&g.Description,
	)
	if err != nil {
		return nil, err
	}

	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// CreateGenre inserts a new genre.
// Returns store.ErrAlreadyExists if the name or slug is taken.
func (s *Store) CreateGenre(ctx context.Context, genre *domain.Genre) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO genres (id, created_at, updated_at, name, slug, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		genre.ID,
		formatTime(genre.CreatedAt),
		formatTime(genre.UpdatedAt),
		genre.Name,
		genre.Slug,
		genre.Description,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetGenre retrieves a genre by ID.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) GetGenre(ctx context.Context, id string) (*domain.Genre, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE id = ?`, id)

	g, err := scanGenre(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGenreBySlug retrieves a genre by its URL slug.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) GetGenreBySlug(ctx context.Context, slug string) (*domain.Genre, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+genreColumns+` FROM genres WHERE slug = ?`, slug)

	g, err := scanGenre(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateGenre performs a full row update on an existing genre.
func (s *Store) UpdateGenre(ctx context.Context, genre *domain.Genre) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE genres SET
			updated_at = ?,
			name = ?,
			slug = ?,
			description = ?
		WHERE id = ?`,
		formatTime(genre.UpdatedAt),
		genre.Name,
		genre.Slug,
		genre.Description,
		genre.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteGenre removes a genre. Album assignments cascade.
// Returns store.ErrNotFound if the genre does not exist.
func (s *Store) DeleteGenre(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM genres WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListGenres returns all genres ordered by name.
func (s *Store) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+genreColumns+` FROM genres ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []*domain.Genre
	for rows.Next() {
		g, err := scanGenre(rows)
		if err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
