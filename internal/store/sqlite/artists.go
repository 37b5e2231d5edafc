package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/store"
)

const artistColumns = `id, created_at, updated_at, name, origin_country, start_year, end_year`

func scanArtist(scanner interface{ Scan(dest ...any) error }) (*domain.Artist, error) {
	var a domain.Artist

	var (
		createdAt string
		updatedAt string
		startYear sql.NullInt64
		endYear   sql.NullInt64
	)

	err := scanner.Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
		&a.Name,
		&a.OriginCountry,
		&startYear,
		&endYear,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	a.StartYear = intPtr(startYear)
	a.EndYear = intPtr(endYear)

	return &a, nil
}

// CreateArtist inserts a new artist.
// Returns store.ErrAlreadyExists if the name is taken.
func (s *Store) CreateArtist(ctx context.Context, artist *domain.Artist) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artists (id, created_at, updated_at, name, origin_country, start_year, end_year)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		artist.ID,
		formatTime(artist.CreatedAt),
		formatTime(artist.UpdatedAt),
		artist.Name,
		artist.OriginCountry,
		nullInt(artist.StartYear),
		nullInt(artist.EndYear),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// GetArtist retrieves an artist by ID.
// Returns store.ErrNotFound if the artist does not exist.
func (s *Store) GetArtist(ctx context.Context, id string) (*domain.Artist, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+artistColumns+` FROM artists WHERE id = ?`, id)

	a, err := scanArtist(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateArtist performs a full row update on an existing artist.
func (s *Store) UpdateArtist(ctx context.Context, artist *domain.Artist) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE artists SET
			updated_at = ?,
			name = ?,
			origin_country = ?,
			start_year = ?,
			end_year = ?
		WHERE id = ?`,
		formatTime(artist.UpdatedAt),
		artist.Name,
		artist.OriginCountry,
		nullInt(artist.StartYear),
		nullInt(artist.EndYear),
		artist.ID,
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

// ArtistNameExists reports whether another artist already uses the name.
// excludeArtistID skips the artist being updated; pass "" on create.
func (s *Store) ArtistNameExists(ctx context.Context, name, excludeArtistID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM artists WHERE name = ? AND id != ?`,
		name, excludeArtistID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteArtist removes an artist along with any albums that would be left
// without a credited artist. Albums shared with other artists survive.
// Returns store.ErrNotFound if the artist does not exist.
func (s *Store) DeleteArtist(ctx context.Context, id string) error {
	return s.withTx(func(tx *sql.Tx) error {
		// Albums credited only to this artist go with it.
		_, err := tx.ExecContext(ctx, `
			DELETE FROM albums WHERE id IN (
				SELECT aa.album_id FROM album_artists aa
				WHERE aa.artist_id = ?
				AND NOT EXISTS (
					SELECT 1 FROM album_artists other
					WHERE other.album_id = aa.album_id AND other.artist_id != ?
				)
			)`, id, id)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM artists WHERE id = ?`, id)
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
	})
}

// ListArtists returns artists ordered by name, paginated.
func (s *Store) ListArtists(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Artist], error) {
	params.Validate()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artists`).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+artistColumns+` FROM artists ORDER BY name ASC, id ASC LIMIT ? OFFSET ?`,
		params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []*domain.Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.PaginatedResult[*domain.Artist]{
		Items:   artists,
		HasMore: params.Offset+len(artists) < total,
		Total:   total,
	}, nil
}
