package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/query"
	"github.com/crateapp/crate-server/internal/store"
)

const albumColumns = `id, created_at, updated_at, title, release_date, avg_rating, rating_count, link, cover_path`

func scanAlbum(scanner interface{ Scan(dest ...any) error }) (*domain.Album, error) {
	var a domain.Album

	var (
		createdAt   string
		updatedAt   string
		releaseDate string
		avgRating   int
	)

	err := scanner.Scan(
		&a.ID,
		&createdAt,
		&updatedAt,
		&a.Title,
		&releaseDate,
		&avgRating,
		&a.RatingCount,
		&a.Link,
		&a.CoverPath,
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
	a.ReleaseDate, err = parseTime(releaseDate)
	if err != nil {
		return nil, err
	}
	a.AvgRating = domain.Rating(avgRating)

	return &a, nil
}

// CreateAlbum inserts a new album with its artist credits and genre
// assignments in one transaction.
func (s *Store) CreateAlbum(ctx context.Context, album *domain.Album) error {
	return s.withTx(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO albums (id, created_at, updated_at, title, release_date, release_year, avg_rating, rating_count, link, cover_path)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			album.ID,
			formatTime(album.CreatedAt),
			formatTime(album.UpdatedAt),
			album.Title,
			formatTime(album.ReleaseDate),
			album.ReleaseYear(),
			int(album.AvgRating),
			album.RatingCount,
			album.Link,
			album.CoverPath,
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return store.ErrAlreadyExists
			}
			return err
		}
		return insertAlbumLinks(ctx, tx, album)
	})
}

// GetAlbum retrieves an album by ID, including artist credits and genre
// assignments.
// Returns store.ErrNotFound if the album does not exist.
func (s *Store) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+albumColumns+` FROM albums WHERE id = ?`, id)

	a, err := scanAlbum(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadAlbumLinks(ctx, []*domain.Album{a}); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAlbum performs a full row update on an existing album, replacing its
// artist credits and genre assignments.
func (s *Store) UpdateAlbum(ctx context.Context, album *domain.Album) error {
	return s.withTx(func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE albums SET
				updated_at = ?,
				title = ?,
				release_date = ?,
				release_year = ?,
				avg_rating = ?,
				rating_count = ?,
				link = ?,
				cover_path = ?
			WHERE id = ?`,
			formatTime(album.UpdatedAt),
			album.Title,
			formatTime(album.ReleaseDate),
			album.ReleaseYear(),
			int(album.AvgRating),
			album.RatingCount,
			album.Link,
			album.CoverPath,
			album.ID,
		)
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

		if _, err := tx.ExecContext(ctx, `DELETE FROM album_artists WHERE album_id = ?`, album.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM album_genres WHERE album_id = ?`, album.ID); err != nil {
			return err
		}
		return insertAlbumLinks(ctx, tx, album)
	})
}

// DeleteAlbum removes an album. Join rows and list entries cascade.
// Returns store.ErrNotFound if the album does not exist.
func (s *Store) DeleteAlbum(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
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

// ListAlbums executes a compiled query descriptor: the descriptor's clauses
// become the WHERE conjunction and its order the ORDER BY. Artist credits
// and genre assignments are loaded for the returned page only.
func (s *Store) ListAlbums(ctx context.Context, desc query.Descriptor, params store.PaginationParams) (*store.PaginatedResult[*domain.Album], error) {
	params.Validate()

	where, args := buildWhere(desc.Where)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	pageArgs := append(append([]any{}, args...), params.Limit, params.Offset)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+albumColumns+` FROM albums`+where+` ORDER BY `+desc.Order+` LIMIT ? OFFSET ?`,
		pageArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []*domain.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadAlbumLinks(ctx, albums); err != nil {
		return nil, err
	}

	return &store.PaginatedResult[*domain.Album]{
		Items:   albums,
		HasMore: params.Offset+len(albums) < total,
		Total:   total,
	}, nil
}

// ListAlbumsByArtist returns every album crediting the artist, oldest release
// first.
func (s *Store) ListAlbumsByArtist(ctx context.Context, artistID string) ([]*domain.Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+albumColumns+` FROM albums
		WHERE id IN (SELECT album_id FROM album_artists WHERE artist_id = ?)
		ORDER BY release_year ASC, id ASC`, artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []*domain.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadAlbumLinks(ctx, albums); err != nil {
		return nil, err
	}
	return albums, nil
}

// AlbumTitleExists reports whether another album with the same title is
// already credited to the same display artist. excludeAlbumID skips the
// album being updated; pass "" on create.
func (s *Store) AlbumTitleExists(ctx context.Context, title, displayArtistID, excludeAlbumID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM albums a
		JOIN album_artists aa ON aa.album_id = a.id AND aa.position = 0
		WHERE a.title = ? AND aa.artist_id = ? AND a.id != ?`,
		title, displayArtistID, excludeAlbumID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// buildWhere joins descriptor clauses into a WHERE fragment with a leading
// space, or "" when no clauses are active.
func buildWhere(clauses []query.Clause) (string, []any) {
	if len(clauses) == 0 {
		return "", nil
	}
	exprs := make([]string, len(clauses))
	var args []any
	for i, c := range clauses {
		exprs[i] = "(" + c.Expr + ")"
		args = append(args, c.Args...)
	}
	return " WHERE " + strings.Join(exprs, " AND "), args
}

// insertAlbumLinks writes the album_artists and album_genres rows for an
// album. The first artist ID gets position 0 and is the display artist.
func insertAlbumLinks(ctx context.Context, tx *sql.Tx, album *domain.Album) error {
	for i, artistID := range album.ArtistIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO album_artists (album_id, artist_id, position) VALUES (?, ?, ?)`,
			album.ID, artistID, i); err != nil {
			return err
		}
	}
	for _, genreID := range album.PrimaryGenreIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO album_genres (album_id, genre_id, role) VALUES (?, ?, 'primary')`,
			album.ID, genreID); err != nil {
			return err
		}
	}
	for _, genreID := range album.SecondaryGenreIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO album_genres (album_id, genre_id, role) VALUES (?, ?, 'secondary')`,
			album.ID, genreID); err != nil {
			return err
		}
	}
	return nil
}

// loadAlbumLinks populates ArtistIDs and genre ID slices for a batch of
// albums with two queries.
func (s *Store) loadAlbumLinks(ctx context.Context, albums []*domain.Album) error {
	if len(albums) == 0 {
		return nil
	}

	byID := make(map[string]*domain.Album, len(albums))
	ids := make([]any, len(albums))
	placeholders := make([]string, len(albums))
	for i, a := range albums {
		byID[a.ID] = a
		ids[i] = a.ID
		placeholders[i] = "?"
	}
	in := "(" + strings.Join(placeholders, ",") + ")"

	rows, err := s.db.QueryContext(ctx, `
		SELECT album_id, artist_id FROM album_artists
		WHERE album_id IN `+in+` ORDER BY album_id, position ASC`, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var albumID, artistID string
		if err := rows.Scan(&albumID, &artistID); err != nil {
			return err
		}
		a := byID[albumID]
		a.ArtistIDs = append(a.ArtistIDs, artistID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	grows, err := s.db.QueryContext(ctx, `
		SELECT album_id, genre_id, role FROM album_genres
		WHERE album_id IN `+in+` ORDER BY album_id, genre_id ASC`, ids...)
	if err != nil {
		return err
	}
	defer grows.Close()
	for grows.Next() {
		var albumID, genreID, role string
		if err := grows.Scan(&albumID, &genreID, &role); err != nil {
			return err
		}
		a := byID[albumID]
		if role == "primary" {
			a.PrimaryGenreIDs = append(a.PrimaryGenreIDs, genreID)
		} else {
			a.SecondaryGenreIDs = append(a.SecondaryGenreIDs, genreID)
		}
	}
	return grows.Err()
}
