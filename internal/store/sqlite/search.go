package sqlite

import (
	"context"
	"database/sql"

	"github.com/crateapp/crate-server/internal/store"
)

// maxListCovers caps how many album covers a list candidate carries.
const maxListCovers = 4

// SearchArtists loads every artist as a lightweight search candidate.
func (s *Store) SearchArtists(ctx context.Context) ([]store.ArtistCandidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, origin_country, start_year, end_year FROM artists ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ArtistCandidate
	for rows.Next() {
		var (
			c                  store.ArtistCandidate
			startYear, endYear sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.OriginCountry, &startYear, &endYear); err != nil {
			return nil, err
		}
		c.StartYear = intPtr(startYear)
		c.EndYear = intPtr(endYear)
		out = append(out, c)
	}
	return out, rows.Err()
}

// SearchAlbums loads every album as a lightweight search candidate with its
// display artist and primary genre names.
func (s *Store) SearchAlbums(ctx context.Context) ([]store.AlbumCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.title, a.cover_path, COALESCE(ar.id, ''), COALESCE(ar.name, '')
		FROM albums a
		LEFT JOIN album_artists aa ON aa.album_id = a.id AND aa.position = 0
		LEFT JOIN artists ar ON ar.id = aa.artist_id
		ORDER BY a.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.AlbumCandidate
	index := make(map[string]int)
	for rows.Next() {
		var c store.AlbumCandidate
		if err := rows.Scan(&c.ID, &c.Title, &c.CoverPath, &c.ArtistID, &c.ArtistName); err != nil {
			return nil, err
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	grows, err := s.db.QueryContext(ctx, `
		SELECT ag.album_id, g.name
		FROM album_genres ag
		JOIN genres g ON g.id = ag.genre_id
		WHERE ag.role = 'primary'
		ORDER BY ag.album_id, g.name ASC`)
	if err != nil {
		return nil, err
	}
	defer grows.Close()

	for grows.Next() {
		var albumID, name string
		if err := grows.Scan(&albumID, &name); err != nil {
			return nil, err
		}
		if i, ok := index[albumID]; ok {
			out[i].PrimaryGenres = append(out[i].PrimaryGenres, name)
		}
	}
	return out, grows.Err()
}

// SearchLists loads every public list as a lightweight search candidate with
// its owner's display name and up to four entry covers (ascending album id).
func (s *Store) SearchLists(ctx context.Context) ([]store.ListCandidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.label, u.name
		FROM lists l
		JOIN users u ON u.id = l.owner_id
		WHERE l.public = 1
		ORDER BY l.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ListCandidate
	index := make(map[string]int)
	for rows.Next() {
		var c store.ListCandidate
		if err := rows.Scan(&c.ID, &c.Label, &c.OwnerName); err != nil {
			return nil, err
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := s.db.QueryContext(ctx, `
		SELECT le.list_id, a.cover_path
		FROM list_entries le
		JOIN albums a ON a.id = le.album_id
		WHERE a.cover_path != ''
		ORDER BY le.list_id, a.id ASC`)
	if err != nil {
		return nil, err
	}
	defer crows.Close()

	for crows.Next() {
		var listID, cover string
		if err := crows.Scan(&listID, &cover); err != nil {
			return nil, err
		}
		if i, ok := index[listID]; ok && len(out[i].CoverPaths) < maxListCovers {
			out[i].CoverPaths = append(out[i].CoverPaths, cover)
		}
	}
	return out, crows.Err()
}

// SearchGenres loads every genre as a lightweight search candidate.
func (s *Store) SearchGenres(ctx context.Context) ([]store.GenreCandidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, slug, description FROM genres ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.GenreCandidate
	for rows.Next() {
		var c store.GenreCandidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
