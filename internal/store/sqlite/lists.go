package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/store"
)

const listColumns = `id, created_at, updated_at, label, owner_id, public`

func scanList(scanner interface{ Scan(dest ...any) error }) (*domain.List, error) {
	var l domain.List

	var (
		createdAt string
		updatedAt string
		public    int
	)

	err := scanner.Scan(
		&l.ID,
		&createdAt,
		&updatedAt,
		&l.Label,
		&l.OwnerID,
		&public,
	)
	if err != nil {
		return nil, err
	}

	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	l.Public = public != 0

	return &l, nil
}

// CreateList inserts a new list with its entries in one transaction.
func (s *Store) CreateList(ctx context.Context, list *domain.List) error {
	return s.withTx(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lists (id, created_at, updated_at, label, owner_id, public)
			VALUES (?, ?, ?, ?, ?, ?)`,
			list.ID,
			formatTime(list.CreatedAt),
			formatTime(list.UpdatedAt),
			list.Label,
			list.OwnerID,
			boolToInt(list.Public),
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return store.ErrAlreadyExists
			}
			return err
		}
		return insertListEntries(ctx, tx, list)
	})
}

// GetList retrieves a list by ID including its entries in position order.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) GetList(ctx context.Context, id string) (*domain.List, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM lists WHERE id = ?`, id)

	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadListEntries(ctx, []*domain.List{l}); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateList performs a full row update on an existing list, replacing its
// entries wholesale.
func (s *Store) UpdateList(ctx context.Context, list *domain.List) error {
	return s.withTx(func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE lists SET
				updated_at = ?,
				label = ?,
				public = ?
			WHERE id = ?`,
			formatTime(list.UpdatedAt),
			list.Label,
			boolToInt(list.Public),
			list.ID,
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

		if _, err := tx.ExecContext(ctx, `DELETE FROM list_entries WHERE list_id = ?`, list.ID); err != nil {
			return err
		}
		return insertListEntries(ctx, tx, list)
	})
}

// DeleteList removes a list. Entries cascade.
// Returns store.ErrNotFound if the list does not exist.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM lists WHERE id = ?`, id)
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

// ListPublicLists returns all public lists, newest first.
func (s *Store) ListPublicLists(ctx context.Context) ([]*domain.List, error) {
	return s.queryLists(ctx,
		`SELECT `+listColumns+` FROM lists WHERE public = 1 ORDER BY created_at DESC, id ASC`)
}

// ListListsByOwner returns every list owned by a user, newest first.
func (s *Store) ListListsByOwner(ctx context.Context, ownerID string) ([]*domain.List, error) {
	return s.queryLists(ctx,
		`SELECT `+listColumns+` FROM lists WHERE owner_id = ? ORDER BY created_at DESC, id ASC`, ownerID)
}

func (s *Store) queryLists(ctx context.Context, q string, args ...any) ([]*domain.List, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*domain.List
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadListEntries(ctx, lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func insertListEntries(ctx context.Context, tx *sql.Tx, list *domain.List) error {
	for _, e := range list.Entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO list_entries (id, list_id, album_id, position, note)
			VALUES (?, ?, ?, ?, ?)`,
			e.ID, list.ID, e.AlbumID, e.Position, e.Note); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return store.ErrAlreadyExists
			}
			return err
		}
	}
	return nil
}

// loadListEntries populates Entries for a batch of lists with one query.
func (s *Store) loadListEntries(ctx context.Context, lists []*domain.List) error {
	if len(lists) == 0 {
		return nil
	}

	byID := make(map[string]*domain.List, len(lists))
	ids := make([]any, len(lists))
	placeholders := make([]string, len(lists))
	for i, l := range lists {
		byID[l.ID] = l
		ids[i] = l.ID
		placeholders[i] = "?"
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, list_id, album_id, position, note FROM list_entries
		WHERE list_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY list_id, position ASC`, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e      domain.Entry
			listID string
		)
		if err := rows.Scan(&e.ID, &listID, &e.AlbumID, &e.Position, &e.Note); err != nil {
			return err
		}
		l := byID[listID]
		l.Entries = append(l.Entries, e)
	}
	return rows.Err()
}
