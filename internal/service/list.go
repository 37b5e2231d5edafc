package service

import (
	"context"
	"log/slog"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/errors"
	"github.com/crateapp/crate-server/internal/id"
	"github.com/crateapp/crate-server/internal/store"
	"github.com/crateapp/crate-server/internal/validation"
)

// ListService orchestrates album list operations with ownership checks.
type ListService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewListService creates a new list service.
func NewListService(store store.Store, logger *slog.Logger) *ListService {
	return &ListService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ListInput contains fields for creating or updating a list.
type ListInput struct {
	Label   string       `json:"label" validate:"required,min=1,max=200"`
	Public  bool         `json:"public"`
	Entries []EntryInput `json:"entries" validate:"dive"`
}

// EntryInput is one album entry in a list input. Entry order in the slice
// is the list order.
type EntryInput struct {
	AlbumID string `json:"album_id" validate:"required"`
	Note    string `json:"note" validate:"max=1000"`
}

// ListLists returns the lists visible to the user: their own, or all public
// lists when publicOnly is set.
func (s *ListService) ListLists(ctx context.Context, userID string, publicOnly bool) ([]*domain.List, error) {
	if publicOnly {
		return s.store.ListPublicLists(ctx)
	}
	return s.store.ListListsByOwner(ctx, userID)
}

// GetList returns a list if the user may see it: public lists are open,
// private lists only to their owner or an admin.
func (s *ListService) GetList(ctx context.Context, listID, userID string, isAdmin bool) (*domain.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.VisibleTo(userID, isAdmin) {
		return nil, errors.Forbidden("list is private")
	}
	return list, nil
}

// CreateList creates a new list owned by the user.
func (s *ListService) CreateList(ctx context.Context, ownerID string, input ListInput) (*domain.List, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	entries, err := s.buildEntries(ctx, input.Entries)
	if err != nil {
		return nil, err
	}

	listID, err := id.Generate("list")
	if err != nil {
		return nil, err
	}

	list := &domain.List{
		Entity:  domain.Entity{ID: listID},
		Label:   input.Label,
		OwnerID: ownerID,
		Public:  input.Public,
		Entries: entries,
	}
	list.InitTimestamps()
	list.NormalizePositions()

	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, err
	}

	s.logger.Info("list created", "id", list.ID, "owner", ownerID)
	return list, nil
}

// UpdateList replaces a list's fields and entries. Only the owner or an
// admin may update a list.
func (s *ListService) UpdateList(ctx context.Context, listID, userID string, isAdmin bool, input ListInput) (*domain.List, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && list.OwnerID != userID {
		return nil, errors.Forbidden("only the owner may modify this list")
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	entries, err := s.buildEntries(ctx, input.Entries)
	if err != nil {
		return nil, err
	}

	list.Label = input.Label
	list.Public = input.Public
	list.Entries = entries
	list.NormalizePositions()
	list.Touch()

	if err := s.store.UpdateList(ctx, list); err != nil {
		return nil, err
	}

	s.logger.Info("list updated", "id", list.ID)
	return list, nil
}

// DeleteList removes a list. Only the owner or an admin may delete it.
func (s *ListService) DeleteList(ctx context.Context, listID, userID string, isAdmin bool) error {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return err
	}
	if !isAdmin && list.OwnerID != userID {
		return errors.Forbidden("only the owner may delete this list")
	}

	if err := s.store.DeleteList(ctx, listID); err != nil {
		return err
	}
	s.logger.Info("list deleted", "id", listID)
	return nil
}

// buildEntries resolves entry inputs into domain entries, rejecting unknown
// albums and duplicates.
func (s *ListService) buildEntries(ctx context.Context, inputs []EntryInput) ([]domain.Entry, error) {
	seen := make(map[string]bool, len(inputs))
	entries := make([]domain.Entry, 0, len(inputs))

	for i, in := range inputs {
		if seen[in.AlbumID] {
			return nil, errors.Validationf("album %s appears twice", in.AlbumID)
		}
		seen[in.AlbumID] = true

		if _, err := s.store.GetAlbum(ctx, in.AlbumID); err != nil {
			return nil, errors.NotFoundf("album %s not found", in.AlbumID)
		}

		entryID, err := id.Generate("entry")
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.Entry{
			ID:       entryID,
			AlbumID:  in.AlbumID,
			Position: i,
			Note:     in.Note,
		})
	}
	return entries, nil
}
