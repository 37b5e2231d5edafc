package service

import (
	"context"
	"log/slog"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/errors"
	"github.com/crateapp/crate-server/internal/id"
	"github.com/crateapp/crate-server/internal/slug"
	"github.com/crateapp/crate-server/internal/store"
	"github.com/crateapp/crate-server/internal/validation"
)

// GenreService orchestrates genre operations.
type GenreService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewGenreService creates a new genre service.
func NewGenreService(store store.Store, logger *slog.Logger) *GenreService {
	return &GenreService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// GenreInput contains fields for creating or updating a genre.
type GenreInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=2000"`
}

// ListGenres returns all genres.
func (s *GenreService) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	return s.store.ListGenres(ctx)
}

// GetGenre returns a single genre.
func (s *GenreService) GetGenre(ctx context.Context, id string) (*domain.Genre, error) {
	return s.store.GetGenre(ctx, id)
}

// CreateGenre creates a new genre. The slug is derived from the name.
func (s *GenreService) CreateGenre(ctx context.Context, input GenreInput) (*domain.Genre, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	genreSlug := slug.Make(input.Name)
	if genreSlug == "" {
		return nil, errors.Validationf("name %q produces an empty slug", input.Name)
	}
	if _, err := s.store.GetGenreBySlug(ctx, genreSlug); err == nil {
		return nil, errors.AlreadyExistsf("genre with slug %q already exists", genreSlug)
	}

	genreID, err := id.Generate("genre")
	if err != nil {
		return nil, err
	}

	genre := &domain.Genre{
		Entity:      domain.Entity{ID: genreID},
		Name:        input.Name,
		Slug:        genreSlug,
		Description: input.Description,
	}
	genre.InitTimestamps()

	if err := s.store.CreateGenre(ctx, genre); err != nil {
		return nil, err
	}

	s.logger.Info("genre created", "id", genre.ID, "slug", genre.Slug)
	return genre, nil
}

// UpdateGenre replaces a genre's fields. Renaming re-derives the slug.
func (s *GenreService) UpdateGenre(ctx context.Context, genreID string, input GenreInput) (*domain.Genre, error) {
	genre, err := s.store.GetGenre(ctx, genreID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	newSlug := slug.Make(input.Name)
	if newSlug == "" {
		return nil, errors.Validationf("name %q produces an empty slug", input.Name)
	}
	if newSlug != genre.Slug {
		if _, err := s.store.GetGenreBySlug(ctx, newSlug); err == nil {
			return nil, errors.AlreadyExistsf("genre with slug %q already exists", newSlug)
		}
	}

	genre.Name = input.Name
	genre.Slug = newSlug
	genre.Description = input.Description
	genre.Touch()

	if err := s.store.UpdateGenre(ctx, genre); err != nil {
		return nil, err
	}

	s.logger.Info("genre updated", "id", genre.ID)
	return genre, nil
}

// DeleteGenre removes a genre. Album assignments cascade away.
func (s *GenreService) DeleteGenre(ctx context.Context, id string) error {
	if err := s.store.DeleteGenre(ctx, id); err != nil {
		return err
	}
	s.logger.Info("genre deleted", "id", id)
	return nil
}
