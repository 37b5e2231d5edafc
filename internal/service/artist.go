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

// ArtistService orchestrates artist operations.
type ArtistService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewArtistService creates a new artist service.
func NewArtistService(store store.Store, logger *slog.Logger) *ArtistService {
	return &ArtistService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// ArtistInput contains fields for creating or updating an artist.
type ArtistInput struct {
	Name          string `json:"name" validate:"required,min=1,max=200"`
	OriginCountry string `json:"origin_country" validate:"omitempty,iso3166_1_alpha3"`
	StartYear     *int   `json:"start_year" validate:"omitempty,min=0,max=9999"`
	EndYear       *int   `json:"end_year" validate:"omitempty,min=0,max=9999"`
}

// ListArtists returns artists ordered by name.
func (s *ArtistService) ListArtists(ctx context.Context, params store.PaginationParams) (*store.PaginatedResult[*domain.Artist], error) {
	return s.store.ListArtists(ctx, params)
}

// GetArtist returns a single artist.
func (s *ArtistService) GetArtist(ctx context.Context, id string) (*domain.Artist, error) {
	return s.store.GetArtist(ctx, id)
}

// ListArtistAlbums returns every album crediting the artist.
func (s *ArtistService) ListArtistAlbums(ctx context.Context, artistID string) ([]*domain.Album, error) {
	if _, err := s.store.GetArtist(ctx, artistID); err != nil {
		return nil, err
	}
	return s.store.ListAlbumsByArtist(ctx, artistID)
}

// CreateArtist creates a new artist.
func (s *ArtistService) CreateArtist(ctx context.Context, input ArtistInput) (*domain.Artist, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	exists, err := s.store.ArtistNameExists(ctx, input.Name, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.AlreadyExistsf("artist %q already exists", input.Name)
	}

	artistID, err := id.Generate("artist")
	if err != nil {
		return nil, err
	}

	artist := &domain.Artist{
		Entity:        domain.Entity{ID: artistID},
		Name:          input.Name,
		OriginCountry: input.OriginCountry,
		StartYear:     input.StartYear,
		EndYear:       input.EndYear,
	}
	artist.InitTimestamps()

	if !artist.YearsValid() {
		return nil, errors.Validation("end year precedes start year")
	}

	if err := s.store.CreateArtist(ctx, artist); err != nil {
		return nil, err
	}

	s.logger.Info("artist created", "id", artist.ID, "name", artist.Name)
	return artist, nil
}

// UpdateArtist replaces an artist's fields.
func (s *ArtistService) UpdateArtist(ctx context.Context, artistID string, input ArtistInput) (*domain.Artist, error) {
	artist, err := s.store.GetArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	if input.Name != artist.Name {
		exists, err := s.store.ArtistNameExists(ctx, input.Name, artistID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errors.AlreadyExistsf("artist %q already exists", input.Name)
		}
	}

	artist.Name = input.Name
	artist.OriginCountry = input.OriginCountry
	artist.StartYear = input.StartYear
	artist.EndYear = input.EndYear
	artist.Touch()

	if !artist.YearsValid() {
		return nil, errors.Validation("end year precedes start year")
	}

	if err := s.store.UpdateArtist(ctx, artist); err != nil {
		return nil, err
	}

	s.logger.Info("artist updated", "id", artist.ID)
	return artist, nil
}

// DeleteArtist removes an artist. Albums credited only to this artist are
// removed with it.
func (s *ArtistService) DeleteArtist(ctx context.Context, id string) error {
	if err := s.store.DeleteArtist(ctx, id); err != nil {
		return err
	}
	s.logger.Info("artist deleted", "id", id)
	return nil
}
