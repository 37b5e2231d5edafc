// Package service orchestrates catalog operations between the API layer
// and the store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/errors"
	"github.com/crateapp/crate-server/internal/id"
	"github.com/crateapp/crate-server/internal/query"
	"github.com/crateapp/crate-server/internal/store"
	"github.com/crateapp/crate-server/internal/validation"
)

// AlbumService orchestrates album operations.
type AlbumService struct {
	store     store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewAlbumService creates a new album service.
func NewAlbumService(store store.Store, logger *slog.Logger) *AlbumService {
	return &AlbumService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// AlbumInput contains fields for creating or updating an album.
type AlbumInput struct {
	Title             string        `json:"title" validate:"required,min=1,max=300"`
	ReleaseDate       time.Time     `json:"release_date" validate:"required"`
	ArtistIDs         []string      `json:"artist_ids" validate:"required,min=1,dive,required"`
	PrimaryGenreIDs   []string      `json:"primary_genre_ids" validate:"dive,required"`
	SecondaryGenreIDs []string      `json:"secondary_genre_ids" validate:"dive,required"`
	AvgRating         domain.Rating `json:"avg_rating"`
	RatingCount       int           `json:"rating_count" validate:"min=0"`
	Link              string        `json:"link" validate:"omitempty,url"`
	CoverPath         string        `json:"cover_path"`
}

// ListAlbums runs raw listing parameters through the query engine and
// executes the compiled descriptor. Malformed filter tokens surface as
// invalid-filter errors; nothing is silently skipped.
func (s *AlbumService) ListAlbums(ctx context.Context, raw map[string]string, params store.PaginationParams) (*store.PaginatedResult[*domain.Album], error) {
	opts, err := query.ParseOptions(raw)
	if err != nil {
		return nil, err
	}
	return s.store.ListAlbums(ctx, opts.Compile(), params)
}

// GetAlbum returns a single album.
func (s *AlbumService) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	return s.store.GetAlbum(ctx, id)
}

// CreateAlbum creates a new album.
func (s *AlbumService) CreateAlbum(ctx context.Context, input AlbumInput) (*domain.Album, error) {
	if err := s.checkInput(ctx, input, ""); err != nil {
		return nil, err
	}

	albumID, err := id.Generate("album")
	if err != nil {
		return nil, err
	}

	album := &domain.Album{
		Entity:            domain.Entity{ID: albumID},
		Title:             input.Title,
		ReleaseDate:       input.ReleaseDate,
		AvgRating:         input.AvgRating,
		RatingCount:       input.RatingCount,
		Link:              input.Link,
		CoverPath:         input.CoverPath,
		ArtistIDs:         input.ArtistIDs,
		PrimaryGenreIDs:   input.PrimaryGenreIDs,
		SecondaryGenreIDs: input.SecondaryGenreIDs,
	}
	album.InitTimestamps()

	if err := s.store.CreateAlbum(ctx, album); err != nil {
		return nil, err
	}

	s.logger.Info("album created", "id", album.ID, "title", album.Title)
	return album, nil
}

// UpdateAlbum replaces an album's fields, credits, and genre assignments.
func (s *AlbumService) UpdateAlbum(ctx context.Context, albumID string, input AlbumInput) (*domain.Album, error) {
	album, err := s.store.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	if err := s.checkInput(ctx, input, albumID); err != nil {
		return nil, err
	}

	album.Title = input.Title
	album.ReleaseDate = input.ReleaseDate
	album.AvgRating = input.AvgRating
	album.RatingCount = input.RatingCount
	album.Link = input.Link
	album.CoverPath = input.CoverPath
	album.ArtistIDs = input.ArtistIDs
	album.PrimaryGenreIDs = input.PrimaryGenreIDs
	album.SecondaryGenreIDs = input.SecondaryGenreIDs
	album.Touch()

	if err := s.store.UpdateAlbum(ctx, album); err != nil {
		return nil, err
	}

	s.logger.Info("album updated", "id", album.ID)
	return album, nil
}

// DeleteAlbum removes an album.
func (s *AlbumService) DeleteAlbum(ctx context.Context, id string) error {
	if err := s.store.DeleteAlbum(ctx, id); err != nil {
		return err
	}
	s.logger.Info("album deleted", "id", id)
	return nil
}

// checkInput validates an album input against catalog invariants:
// referenced artists and genres must exist, a genre cannot be both primary
// and secondary, the rating must be representable, and the title must be
// unique for the display artist.
func (s *AlbumService) checkInput(ctx context.Context, input AlbumInput, excludeAlbumID string) error {
	if err := s.validator.Validate(input); err != nil {
		return err
	}
	if !input.AvgRating.Valid() {
		return errors.Validationf("avg_rating %s out of range", input.AvgRating)
	}

	for _, artistID := range input.ArtistIDs {
		if _, err := s.store.GetArtist(ctx, artistID); err != nil {
			return errors.NotFoundf("artist %s not found", artistID)
		}
	}

	primary := make(map[string]bool, len(input.PrimaryGenreIDs))
	for _, genreID := range input.PrimaryGenreIDs {
		if _, err := s.store.GetGenre(ctx, genreID); err != nil {
			return errors.NotFoundf("genre %s not found", genreID)
		}
		primary[genreID] = true
	}
	for _, genreID := range input.SecondaryGenreIDs {
		if primary[genreID] {
			return errors.Validationf("genre %s cannot be both primary and secondary", genreID)
		}
		if _, err := s.store.GetGenre(ctx, genreID); err != nil {
			return errors.NotFoundf("genre %s not found", genreID)
		}
	}

	exists, err := s.store.AlbumTitleExists(ctx, input.Title, input.ArtistIDs[0], excludeAlbumID)
	if err != nil {
		return err
	}
	if exists {
		return errors.AlreadyExistsf("album %q already exists for this artist", input.Title)
	}

	return nil
}
