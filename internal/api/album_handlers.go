package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/crateapp/crate-server/internal/domain"
	domainerrors "github.com/crateapp/crate-server/internal/errors"
	"github.com/crateapp/crate-server/internal/query"
	"github.com/crateapp/crate-server/internal/service"
	"github.com/crateapp/crate-server/internal/store"
)

func (s *Server) registerAlbumRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listAlbums",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums",
		Summary:     "List albums",
		Description: "Returns albums matching the given filters, sorted and paginated",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAlbums)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAlbum",
		Method:      http.MethodGet,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Get album",
		Description: "Returns an album by ID",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "createAlbum",
		Method:      http.MethodPost,
		Path:        "/api/v1/albums",
		Summary:     "Create album",
		Description: "Creates a new album (admin only)",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateAlbum",
		Method:      http.MethodPut,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Update album",
		Description: "Replaces an album's fields (admin only)",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateAlbum)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAlbum",
		Method:      http.MethodDelete,
		Path:        "/api/v1/albums/{id}",
		Summary:     "Delete album",
		Description: "Deletes an album (admin only)",
		Tags:        []string{"Albums"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAlbum)
}

// === DTOs ===

// ListAlbumsInput contains filter, sort, and pagination parameters.
type ListAlbumsInput struct {
	Authorization string `header:"Authorization"`
	Year          string `query:"year" doc:"Release year filter: 1994, 1994+, 1994-, or 1990,1999"`
	InGenres      string `query:"ingenres" doc:"Comma-separated genre IDs; album must carry every one as a primary genre"`
	ExGenres      string `query:"exgenres" doc:"Comma-separated genre IDs; album must carry none as a primary genre"`
	RatingCount   string `query:"rating_count" doc:"Rating count bound: 500+ or 500-"`
	AvgRating     string `query:"avg_rating" doc:"Average rating bound: 8.25+ or 8.25-"`
	SortBy        string `query:"sortby" doc:"Sort key: year, -year, rating, -rating, ratingcount, -ratingcount"`
	Limit         int    `query:"limit" doc:"Items per page (max 1000)"`
	Offset        int    `query:"offset" doc:"Items to skip"`
}

// AlbumResponse contains album data in API responses.
type AlbumResponse struct {
	ID                string        `json:"id" doc:"Album ID"`
	Title             string        `json:"title" doc:"Album title"`
	ReleaseDate       time.Time     `json:"release_date" doc:"Release date"`
	ReleaseYear       int           `json:"release_year" doc:"Release year"`
	AvgRating         domain.Rating `json:"avg_rating" doc:"Average rating (0.00-9.99)"`
	RatingCount       int           `json:"rating_count" doc:"Number of ratings"`
	Link              string        `json:"link,omitempty" doc:"External link"`
	CoverPath         string        `json:"cover_path,omitempty" doc:"Cover image path"`
	ArtistIDs         []string      `json:"artist_ids" doc:"Credited artists; first is the display artist"`
	PrimaryGenreIDs   []string      `json:"primary_genre_ids" doc:"Primary genres"`
	SecondaryGenreIDs []string      `json:"secondary_genre_ids,omitempty" doc:"Secondary genres"`
	CreatedAt         time.Time     `json:"created_at" doc:"Creation time"`
	UpdatedAt         time.Time     `json:"updated_at" doc:"Last update time"`
}

// ListAlbumsResponse contains a page of albums.
type ListAlbumsResponse struct {
	Albums  []AlbumResponse `json:"albums" doc:"Albums on this page"`
	HasMore bool            `json:"has_more" doc:"Whether more pages exist"`
	Total   int             `json:"total" doc:"Total matching albums"`
}

// ListAlbumsOutput wraps the list albums response for Huma.
type ListAlbumsOutput struct {
	Body ListAlbumsResponse
}

// AlbumRequest is the request body for creating or updating an album.
type AlbumRequest struct {
	Title             string    `json:"title" validate:"required,min=1,max=300" doc:"Album title"`
	ReleaseDate       time.Time `json:"release_date" validate:"required" doc:"Release date"`
	ArtistIDs         []string  `json:"artist_ids" validate:"required,min=1" doc:"Credited artists; first is the display artist"`
	PrimaryGenreIDs   []string  `json:"primary_genre_ids,omitempty" doc:"Primary genres"`
	SecondaryGenreIDs []string  `json:"secondary_genre_ids,omitempty" doc:"Secondary genres"`
	AvgRating         string    `json:"avg_rating,omitempty" doc:"Average rating as a decimal, 0.00 to 9.99"`
	RatingCount       int       `json:"rating_count,omitempty" validate:"omitempty,min=0" doc:"Number of ratings"`
	Link              string    `json:"link,omitempty" validate:"omitempty,url" doc:"External link"`
	CoverPath         string    `json:"cover_path,omitempty" doc:"Cover image path"`
}

// CreateAlbumInput wraps the create album request for Huma.
type CreateAlbumInput struct {
	Authorization string `header:"Authorization"`
	Body          AlbumRequest
}

// GetAlbumInput contains parameters for getting an album.
type GetAlbumInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Album ID"`
}

// UpdateAlbumInput wraps the update album request for Huma.
type UpdateAlbumInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Album ID"`
	Body          AlbumRequest
}

// DeleteAlbumInput contains parameters for deleting an album.
type DeleteAlbumInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Album ID"`
}

// AlbumOutput wraps the album response for Huma.
type AlbumOutput struct {
	Body AlbumResponse
}

// === Handlers ===

func (s *Server) handleListAlbums(ctx context.Context, input *ListAlbumsInput) (*ListAlbumsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	raw := map[string]string{}
	for key, value := range map[string]string{
		query.ParamYear:          input.Year,
		query.ParamIncludeGenres: input.InGenres,
		query.ParamExcludeGenres: input.ExGenres,
		query.ParamRatingCount:   input.RatingCount,
		query.ParamAvgRating:     input.AvgRating,
		query.ParamSortBy:        input.SortBy,
	} {
		if value != "" {
			raw[key] = value
		}
	}

	params := store.PaginationParams{Limit: input.Limit, Offset: input.Offset}
	params.Validate()

	result, err := s.services.Album.ListAlbums(ctx, raw, params)
	if err != nil {
		return nil, err
	}

	albums := make([]AlbumResponse, len(result.Items))
	for i, a := range result.Items {
		albums[i] = albumResponse(a)
	}

	return &ListAlbumsOutput{
		Body: ListAlbumsResponse{
			Albums:  albums,
			HasMore: result.HasMore,
			Total:   result.Total,
		},
	}, nil
}

func (s *Server) handleGetAlbum(ctx context.Context, input *GetAlbumInput) (*AlbumOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	album, err := s.services.Album.GetAlbum(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AlbumOutput{Body: albumResponse(album)}, nil
}

func (s *Server) handleCreateAlbum(ctx context.Context, input *CreateAlbumInput) (*AlbumOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	in, err := albumInput(input.Body)
	if err != nil {
		return nil, err
	}
	album, err := s.services.Album.CreateAlbum(ctx, in)
	if err != nil {
		return nil, err
	}
	return &AlbumOutput{Body: albumResponse(album)}, nil
}

func (s *Server) handleUpdateAlbum(ctx context.Context, input *UpdateAlbumInput) (*AlbumOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	in, err := albumInput(input.Body)
	if err != nil {
		return nil, err
	}
	album, err := s.services.Album.UpdateAlbum(ctx, input.ID, in)
	if err != nil {
		return nil, err
	}
	return &AlbumOutput{Body: albumResponse(album)}, nil
}

func (s *Server) handleDeleteAlbum(ctx context.Context, input *DeleteAlbumInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Album.DeleteAlbum(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Album deleted"}}, nil
}

// === Mapping ===

func albumInput(req AlbumRequest) (service.AlbumInput, error) {
	var rating domain.Rating
	if req.AvgRating != "" {
		parsed, err := domain.ParseRating(req.AvgRating)
		if err != nil {
			return service.AlbumInput{}, domainerrors.Validationf("avg_rating: %v", err)
		}
		rating = parsed
	}

	return service.AlbumInput{
		Title:             req.Title,
		ReleaseDate:       req.ReleaseDate,
		ArtistIDs:         req.ArtistIDs,
		PrimaryGenreIDs:   req.PrimaryGenreIDs,
		SecondaryGenreIDs: req.SecondaryGenreIDs,
		AvgRating:         rating,
		RatingCount:       req.RatingCount,
		Link:              req.Link,
		CoverPath:         req.CoverPath,
	}, nil
}

func albumResponse(a *domain.Album) AlbumResponse {
	return AlbumResponse{
		ID:                a.ID,
		Title:             a.Title,
		ReleaseDate:       a.ReleaseDate,
		ReleaseYear:       a.ReleaseYear(),
		AvgRating:         a.AvgRating,
		RatingCount:       a.RatingCount,
		Link:              a.Link,
		CoverPath:         a.CoverPath,
		ArtistIDs:         a.ArtistIDs,
		PrimaryGenreIDs:   a.PrimaryGenreIDs,
		SecondaryGenreIDs: a.SecondaryGenreIDs,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
