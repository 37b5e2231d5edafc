package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/service"
	"github.com/crateapp/crate-server/internal/store"
)

func (s *Server) registerArtistRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listArtists",
		Method:      http.MethodGet,
		Path:        "/api/v1/artists",
		Summary:     "List artists",
		Description: "Returns artists ordered by name, paginated",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListArtists)

	huma.Register(s.api, huma.Operation{
		OperationID: "getArtist",
		Method:      http.MethodGet,
		Path:        "/api/v1/artists/{id}",
		Summary:     "Get artist",
		Description: "Returns an artist by ID",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetArtist)

	huma.Register(s.api, huma.Operation{
		OperationID: "getArtistAlbums",
		Method:      http.MethodGet,
		Path:        "/api/v1/artists/{id}/albums",
		Summary:     "Get artist albums",
		Description: "Returns every album crediting the artist, oldest first",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetArtistAlbums)

	huma.Register(s.api, huma.Operation{
		OperationID: "createArtist",
		Method:      http.MethodPost,
		Path:        "/api/v1/artists",
		Summary:     "Create artist",
		Description: "Creates a new artist (admin only)",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateArtist)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateArtist",
		Method:      http.MethodPut,
		Path:        "/api/v1/artists/{id}",
		Summary:     "Update artist",
		Description: "Replaces an artist's fields (admin only)",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateArtist)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteArtist",
		Method:      http.MethodDelete,
		Path:        "/api/v1/artists/{id}",
		Summary:     "Delete artist",
		Description: "Deletes an artist and any albums credited only to them (admin only)",
		Tags:        []string{"Artists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteArtist)
}

// === DTOs ===

// ListArtistsInput contains pagination parameters for listing artists.
type ListArtistsInput struct {
	Authorization string `header:"Authorization"`
	Limit         int    `query:"limit" doc:"Items per page (max 1000)"`
	Offset        int    `query:"offset" doc:"Items to skip"`
}

// ArtistResponse contains artist data in API responses.
type ArtistResponse struct {
	ID            string    `json:"id" doc:"Artist ID"`
	Name          string    `json:"name" doc:"Artist name"`
	OriginCountry string    `json:"origin_country,omitempty" doc:"ISO 3166-1 alpha-3 country code"`
	StartYear     *int      `json:"start_year,omitempty" doc:"First active year"`
	EndYear       *int      `json:"end_year,omitempty" doc:"Last active year; absent while active"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update time"`
}

// ListArtistsResponse contains a page of artists.
type ListArtistsResponse struct {
	Artists []ArtistResponse `json:"artists" doc:"Artists on this page"`
	HasMore bool             `json:"has_more" doc:"Whether more pages exist"`
	Total   int              `json:"total" doc:"Total artists"`
}

// ListArtistsOutput wraps the list artists response for Huma.
type ListArtistsOutput struct {
	Body ListArtistsResponse
}

// ArtistRequest is the request body for creating or updating an artist.
type ArtistRequest struct {
	Name          string `json:"name" validate:"required,min=1,max=200" doc:"Artist name"`
	OriginCountry string `json:"origin_country,omitempty" validate:"omitempty,iso3166_1_alpha3" doc:"ISO 3166-1 alpha-3 country code"`
	StartYear     *int   `json:"start_year,omitempty" validate:"omitempty,min=0,max=9999" doc:"First active year"`
	EndYear       *int   `json:"end_year,omitempty" validate:"omitempty,min=0,max=9999" doc:"Last active year"`
}

// CreateArtistInput wraps the create artist request for Huma.
type CreateArtistInput struct {
	Authorization string `header:"Authorization"`
	Body          ArtistRequest
}

// GetArtistInput contains parameters for getting an artist.
type GetArtistInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Artist ID"`
}

// UpdateArtistInput wraps the update artist request for Huma.
type UpdateArtistInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Artist ID"`
	Body          ArtistRequest
}

// DeleteArtistInput contains parameters for deleting an artist.
type DeleteArtistInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Artist ID"`
}

// ArtistOutput wraps the artist response for Huma.
type ArtistOutput struct {
	Body ArtistResponse
}

// ArtistAlbumsResponse contains the albums crediting an artist.
type ArtistAlbumsResponse struct {
	Albums []AlbumResponse `json:"albums" doc:"Albums crediting this artist"`
}

// ArtistAlbumsOutput wraps the artist albums response for Huma.
type ArtistAlbumsOutput struct {
	Body ArtistAlbumsResponse
}

// === Handlers ===

func (s *Server) handleListArtists(ctx context.Context, input *ListArtistsInput) (*ListArtistsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	params := store.PaginationParams{Limit: input.Limit, Offset: input.Offset}
	params.Validate()

	result, err := s.services.Artist.ListArtists(ctx, params)
	if err != nil {
		return nil, err
	}

	artists := make([]ArtistResponse, len(result.Items))
	for i, a := range result.Items {
		artists[i] = artistResponse(a)
	}

	return &ListArtistsOutput{
		Body: ListArtistsResponse{
			Artists: artists,
			HasMore: result.HasMore,
			Total:   result.Total,
		},
	}, nil
}

func (s *Server) handleGetArtist(ctx context.Context, input *GetArtistInput) (*ArtistOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	artist, err := s.services.Artist.GetArtist(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ArtistOutput{Body: artistResponse(artist)}, nil
}

func (s *Server) handleGetArtistAlbums(ctx context.Context, input *GetArtistInput) (*ArtistAlbumsOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	albums, err := s.services.Artist.ListArtistAlbums(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]AlbumResponse, len(albums))
	for i, a := range albums {
		resp[i] = albumResponse(a)
	}
	return &ArtistAlbumsOutput{Body: ArtistAlbumsResponse{Albums: resp}}, nil
}

func (s *Server) handleCreateArtist(ctx context.Context, input *CreateArtistInput) (*ArtistOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	artist, err := s.services.Artist.CreateArtist(ctx, artistInput(input.Body))
	if err != nil {
		return nil, err
	}
	return &ArtistOutput{Body: artistResponse(artist)}, nil
}

func (s *Server) handleUpdateArtist(ctx context.Context, input *UpdateArtistInput) (*ArtistOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	artist, err := s.services.Artist.UpdateArtist(ctx, input.ID, artistInput(input.Body))
	if err != nil {
		return nil, err
	}
	return &ArtistOutput{Body: artistResponse(artist)}, nil
}

func (s *Server) handleDeleteArtist(ctx context.Context, input *DeleteArtistInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Artist.DeleteArtist(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Artist deleted"}}, nil
}

// === Mapping ===

func artistInput(req ArtistRequest) service.ArtistInput {
	return service.ArtistInput{
		Name:          req.Name,
		OriginCountry: req.OriginCountry,
		StartYear:     req.StartYear,
		EndYear:       req.EndYear,
	}
}

func artistResponse(a *domain.Artist) ArtistResponse {
	return ArtistResponse{
		ID:            a.ID,
		Name:          a.Name,
		OriginCountry: a.OriginCountry,
		StartYear:     a.StartYear,
		EndYear:       a.EndYear,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
