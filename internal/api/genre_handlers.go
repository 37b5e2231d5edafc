package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/service"
)

func (s *Server) registerGenreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGenres",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres",
		Summary:     "List genres",
		Description: "Returns all genres ordered by name",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGenres)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGenre",
		Method:      http.MethodGet,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Get genre",
		Description: "Returns a genre by ID",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGenre",
		Method:      http.MethodPost,
		Path:        "/api/v1/genres",
		Summary:     "Create genre",
		Description: "Creates a new genre; the slug is derived from the name (admin only)",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGenre",
		Method:      http.MethodPut,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Update genre",
		Description: "Replaces a genre's fields; renaming re-derives the slug (admin only)",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateGenre)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGenre",
		Method:      http.MethodDelete,
		Path:        "/api/v1/genres/{id}",
		Summary:     "Delete genre",
		Description: "Deletes a genre; album assignments are removed with it (admin only)",
		Tags:        []string{"Genres"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGenre)
}

// === DTOs ===

// GenreResponse contains genre data in API responses.
type GenreResponse struct {
	ID          string    `json:"id" doc:"Genre ID"`
	Name        string    `json:"name" doc:"Genre name"`
	Slug        string    `json:"slug" doc:"URL-safe slug"`
	Description string    `json:"description,omitempty" doc:"Genre description"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ListGenresResponse contains a list of genres.
type ListGenresResponse struct {
	Genres []GenreResponse `json:"genres" doc:"All genres"`
}

// ListGenresOutput wraps the list genres response for Huma.
type ListGenresOutput struct {
	Body ListGenresResponse
}

// GenreRequest is the request body for creating or updating a genre.
type GenreRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100" doc:"Genre name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Genre description"`
}

// CreateGenreInput wraps the create genre request for Huma.
type CreateGenreInput struct {
	Authorization string `header:"Authorization"`
	Body          GenreRequest
}

// GetGenreInput contains parameters for getting a genre.
type GetGenreInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Genre ID"`
}

// UpdateGenreInput wraps the update genre request for Huma.
type UpdateGenreInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Genre ID"`
	Body          GenreRequest
}

// DeleteGenreInput contains parameters for deleting a genre.
type DeleteGenreInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Genre ID"`
}

// GenreOutput wraps the genre response for Huma.
type GenreOutput struct {
	Body GenreResponse
}

// === Handlers ===

func (s *Server) handleListGenres(ctx context.Context, input *AuthorizedInput) (*ListGenresOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	genres, err := s.services.Genre.ListGenres(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]GenreResponse, len(genres))
	for i, g := range genres {
		resp[i] = genreResponse(g)
	}
	return &ListGenresOutput{Body: ListGenresResponse{Genres: resp}}, nil
}

func (s *Server) handleGetGenre(ctx context.Context, input *GetGenreInput) (*GenreOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	genre, err := s.services.Genre.GetGenre(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: genreResponse(genre)}, nil
}

func (s *Server) handleCreateGenre(ctx context.Context, input *CreateGenreInput) (*GenreOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	genre, err := s.services.Genre.CreateGenre(ctx, service.GenreInput{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: genreResponse(genre)}, nil
}

func (s *Server) handleUpdateGenre(ctx context.Context, input *UpdateGenreInput) (*GenreOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	genre, err := s.services.Genre.UpdateGenre(ctx, input.ID, service.GenreInput{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}
	return &GenreOutput{Body: genreResponse(genre)}, nil
}

func (s *Server) handleDeleteGenre(ctx context.Context, input *DeleteGenreInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Genre.DeleteGenre(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Genre deleted"}}, nil
}

// === Mapping ===

func genreResponse(g *domain.Genre) GenreResponse {
	return GenreResponse{
		ID:          g.ID,
		Name:        g.Name,
		Slug:        g.Slug,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
