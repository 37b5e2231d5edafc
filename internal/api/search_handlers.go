package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/crateapp/crate-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search the catalog",
		Description: "Fuzzy-searches artists, albums, lists, and genres by name",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearch)
}

// SearchInput contains the search term.
type SearchInput struct {
	Authorization string `header:"Authorization"`
	Term          string `query:"term" doc:"Search term; blank returns no hits"`
}

// SearchResponse contains ranked search hits across all entity types.
type SearchResponse struct {
	Hits []search.Hit `json:"hits" doc:"Hits ordered by similarity, then type, then ID"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	hits, err := s.services.Search.Search(ctx, input.Term)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: SearchResponse{Hits: hits}}, nil
}
