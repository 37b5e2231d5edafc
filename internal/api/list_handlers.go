package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/service"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists",
		Summary:     "List lists",
		Description: "Returns the caller's lists, or all public lists with ?public=true",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "getList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Get list",
		Description: "Returns a list by ID; private lists are visible to their owner only",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetList)

	huma.Register(s.api, huma.Operation{
		OperationID: "createList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists",
		Summary:     "Create list",
		Description: "Creates a new list owned by the caller",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateList",
		Method:      http.MethodPut,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Update list",
		Description: "Replaces a list's fields and entries (owner or admin)",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Delete list",
		Description: "Deletes a list (owner or admin)",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteList)
}

// === DTOs ===

// ListListsInput contains parameters for listing lists.
type ListListsInput struct {
	Authorization string `header:"Authorization"`
	Public        bool   `query:"public" doc:"Return all public lists instead of the caller's own"`
}

// EntryResponse contains one list entry in API responses.
type EntryResponse struct {
	ID       string `json:"id" doc:"Entry ID"`
	AlbumID  string `json:"album_id" doc:"Album ID"`
	Position int    `json:"position" doc:"Zero-based position within the list"`
	Note     string `json:"note,omitempty" doc:"Optional note"`
}

// ListResponse contains list data in API responses.
type ListResponse struct {
	ID        string          `json:"id" doc:"List ID"`
	Label     string          `json:"label" doc:"List label"`
	OwnerID   string          `json:"owner_id" doc:"Owning user ID"`
	Public    bool            `json:"public" doc:"Whether the list is public"`
	Entries   []EntryResponse `json:"entries" doc:"Ordered album entries"`
	CreatedAt time.Time       `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time       `json:"updated_at" doc:"Last update time"`
}

// ListListsResponse contains multiple lists.
type ListListsResponse struct {
	Lists []ListResponse `json:"lists" doc:"Matching lists"`
}

// ListListsOutput wraps the list lists response for Huma.
type ListListsOutput struct {
	Body ListListsResponse
}

// EntryRequest is one album entry in a list request. Slice order is list
// order.
type EntryRequest struct {
	AlbumID string `json:"album_id" validate:"required" doc:"Album ID"`
	Note    string `json:"note,omitempty" validate:"omitempty,max=1000" doc:"Optional note"`
}

// ListRequest is the request body for creating or updating a list.
type ListRequest struct {
	Label   string         `json:"label" validate:"required,min=1,max=200" doc:"List label"`
	Public  bool           `json:"public,omitempty" doc:"Whether the list is public"`
	Entries []EntryRequest `json:"entries,omitempty" doc:"Ordered album entries"`
}

// CreateListInput wraps the create list request for Huma.
type CreateListInput struct {
	Authorization string `header:"Authorization"`
	Body          ListRequest
}

// GetListInput contains parameters for getting a list.
type GetListInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
}

// UpdateListInput wraps the update list request for Huma.
type UpdateListInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
	Body          ListRequest
}

// DeleteListInput contains parameters for deleting a list.
type DeleteListInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
}

// ListOutput wraps the list response for Huma.
type ListOutput struct {
	Body ListResponse
}

// === Handlers ===

func (s *Server) handleListLists(ctx context.Context, input *ListListsInput) (*ListListsOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	lists, err := s.services.List.ListLists(ctx, user.ID, input.Public)
	if err != nil {
		return nil, err
	}

	resp := make([]ListResponse, len(lists))
	for i, l := range lists {
		resp[i] = listResponse(l)
	}
	return &ListListsOutput{Body: ListListsResponse{Lists: resp}}, nil
}

func (s *Server) handleGetList(ctx context.Context, input *GetListInput) (*ListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.GetList(ctx, input.ID, user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &ListOutput{Body: listResponse(list)}, nil
}

func (s *Server) handleCreateList(ctx context.Context, input *CreateListInput) (*ListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.CreateList(ctx, user.ID, listInput(input.Body))
	if err != nil {
		return nil, err
	}
	return &ListOutput{Body: listResponse(list)}, nil
}

func (s *Server) handleUpdateList(ctx context.Context, input *UpdateListInput) (*ListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.UpdateList(ctx, input.ID, user.ID, user.IsAdmin, listInput(input.Body))
	if err != nil {
		return nil, err
	}
	return &ListOutput{Body: listResponse(list)}, nil
}

func (s *Server) handleDeleteList(ctx context.Context, input *DeleteListInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.List.DeleteList(ctx, input.ID, user.ID, user.IsAdmin); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "List deleted"}}, nil
}

// === Mapping ===

func listInput(req ListRequest) service.ListInput {
	entries := make([]service.EntryInput, len(req.Entries))
	for i, e := range req.Entries {
		entries[i] = service.EntryInput{AlbumID: e.AlbumID, Note: e.Note}
	}
	return service.ListInput{
		Label:   req.Label,
		Public:  req.Public,
		Entries: entries,
	}
}

func listResponse(l *domain.List) ListResponse {
	entries := make([]EntryResponse, len(l.Entries))
	for i, e := range l.Entries {
		entries[i] = EntryResponse{
			ID:       e.ID,
			AlbumID:  e.AlbumID,
			Position: e.Position,
			Note:     e.Note,
		}
	}
	return ListResponse{
		ID:        l.ID,
		Label:     l.Label,
		OwnerID:   l.OwnerID,
		Public:    l.Public,
		Entries:   entries,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
