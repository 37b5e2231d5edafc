package api

import (
	"github.com/crateapp/crate-server/internal/search"
	"github.com/crateapp/crate-server/internal/service"
)

// Services groups the business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth   *service.AuthService
	Album  *service.AlbumService
	Artist *service.ArtistService
	Genre  *service.GenreService
	List   *service.ListService
	Search *search.Service
}
