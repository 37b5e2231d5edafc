package providers

import (
	"github.com/samber/do/v2"

	"github.com/crateapp/crate-server/internal/auth"
	"github.com/crateapp/crate-server/internal/logger"
	"github.com/crateapp/crate-server/internal/search"
	"github.com/crateapp/crate-server/internal/service"
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, log.Logger), nil
}

// ProvideAlbumService provides the album catalog service.
func ProvideAlbumService(i do.Injector) (*service.AlbumService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAlbumService(storeHandle.Store, log.Logger), nil
}

// ProvideArtistService provides the artist catalog service.
func ProvideArtistService(i do.Injector) (*service.ArtistService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewArtistService(storeHandle.Store, log.Logger), nil
}

// ProvideGenreService provides the genre catalog service.
func ProvideGenreService(i do.Injector) (*service.GenreService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGenreService(storeHandle.Store, log.Logger), nil
}

// ProvideListService provides the user list service.
func ProvideListService(i do.Injector) (*service.ListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewListService(storeHandle.Store, log.Logger), nil
}

// ProvideSearchService provides the cross-entity fuzzy search service.
func ProvideSearchService(i do.Injector) (*search.Service, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return search.NewService(storeHandle.Store, log.Logger), nil
}
