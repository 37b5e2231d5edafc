// Package di provides dependency injection configuration for the Crate server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/crateapp/crate-server/internal/auth"
	"github.com/crateapp/crate-server/internal/config"
	"github.com/crateapp/crate-server/internal/di/providers"
	"github.com/crateapp/crate-server/internal/logger"
	"github.com/crateapp/crate-server/internal/search"
	"github.com/crateapp/crate-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideAlbumService)
	do.Provide(injector, providers.ProvideArtistService)
	do.Provide(injector, providers.ProvideGenreService)
	do.Provide(injector, providers.ProvideListService)
	do.Provide(injector, providers.ProvideSearchService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.AlbumService](injector)
	_ = do.MustInvoke[*service.ArtistService](injector)
	_ = do.MustInvoke[*service.GenreService](injector)
	_ = do.MustInvoke[*service.ListService](injector)
	_ = do.MustInvoke[*search.Service](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSServiceHandle](injector)

	return nil
}
