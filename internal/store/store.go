// Package store defines the persistence interface for the Crate server.
package store

import (
	"context"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/query"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Auth sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Artists
	CreateArtist(ctx context.Context, artist *domain.Artist) error
	GetArtist(ctx context.Context, id string) (*domain.Artist, error)
	UpdateArtist(ctx context.Context, artist *domain.Artist) error
	DeleteArtist(ctx context.Context, id string) error
	ListArtists(ctx context.Context, params PaginationParams) (*PaginatedResult[*domain.Artist], error)
	ArtistNameExists(ctx context.Context, name, excludeArtistID string) (bool, error)

	// Albums
	CreateAlbum(ctx context.Context, album *domain.Album) error
	GetAlbum(ctx context.Context, id string) (*domain.Album, error)
	UpdateAlbum(ctx context.Context, album *domain.Album) error
	DeleteAlbum(ctx context.Context, id string) error
	ListAlbums(ctx context.Context, desc query.Descriptor, params PaginationParams) (*PaginatedResult[*domain.Album], error)
	ListAlbumsByArtist(ctx context.Context, artistID string) ([]*domain.Album, error)
	AlbumTitleExists(ctx context.Context, title, displayArtistID, excludeAlbumID string) (bool, error)

	// Genres
	CreateGenre(ctx context.Context, genre *domain.Genre) error
	GetGenre(ctx context.Context, id string) (*domain.Genre, error)
	GetGenreBySlug(ctx context.Context, slug string) (*domain.Genre, error)
	UpdateGenre(ctx context.Context, genre *domain.Genre) error
	DeleteGenre(ctx context.Context, id string) error
	ListGenres(ctx context.Context) ([]*domain.Genre, error)

	// Lists
	CreateList(ctx context.Context, list *domain.List) error
	GetList(ctx context.Context, id string) (*domain.List, error)
	UpdateList(ctx context.Context, list *domain.List) error
	DeleteList(ctx context.Context, id string) error
	ListPublicLists(ctx context.Context) ([]*domain.List, error)
	ListListsByOwner(ctx context.Context, ownerID string) ([]*domain.List, error)

	// Search candidates
	SearchArtists(ctx context.Context) ([]ArtistCandidate, error)
	SearchAlbums(ctx context.Context) ([]AlbumCandidate, error)
	SearchLists(ctx context.Context) ([]ListCandidate, error)
	SearchGenres(ctx context.Context) ([]GenreCandidate, error)
}

// ArtistCandidate is the lightweight artist projection loaded for search
// scoring.
type ArtistCandidate struct {
	ID            string
	Name          string
	OriginCountry string
	StartYear     *int
	EndYear       *int
}

// AlbumCandidate is the lightweight album projection loaded for search
// scoring. ArtistID and ArtistName identify the display artist;
// PrimaryGenres carries the primary genre names in insertion order.
type AlbumCandidate struct {
	ID            string
	Title         string
	ArtistID      string
	ArtistName    string
	PrimaryGenres []string
	CoverPath     string
}

// ListCandidate is the lightweight list projection loaded for search
// scoring. CoverPaths holds up to four album covers in ascending album id
// order, for rendering a list thumbnail.
type ListCandidate struct {
	ID         string
	Label      string
	OwnerName  string
	CoverPaths []string
}

// GenreCandidate is the lightweight genre projection loaded for search
// scoring.
type GenreCandidate struct {
	ID          string
	Name        string
	Slug        string
	Description string
}
