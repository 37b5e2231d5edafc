// Package search provides fuzzy cross-entity search over the catalog.
// Artists, albums, lists, and genres are scored against the search term by
// trigram similarity and merged into a single ranked result.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/crateapp/crate-server/internal/similarity"
	"github.com/crateapp/crate-server/internal/store"
)

// MinSimilarity is the score a candidate must exceed to appear in results.
const MinSimilarity = 0.3

// CandidateSource loads the lightweight projections the service scores.
// Satisfied by store.Store.
type CandidateSource interface {
	SearchArtists(ctx context.Context) ([]store.ArtistCandidate, error)
	SearchAlbums(ctx context.Context) ([]store.AlbumCandidate, error)
	SearchLists(ctx context.Context) ([]store.ListCandidate, error)
	SearchGenres(ctx context.Context) ([]store.GenreCandidate, error)
}

// Service scores catalog entities against search terms.
type Service struct {
	store  CandidateSource
	logger *slog.Logger
}

// NewService creates a new search service.
func NewService(source CandidateSource, logger *slog.Logger) *Service {
	return &Service{store: source, logger: logger}
}

// Search scores every artist, album, public list, and genre against term and
// returns hits scoring above MinSimilarity, best match first. Equal scores are
// ordered artist, album, list, genre, then by id. An empty or whitespace-only
// term returns no hits.
func (s *Service) Search(ctx context.Context, term string) ([]Hit, error) {
	if strings.TrimSpace(term) == "" {
		return []Hit{}, nil
	}

	// The four collections load and score independently.
	var (
		wg     sync.WaitGroup
		groups [4][]Hit
		errs   [4]error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		groups[0], errs[0] = s.searchArtists(ctx, term)
	}()
	go func() {
		defer wg.Done()
		groups[1], errs[1] = s.searchAlbums(ctx, term)
	}()
	go func() {
		defer wg.Done()
		groups[2], errs[2] = s.searchLists(ctx, term)
	}()
	go func() {
		defer wg.Done()
		groups[3], errs[3] = s.searchGenres(ctx, term)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var hits []Hit
	for _, g := range groups {
		hits = append(hits, g...)
	}

	sort.Slice(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if ra, rb := typeRank(a.Type), typeRank(b.Type); ra != rb {
			return ra < rb
		}
		return a.ID < b.ID
	})

	s.logger.Debug("search complete", "term", term, "hits", len(hits))
	if hits == nil {
		hits = []Hit{}
	}
	return hits, nil
}

func (s *Service) searchArtists(ctx context.Context, term string) ([]Hit, error) {
	candidates, err := s.store.SearchArtists(ctx)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for _, c := range candidates {
		score := similarity.Score(term, c.Name)
		if score <= MinSimilarity {
			continue
		}
		hits = append(hits, Hit{
			ID:            c.ID,
			Type:          HitTypeArtist,
			Name:          c.Name,
			Similarity:    score,
			OriginCountry: c.OriginCountry,
			StartYear:     c.StartYear,
			EndYear:       c.EndYear,
		})
	}
	return hits, nil
}

func (s *Service) searchAlbums(ctx context.Context, term string) ([]Hit, error) {
	candidates, err := s.store.SearchAlbums(ctx)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for _, c := range candidates {
		score := similarity.Score(term, c.Title)
		if score <= MinSimilarity {
			continue
		}
		hits = append(hits, Hit{
			ID:            c.ID,
			Type:          HitTypeAlbum,
			Name:          c.Title,
			Similarity:    score,
			ArtistID:      c.ArtistID,
			ArtistName:    c.ArtistName,
			PrimaryGenres: c.PrimaryGenres,
			CoverPath:     c.CoverPath,
		})
	}
	return hits, nil
}

func (s *Service) searchLists(ctx context.Context, term string) ([]Hit, error) {
	candidates, err := s.store.SearchLists(ctx)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for _, c := range candidates {
		score := similarity.Score(term, c.Label)
		if score <= MinSimilarity {
			continue
		}
		hits = append(hits, Hit{
			ID:         c.ID,
			Type:       HitTypeList,
			Name:       c.Label,
			Similarity: score,
			OwnerName:  c.OwnerName,
			CoverPaths: c.CoverPaths,
		})
	}
	return hits, nil
}

func (s *Service) searchGenres(ctx context.Context, term string) ([]Hit, error) {
	candidates, err := s.store.SearchGenres(ctx)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for _, c := range candidates {
		score := similarity.Score(term, c.Name)
		if score <= MinSimilarity {
			continue
		}
		hits = append(hits, Hit{
			ID:          c.ID,
			Type:        HitTypeGenre,
			Name:        c.Name,
			Similarity:  score,
			Slug:        c.Slug,
			Description: c.Description,
		})
	}
	return hits, nil
}
