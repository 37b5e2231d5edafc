// Package main provides a tool to seed the database with sample catalog data.
//
// This creates a small set of artists, genres, and albums for exercising the
// filter, sort, and search features against realistic data.
//
// Usage:
//
//	DB_PATH=~/Crate/crate.db go run ./cmd/seed
//	DB_PATH=~/Crate/crate.db go run ./cmd/seed --create-lists  # Also build demo lists
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/crateapp/crate-server/internal/domain"
	"github.com/crateapp/crate-server/internal/id"
	"github.com/crateapp/crate-server/internal/store/sqlite"
)

var createLists = flag.Bool("create-lists", false, "Create demo lists owned by the first user")

type artistSeed struct {
	name      string
	country   string
	startYear int
	endYear   int // zero means still active
}

type albumSeed struct {
	title       string
	artist      string // seed artist name
	released    string // YYYY-MM-DD
	rating      domain.Rating
	ratingCount int
	genres      []string // seed genre names, first one primary
}

var artistSeeds = []artistSeed{
	{"Portishead", "GBR", 1991, 0},
	{"Massive Attack", "GBR", 1988, 0},
	{"Radiohead", "GBR", 1985, 0},
	{"J Dilla", "USA", 1992, 2006},
	{"Stereolab", "GBR", 1990, 0},
}

var genreSeeds = map[string]string{
	"Trip Hop":             "trip-hop",
	"Art Rock":             "art-rock",
	"Instrumental Hip Hop": "instrumental-hip-hop",
	"Post-Rock":            "post-rock",
	"Electronic":           "electronic",
}

var albumSeeds = []albumSeed{
	{"Dummy", "Portishead", "1994-08-22", 845, 14200, []string{"Trip Hop", "Electronic"}},
	{"Third", "Portishead", "2008-04-28", 812, 8100, []string{"Trip Hop", "Art Rock"}},
	{"Mezzanine", "Massive Attack", "1998-04-20", 838, 16900, []string{"Trip Hop", "Electronic"}},
	{"Blue Lines", "Massive Attack", "1991-04-08", 801, 9400, []string{"Trip Hop"}},
	{"In Rainbows", "Radiohead", "2007-10-10", 862, 31000, []string{"Art Rock", "Electronic"}},
	{"Kid A", "Radiohead", "2000-10-02", 874, 34500, []string{"Art Rock", "Electronic"}},
	{"Donuts", "J Dilla", "2006-02-07", 857, 18700, []string{"Instrumental Hip Hop"}},
	{"Dots and Loops", "Stereolab", "1997-09-22", 779, 5200, []string{"Post-Rock", "Electronic"}},
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Crate/crate.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	artistIDs := seedArtists(ctx, s)
	genreIDs := seedGenres(ctx, s)
	albumIDs := seedAlbums(ctx, s, artistIDs, genreIDs)

	if *createLists {
		seedLists(ctx, s, albumIDs)
	}

	fmt.Println("\nSeeding complete!")
}

// seedArtists creates the seed artists, skipping any that already exist by
// name, and returns seed name to ID.
func seedArtists(ctx context.Context, s *sqlite.Store) map[string]string {
	fmt.Println("\n=== Artists ===")
	ids := make(map[string]string, len(artistSeeds))

	existing := existingArtistsByName(ctx, s)

	for _, seed := range artistSeeds {
		if prev, ok := existing[seed.name]; ok {
			fmt.Printf("  Artist %s already exists, skipping\n", seed.name)
			ids[seed.name] = prev
			continue
		}

		artist := &domain.Artist{
			Entity:        domain.Entity{ID: id.MustGenerate("artist")},
			Name:          seed.name,
			OriginCountry: seed.country,
		}
		start := seed.startYear
		artist.StartYear = &start
		if seed.endYear != 0 {
			end := seed.endYear
			artist.EndYear = &end
		}
		artist.InitTimestamps()

		if err := s.CreateArtist(ctx, artist); err != nil {
			log.Printf("  Failed to create artist %s: %v", seed.name, err)
			continue
		}
		ids[seed.name] = artist.ID
		fmt.Printf("  Created artist: %s\n", seed.name)
	}
	return ids
}

func existingArtistsByName(ctx context.Context, s *sqlite.Store) map[string]string {
	byName := make(map[string]string)
	candidates, err := s.SearchArtists(ctx)
	if err != nil {
		return byName
	}
	for _, c := range candidates {
		byName[c.Name] = c.ID
	}
	return byName
}

// seedGenres creates the seed genres and returns seed name to ID. Existing
// slugs are reused rather than duplicated.
func seedGenres(ctx context.Context, s *sqlite.Store) map[string]string {
	fmt.Println("\n=== Genres ===")
	ids := make(map[string]string, len(genreSeeds))

	for name, slug := range genreSeeds {
		if prev, err := s.GetGenreBySlug(ctx, slug); err == nil {
			fmt.Printf("  Genre %s already exists, skipping\n", name)
			ids[name] = prev.ID
			continue
		}

		genre := &domain.Genre{
			Entity: domain.Entity{ID: id.MustGenerate("genre")},
			Name:   name,
			Slug:   slug,
		}
		genre.InitTimestamps()

		if err := s.CreateGenre(ctx, genre); err != nil {
			log.Printf("  Failed to create genre %s: %v", name, err)
			continue
		}
		ids[name] = genre.ID
		fmt.Printf("  Created genre: %s\n", name)
	}
	return ids
}

// seedAlbums creates the seed albums and returns their IDs in seed order.
func seedAlbums(ctx context.Context, s *sqlite.Store, artistIDs, genreIDs map[string]string) []string {
	fmt.Println("\n=== Albums ===")
	var ids []string

	for _, seed := range albumSeeds {
		artistID, ok := artistIDs[seed.artist]
		if !ok {
			log.Printf("  No artist for album %s, skipping", seed.title)
			continue
		}

		exists, err := s.AlbumTitleExists(ctx, seed.title, artistID, "")
		if err == nil && exists {
			fmt.Printf("  Album %s already exists, skipping\n", seed.title)
			continue
		}

		released, err := time.Parse("2006-01-02", seed.released)
		if err != nil {
			log.Printf("  Bad release date for %s: %v", seed.title, err)
			continue
		}

		var primary []string
		for _, g := range seed.genres {
			if gid, ok := genreIDs[g]; ok {
				primary = append(primary, gid)
			}
		}

		album := &domain.Album{
			Entity:          domain.Entity{ID: id.MustGenerate("album")},
			Title:           seed.title,
			ReleaseDate:     released,
			AvgRating:       seed.rating,
			RatingCount:     seed.ratingCount,
			ArtistIDs:       []string{artistID},
			PrimaryGenreIDs: primary,
		}
		album.InitTimestamps()

		if err := s.CreateAlbum(ctx, album); err != nil {
			log.Printf("  Failed to create album %s: %v", seed.title, err)
			continue
		}
		ids = append(ids, album.ID)
		fmt.Printf("  Created album: %s (%d)\n", seed.title, album.ReleaseYear())
	}
	return ids
}

// seedLists builds one public and one private demo list owned by the first
// user in the database.
func seedLists(ctx context.Context, s *sqlite.Store, albumIDs []string) {
	fmt.Println("\n=== Lists ===")

	users, err := s.ListUsers(ctx)
	if err != nil || len(users) == 0 {
		log.Println("  No users found; run server setup first")
		return
	}
	owner := users[0]

	if len(albumIDs) == 0 {
		log.Println("  No seeded albums to reference, skipping lists")
		return
	}

	mk := func(label string, public bool, albums []string) {
		list := &domain.List{
			Entity:  domain.Entity{ID: id.MustGenerate("list")},
			Label:   label,
			OwnerID: owner.ID,
			Public:  public,
		}
		for _, albumID := range albums {
			list.Entries = append(list.Entries, domain.Entry{
				ID:      id.MustGenerate("entry"),
				AlbumID: albumID,
			})
		}
		list.NormalizePositions()
		list.InitTimestamps()

		if err := s.CreateList(ctx, list); err != nil {
			log.Printf("  Failed to create list %s: %v", label, err)
			return
		}
		fmt.Printf("  Created list: %s (%d entries)\n", label, len(list.Entries))
	}

	half := len(albumIDs) / 2
	if half == 0 {
		half = len(albumIDs)
	}
	mk("Late Night Rotation", true, albumIDs[:half])
	mk("To Listen", false, albumIDs[half:])
}
