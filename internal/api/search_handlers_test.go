package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crateapp/crate-server/internal/search"
)

func (ts *testServer) doSearch(t *testing.T, token, term string) []search.Hit {
	t.Helper()

	resp := ts.api.Get("/api/v1/search?term="+url.QueryEscape(term), "Authorization: "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[SearchResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data.Hits
}

func TestSearchOverHTTP(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createAdmin(t)
	ts.seedCatalog(t)

	// Exact artist name scores 1.0 and comes first.
	hits := ts.doSearch(t, token, "portishead")
	require.NotEmpty(t, hits)
	assert.Equal(t, search.HitTypeArtist, hits[0].Type)
	assert.Equal(t, "Portishead", hits[0].Name)
	assert.Equal(t, 1.0, hits[0].Similarity)

	// A misspelling still clears the similarity floor.
	hits = ts.doSearch(t, token, "portisheed")
	require.NotEmpty(t, hits)
	assert.Equal(t, "Portishead", hits[0].Name)
	assert.Less(t, hits[0].Similarity, 1.0)

	// Album titles are searchable too, with the display artist attached.
	hits = ts.doSearch(t, token, "dummy")
	require.NotEmpty(t, hits)
	assert.Equal(t, search.HitTypeAlbum, hits[0].Type)
	assert.Equal(t, "artist-seed", hits[0].ArtistID)
	assert.Equal(t, "Portishead", hits[0].ArtistName)
}

func TestSearchListsPublicOnly(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createAdmin(t)

	resp := ts.api.Post("/api/v1/lists", "Authorization: "+token, map[string]any{
		"label":  "Trip Hop Primer",
		"public": true,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Post("/api/v1/lists", "Authorization: "+token, map[string]any{
		"label": "Trip Hop Drafts",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	hits := ts.doSearch(t, token, "trip hop")
	require.Len(t, hits, 1)
	assert.Equal(t, search.HitTypeList, hits[0].Type)
	assert.Equal(t, "Trip Hop Primer", hits[0].Name)
}

func TestSearchEdgeCases(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.createAdmin(t)
	ts.seedCatalog(t)

	// Blank and whitespace-only terms return an empty hit set.
	hits := ts.doSearch(t, token, "")
	assert.Empty(t, hits)
	hits = ts.doSearch(t, token, "   ")
	assert.Empty(t, hits)

	// A term with no resemblance to anything returns nothing.
	hits = ts.doSearch(t, token, "zzzzzzzz")
	assert.Empty(t, hits)

	// Search requires authentication.
	resp := ts.api.Get("/api/v1/search?term=portishead")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
