package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weatherpls/weatherpls/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.GeocodeConfig{
		BaseURL:   server.URL,
		UserAgent: "weatherpls-test/1.0",
		Timeout:   5,
	})
}

func TestSearchResolvesPlace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Paris", r.URL.Query().Get("q"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "weatherpls-test/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Paris","display_name":"Paris, France","lat":"48.8534951","lon":"2.3483915"}]`))
	})

	place, err := client.Search(context.Background(), "Paris")
	require.NoError(t, err)

	assert.Equal(t, "Paris", place.Name)
	assert.InDelta(t, 48.85, place.Lat, 0.01)
	assert.InDelta(t, 2.35, place.Lon, 0.01)
}

func TestSearchNoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Search(context.Background(), "Nowheresville Atlantis")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocationNotFound))
}

func TestSearchUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), "Paris")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLocationNotFound)
}

func TestReverseResolvesName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("zoom"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"New York","display_name":"New York, United States","lat":"40.7127281","lon":"-74.0060152"}`))
	})

	place, err := client.Reverse(context.Background(), 40.8363, -73.9358)
	require.NoError(t, err)
	assert.Equal(t, "New York", place.Name)
}

func TestReverseFallsBackToDisplayName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"Somewhere, Someland","lat":"1.0","lon":"2.0"}`))
	})

	place, err := client.Reverse(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Somewhere, Someland", place.Name)
}

func TestReverseNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	})

	_, err := client.Reverse(context.Background(), 0, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLocationNotFound))
}
