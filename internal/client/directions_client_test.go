package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/brave-warrior/routecache/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func newTestClient(cfg Config, rt roundTripFunc) *Client {
	if cfg.DirectionsURL == "" {
		cfg.DirectionsURL = "https://directions.test/json"
	}
	if cfg.AutocompleteURL == "" {
		cfg.AutocompleteURL = "https://places.test/autocomplete/json"
	}
	return New(cfg, zap.NewNop(), WithHTTPClient(&http.Client{Transport: rt}))
}

func TestFetchDirections_Query(t *testing.T) {
	var got *http.Request
	c := newTestClient(Config{}, func(req *http.Request) (*http.Response, error) {
		got = req
		return respond(http.StatusOK, `{"status":"OK","routes":[]}`), nil
	})

	body, err := c.FetchDirections(context.Background(), DirectionsRequest{
		Origin:      "Kyiv",
		Destination: "Lviv, Ukraine",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"OK","routes":[]}`, string(body))

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "directions.test", got.URL.Host)
	q := got.URL.Query()
	assert.Equal(t, "Kyiv", q.Get("origin"))
	assert.Equal(t, "Lviv, Ukraine", q.Get("destination"))
	assert.Equal(t, "true", q.Get("sensor"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Equal(t, "driving", q.Get("mode"))
	assert.False(t, q.Has("key"))
}

func TestFetchDirections_ModeLanguageAndKey(t *testing.T) {
	var q map[string][]string
	c := newTestClient(Config{APIKey: "secret", Language: "uk"}, func(req *http.Request) (*http.Response, error) {
		q = req.URL.Query()
		return respond(http.StatusOK, `{}`), nil
	})

	_, err := c.FetchDirections(context.Background(), DirectionsRequest{
		Origin:      "a",
		Destination: "b",
		Mode:        maps.TravelModeBicycling,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bicycling"}, q["mode"])
	assert.Equal(t, []string{"uk"}, q["language"])
	assert.Equal(t, []string{"secret"}, q["key"])

	_, err = c.FetchDirections(context.Background(), DirectionsRequest{
		Origin: "a", Destination: "b", Language: "de",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"de"}, q["language"])
}

func TestFetchDirections_Validation(t *testing.T) {
	called := false
	c := newTestClient(Config{}, func(*http.Request) (*http.Response, error) {
		called = true
		return respond(http.StatusOK, `{}`), nil
	})

	tests := []DirectionsRequest{
		{Destination: "b"},
		{Origin: "a"},
		{Origin: "a", Destination: "b", Mode: "flying"},
	}
	for _, req := range tests {
		_, err := c.FetchDirections(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.False(t, called)
}

func TestFetchDirections_UpstreamFailures(t *testing.T) {
	c := newTestClient(Config{}, func(*http.Request) (*http.Response, error) {
		return respond(http.StatusServiceUnavailable, "busy"), nil
	})
	_, err := c.FetchDirections(context.Background(), DirectionsRequest{Origin: "a", Destination: "b"})
	require.ErrorIs(t, err, domain.ErrUpstream)
	var uerr *domain.UpstreamError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "503", uerr.Status)

	c = newTestClient(Config{}, func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	_, err = c.FetchDirections(context.Background(), DirectionsRequest{Origin: "a", Destination: "b"})
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchDirections_BodyLimit(t *testing.T) {
	size := maxBodyBytes
	c := newTestClient(Config{}, func(*http.Request) (*http.Response, error) {
		return respond(http.StatusOK, strings.Repeat("x", size)), nil
	})

	body, err := c.FetchDirections(context.Background(), DirectionsRequest{Origin: "a", Destination: "b"})
	require.NoError(t, err)
	assert.Len(t, body, maxBodyBytes)

	size = maxBodyBytes + 1
	_, err = c.FetchDirections(context.Background(), DirectionsRequest{Origin: "a", Destination: "b"})
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "response too large")
}

func TestFetchPredictions(t *testing.T) {
	var got *http.Request
	c := newTestClient(Config{APIKey: "k"}, func(req *http.Request) (*http.Response, error) {
		got = req
		return respond(http.StatusOK, `{"predictions":[]}`), nil
	})

	body, err := c.FetchPredictions(context.Background(), "Kyi")
	require.NoError(t, err)
	assert.Equal(t, `{"predictions":[]}`, string(body))

	q := got.URL.Query()
	assert.Equal(t, "places.test", got.URL.Host)
	assert.Equal(t, "Kyi", q.Get("input"))
	assert.Equal(t, "true", q.Get("sensor"))
	assert.Equal(t, "k", q.Get("key"))

	_, err = c.FetchPredictions(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidTravelMode(t *testing.T) {
	for _, mode := range []maps.Mode{
		maps.TravelModeDriving, maps.TravelModeWalking, maps.TravelModeBicycling, maps.TravelModeTransit,
	} {
		assert.True(t, ValidTravelMode(mode), mode)
	}
	assert.False(t, ValidTravelMode("DRIVING"))
	assert.False(t, ValidTravelMode(""))
}
