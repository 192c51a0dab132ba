// Package client talks to the directions and place autocomplete web services.
// It returns raw response bodies; decoding belongs to the parser package.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"github.com/brave-warrior/routecache/internal/domain"
)

// DefaultTimeout bounds a whole request, connection and body included.
const DefaultTimeout = 30 * time.Second

const maxBodyBytes = 8 << 20

// Query keys.
const (
	keyInput       = "input"
	keySensor      = "sensor"
	keyAPIKey      = "key"
	keyOrigin      = "origin"
	keyDestination = "destination"
	keyLanguage    = "language"
	keyTravelMode  = "mode"
)

// Config addresses the remote services.
type Config struct {
	DirectionsURL   string
	AutocompleteURL string
	APIKey          string
	Language        string
	Timeout         time.Duration
}

// DirectionsRequest describes one directions lookup.
type DirectionsRequest struct {
	Origin      string
	Destination string
	// Mode defaults to driving.
	Mode maps.Mode
	// Language overrides the configured response language.
	Language string
}

// Client fetches raw service responses over HTTP.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client.
func New(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidTravelMode reports whether mode is one the directions service accepts.
func ValidTravelMode(mode maps.Mode) bool {
	switch mode {
	case maps.TravelModeDriving, maps.TravelModeWalking, maps.TravelModeBicycling, maps.TravelModeTransit:
		return true
	}
	return false
}

// FetchDirections requests directions between two places and returns the
// response body.
func (c *Client) FetchDirections(ctx context.Context, req DirectionsRequest) ([]byte, error) {
	if req.Origin == "" || req.Destination == "" {
		return nil, domain.NewValidationError("origin and destination are required")
	}
	mode := req.Mode
	if mode == "" {
		mode = maps.TravelModeDriving
	}
	if !ValidTravelMode(mode) {
		return nil, domain.NewValidationError(fmt.Sprintf("unsupported travel mode: %q", mode))
	}
	lang := req.Language
	if lang == "" {
		lang = c.cfg.Language
	}

	params := url.Values{}
	params.Set(keyOrigin, req.Origin)
	params.Set(keyDestination, req.Destination)
	params.Set(keySensor, strconv.FormatBool(true))
	params.Set(keyLanguage, lang)
	params.Set(keyTravelMode, string(mode))
	if c.cfg.APIKey != "" {
		params.Set(keyAPIKey, c.cfg.APIKey)
	}

	return c.get(ctx, "directions", c.cfg.DirectionsURL, params)
}

// FetchPredictions requests place suggestions for the user's input.
func (c *Client) FetchPredictions(ctx context.Context, input string) ([]byte, error) {
	if input == "" {
		return nil, domain.NewValidationError("input is required")
	}

	params := url.Values{}
	params.Set(keyInput, input)
	params.Set(keySensor, strconv.FormatBool(true))
	params.Set(keyAPIKey, c.cfg.APIKey)

	return c.get(ctx, "autocomplete", c.cfg.AutocompleteURL, params)
}

func (c *Client) get(ctx context.Context, name, endpoint string, params url.Values) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s url: %w", name, err)
	}
	u.RawQuery = params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", name, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("service request failed", zap.String("service", name), zap.Error(err))
		return nil, domain.NewUpstreamError("", fmt.Sprintf("%s request failed: %v", name, err))
	}
	defer resp.Body.Close()

	c.logger.Debug("service responded",
		zap.String("service", name),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstreamError(strconv.Itoa(resp.StatusCode), http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, domain.NewUpstreamError("", fmt.Sprintf("failed to read %s response: %v", name, err))
	}
	if len(body) > maxBodyBytes {
		return nil, domain.NewUpstreamError("", "response too large")
	}
	return body, nil
}
