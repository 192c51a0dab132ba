package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/brave-warrior/routecache/internal/domain"
	"github.com/brave-warrior/routecache/internal/domain/route"
	"github.com/brave-warrior/routecache/internal/parser"
)

// PredictionsFetcher retrieves raw autocomplete responses.
type PredictionsFetcher interface {
	FetchPredictions(ctx context.Context, input string) ([]byte, error)
}

// CityService implements place suggestion lookups.
type CityService struct {
	fetcher PredictionsFetcher
	parser  *parser.Parser
	logger  *zap.Logger
}

// NewCityService creates a new CityService.
func NewCityService(fetcher PredictionsFetcher, p *parser.Parser, logger *zap.Logger) *CityService {
	return &CityService{fetcher: fetcher, parser: p, logger: logger}
}

// SuggestCities returns places matching the user's partial input.
// ZERO_RESULTS is an empty list, any other non-OK status an UpstreamError.
func (s *CityService) SuggestCities(ctx context.Context, input string) ([]CityDTO, error) {
	if input == "" {
		return nil, domain.NewValidationError("input is required")
	}

	body, err := s.fetcher.FetchPredictions(ctx, input)
	if err != nil {
		return nil, err
	}

	status, err := s.parser.ParseStatus(body)
	if err != nil {
		return nil, domain.NewUpstreamError("", fmt.Sprintf("unreadable autocomplete response: %v", err))
	}
	switch {
	case status.Kind() == route.StatusZeroResults:
		return []CityDTO{}, nil
	case !status.Success():
		s.logger.Warn("autocomplete request rejected",
			zap.String("input", input),
			zap.String("status", status.Raw()),
		)
		return nil, statusError(status)
	}

	cities, err := s.parser.ParseCities(body)
	if err != nil {
		return nil, domain.NewUpstreamError(status.Raw(), fmt.Sprintf("unreadable autocomplete response: %v", err))
	}

	dtos := make([]CityDTO, len(cities))
	for i, c := range cities {
		dtos[i] = toCityDTO(c)
	}
	return dtos, nil
}
