package application

import (
	"context"
	"errors"
	"time"

	forecast "facilities-cloud/internal/forecast/domain"
	inventory "facilities-cloud/internal/inventory/domain"
	portfolio "facilities-cloud/internal/portfolio/domain"
)

// ComponentSource provides normalized component records.
type ComponentSource interface {
	ListByAsset(ctx context.Context, assetID string) ([]inventory.Component, error)
	ListAll(ctx context.Context) ([]inventory.Component, error)
}

// Clock provides time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

// Now returns current time in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Forecast is one time-phased capital forecast run.
type Forecast struct {
	AssetID   string
	StartYear int
	Horizon   int
	Needs     forecast.Needs
	Years     []forecast.ForecastYear
}

// ForecastService derives need totals from component records and
// distributes them across the forecast horizon.
type ForecastService struct {
	components ComponentSource
	cfg        Config
	clock      Clock
}

// NewForecastService constructs a ForecastService.
func NewForecastService(components ComponentSource, cfg Config, clock Clock) (*ForecastService, error) {
	if components == nil {
		return nil, errors.New("forecast: nil component source")
	}
	if len(cfg.Schedule) == 0 {
		return nil, errors.New("forecast: empty distribution schedule")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &ForecastService{components: components, cfg: cfg, clock: clock}, nil
}

// PortfolioForecast runs the forecast over the whole portfolio.
func (s *ForecastService) PortfolioForecast(ctx context.Context, startYear, horizon int) (*Forecast, error) {
	components, err := s.components.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.run("", components, startYear, horizon), nil
}

// AssetForecast runs the forecast over one asset's own breakdown. The
// distribution algorithm is identical; only the need totals differ.
func (s *ForecastService) AssetForecast(ctx context.Context, assetID string, startYear, horizon int) (*Forecast, error) {
	if assetID == "" {
		return nil, errors.New("forecast: empty asset id")
	}
	components, err := s.components.ListByAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return s.run(assetID, components, startYear, horizon), nil
}

func (s *ForecastService) run(assetID string, components []inventory.Component, startYear, horizon int) *Forecast {
	if startYear <= 0 {
		startYear = s.clock.Now().Year()
	}
	if horizon <= 0 {
		horizon = s.cfg.DefaultHorizon
	}
	if horizon > s.cfg.MaxHorizon {
		horizon = s.cfg.MaxHorizon
	}

	needs := NeedsFromComponents(components)
	return &Forecast{
		AssetID:   assetID,
		StartYear: startYear,
		Horizon:   horizon,
		Needs:     needs,
		Years:     forecast.Distribute(needs, startYear, horizon, s.cfg.Schedule),
	}
}

// NeedsFromComponents folds priority-bucket groups into need totals.
func NeedsFromComponents(components []inventory.Component) forecast.Needs {
	var needs forecast.Needs
	for _, group := range portfolio.RebuildPriorityGroups(components) {
		switch group.Bucket {
		case inventory.PriorityImmediate:
			needs.Immediate = group.TotalCost
		case inventory.PriorityShortTerm:
			needs.ShortTerm = group.TotalCost
		case inventory.PriorityMediumTerm:
			needs.MediumTerm = group.TotalCost
		case inventory.PriorityLongTerm:
			needs.LongTerm = group.TotalCost
		}
	}
	return needs
}
