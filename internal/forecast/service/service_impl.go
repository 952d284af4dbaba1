package service

import (
	"context"
	"fmt"

	catalogdomain "github.com/smallbiznis/demandsim/internal/catalog/domain"
	"github.com/smallbiznis/demandsim/internal/forecast/domain"
	simdomain "github.com/smallbiznis/demandsim/internal/simulation/domain"
	usagedomain "github.com/smallbiznis/demandsim/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	UsageSvc usagedomain.Service
	Factory  domain.ForecasterFactory `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	usageSvc usagedomain.Service
	factory  domain.ForecasterFactory
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:      p.Log.Named("forecast.service"),
		usageSvc: p.UsageSvc,
		factory:  p.Factory,
	}
}

// BuildSeries extracts the fit input for one item from a dense usage grid.
func (s *Service) BuildSeries(grid []usagedomain.DailyUsageRecord, itemName string) ([]domain.Observation, error) {
	var series []domain.Observation
	for _, r := range grid {
		if r.ItemName != itemName {
			continue
		}
		series = append(series, domain.Observation{Date: r.Date, Quantity: float64(r.Quantity)})
	}
	if len(distinctDates(series)) < 2 {
		return nil, fmt.Errorf("%w: %q has %d observed dates", domain.ErrInsufficientData, itemName, len(series))
	}
	return series, nil
}

// PredictBatch aggregates the transaction set once, then fits and forecasts
// each requested item with a fresh model. Failures are reported per item.
func (s *Service) PredictBatch(ctx context.Context, txns []simdomain.Transaction, catalog *catalogdomain.Catalog, req domain.BatchRequest) ([]domain.ItemForecast, error) {
	if req.HorizonDays < domain.MinHorizonDays || req.HorizonDays > domain.MaxHorizonDays {
		return nil, fmt.Errorf("%w: %d days, want [%d, %d]",
			domain.ErrInvalidHorizon, req.HorizonDays, domain.MinHorizonDays, domain.MaxHorizonDays)
	}
	if s.factory == nil {
		return nil, domain.ErrNoForecaster
	}

	grid, err := s.usageSvc.DailyUsage(ctx, txns, catalog)
	if err != nil {
		return nil, fmt.Errorf("aggregate usage: %w", err)
	}

	results := make([]domain.ItemForecast, 0, len(req.ItemIDs))
	for _, itemID := range req.ItemIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.predictItem(grid, catalog, itemID, req.HorizonDays))
	}
	return results, nil
}

func (s *Service) predictItem(grid []usagedomain.DailyUsageRecord, catalog *catalogdomain.Catalog, itemID string, horizon int) domain.ItemForecast {
	fail := func(name string, err error) domain.ItemForecast {
		s.log.Warn("item forecast failed", zap.String("item_id", itemID), zap.Error(err))
		return domain.ItemForecast{
			ItemID:   itemID,
			ItemName: name,
			Status:   domain.StatusError,
			Error:    err.Error(),
		}
	}

	item, err := catalog.ByID(itemID)
	if err != nil {
		return fail("", err)
	}

	series, err := s.BuildSeries(grid, item.Name)
	if err != nil {
		return fail(item.Name, err)
	}

	model := s.factory()
	if err := model.Fit(series); err != nil {
		return fail(item.Name, fmt.Errorf("fit: %w", err))
	}
	preds, err := model.Forecast(horizon)
	if err != nil {
		return fail(item.Name, fmt.Errorf("forecast: %w", err))
	}

	lastObserved := series[len(series)-1].Date
	kept := make([]domain.Prediction, 0, len(preds))
	for _, p := range preds {
		if !p.Date.After(lastObserved) {
			continue
		}
		kept = append(kept, clamp(p))
	}

	return domain.ItemForecast{
		ItemID:      itemID,
		ItemName:    item.Name,
		Predictions: kept,
		Status:      domain.StatusSuccess,
	}
}

// clamp coerces a prediction's point estimate and bounds to be
// non-negative. Deliberate normalization, not error suppression: usage
// cannot go below zero.
func clamp(p domain.Prediction) domain.Prediction {
	if p.Estimate < 0 {
		p.Estimate = 0
	}
	if p.Lower < 0 {
		p.Lower = 0
	}
	if p.Upper < 0 {
		p.Upper = 0
	}
	return p
}

func distinctDates(series []domain.Observation) map[int64]struct{} {
	dates := make(map[int64]struct{}, len(series))
	for _, o := range series {
		dates[o.Date.Unix()] = struct{}{}
	}
	return dates
}
