// Package domain defines the boundary with the external time-series
// forecaster. The forecasting algorithm itself lives behind the Forecaster
// contract; this core only prepares its fit input and normalizes its output.
package domain

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/smallbiznis/demandsim/internal/catalog/domain"
	simdomain "github.com/smallbiznis/demandsim/internal/simulation/domain"
	usagedomain "github.com/smallbiznis/demandsim/internal/usage/domain"
)

// Horizon bounds accepted for a prediction request, in days.
const (
	MinHorizonDays = 1
	MaxHorizonDays = 365
)

var (
	ErrInsufficientData = errors.New("insufficient_data")
	ErrInvalidHorizon   = errors.New("invalid_horizon")
	ErrNoForecaster     = errors.New("no_forecaster")
)

// Observation is one fit-input point: summed usage of an item on a day.
type Observation struct {
	Date     time.Time `json:"date"`
	Quantity float64   `json:"quantity"`
}

// Prediction is one forecast point with its uncertainty interval. All three
// values are clamped to be non-negative before leaving the core.
type Prediction struct {
	Date     time.Time `json:"date"`
	Estimate float64   `json:"predicted_quantity"`
	Lower    float64   `json:"lower_bound"`
	Upper    float64   `json:"upper_bound"`
}

// Forecaster is the black-box regression model. One instance serves one
// item's series.
type Forecaster interface {
	Fit(series []Observation) error
	Forecast(horizonDays int) ([]Prediction, error)
}

// ForecasterFactory builds a fresh Forecaster per item.
type ForecasterFactory func() Forecaster

// Batch result statuses, reported per item.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ItemForecast is the per-item outcome of a batch prediction. A failed item
// carries its error message without affecting its siblings.
type ItemForecast struct {
	ItemID      string       `json:"item_id"`
	ItemName    string       `json:"item_name"`
	Predictions []Prediction `json:"predictions"`
	Status      string       `json:"status"`
	Error       string       `json:"error,omitempty"`
}

// BatchRequest asks for forecasts over a set of catalog items.
type BatchRequest struct {
	ItemIDs     []string `json:"item_ids"`
	HorizonDays int      `json:"prediction_days"`
}

// Service prepares fit input from raw transactions and post-processes the
// forecaster's output.
type Service interface {
	// BuildSeries extracts one item's fit input from a dense usage grid.
	// Fewer than two distinct dates is ErrInsufficientData.
	BuildSeries(grid []usagedomain.DailyUsageRecord, itemName string) ([]Observation, error)

	// PredictBatch forecasts every requested item over the given horizon.
	// Per-item failures land on that item's result and never abort the
	// batch.
	PredictBatch(ctx context.Context, txns []simdomain.Transaction, catalog *catalogdomain.Catalog, req BatchRequest) ([]ItemForecast, error)
}
