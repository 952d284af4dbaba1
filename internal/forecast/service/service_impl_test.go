package service

import (
	"context"
	"errors"
	"testing"
	"time"

	catalogdomain "github.com/smallbiznis/demandsim/internal/catalog/domain"
	"github.com/smallbiznis/demandsim/internal/forecast/domain"
	simdomain "github.com/smallbiznis/demandsim/internal/simulation/domain"
	usagedomain "github.com/smallbiznis/demandsim/internal/usage/domain"
	usageservice "github.com/smallbiznis/demandsim/internal/usage/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubForecaster replays canned predictions and records its fit input.
type stubForecaster struct {
	fitSeries []domain.Observation
	fitErr    error
	preds     []domain.Prediction
	predErr   error
}

func (f *stubForecaster) Fit(series []domain.Observation) error {
	f.fitSeries = series
	return f.fitErr
}

func (f *stubForecaster) Forecast(horizonDays int) ([]domain.Prediction, error) {
	if f.predErr != nil {
		return nil, f.predErr
	}
	return f.preds, nil
}

func newService(t *testing.T, factory domain.ForecasterFactory) domain.Service {
	t.Helper()
	return NewService(ServiceParam{
		Log:      zap.NewNop(),
		UsageSvc: usageservice.NewService(usageservice.ServiceParam{Log: zap.NewNop()}),
		Factory:  factory,
	})
}

func testCatalog(t *testing.T) *catalogdomain.Catalog {
	t.Helper()
	cat, err := catalogdomain.NewCatalog([]catalogdomain.Item{
		{ID: "ITEM1", Name: "Item 1", Category: "Books"},
		{ID: "ITEM2", Name: "Item 2", Category: "Toys"},
	})
	require.NoError(t, err)
	return cat
}

func day(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func outbound(itemID string, date time.Time, qty int) simdomain.Transaction {
	return simdomain.Transaction{ID: itemID + date.String(), Date: date, ItemID: itemID, Type: simdomain.Outbound, Quantity: qty}
}

func TestBuildSeries(t *testing.T) {
	svc := newService(t, nil).(*Service)
	grid := []usagedomain.DailyUsageRecord{
		{Date: day("2021-01-01"), ItemName: "Item 1", Quantity: 5},
		{Date: day("2021-01-01"), ItemName: "Item 2", Quantity: 9},
		{Date: day("2021-01-02"), ItemName: "Item 1", Quantity: 0},
		{Date: day("2021-01-02"), ItemName: "Item 2", Quantity: 1},
	}

	series, err := svc.BuildSeries(grid, "Item 1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Observation{
		{Date: day("2021-01-01"), Quantity: 5},
		{Date: day("2021-01-02"), Quantity: 0},
	}, series)
}

func TestBuildSeries_InsufficientData(t *testing.T) {
	svc := newService(t, nil).(*Service)
	grid := []usagedomain.DailyUsageRecord{
		{Date: day("2021-01-01"), ItemName: "Item 1", Quantity: 5},
	}

	_, err := svc.BuildSeries(grid, "Item 1")
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	_, err = svc.BuildSeries(grid, "Item 3")
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestPredictBatch_ValidatesHorizon(t *testing.T) {
	svc := newService(t, func() domain.Forecaster { return &stubForecaster{} })

	for _, horizon := range []int{0, -1, 366} {
		_, err := svc.PredictBatch(context.Background(), nil, testCatalog(t), domain.BatchRequest{
			ItemIDs:     []string{"ITEM1"},
			HorizonDays: horizon,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidHorizon, "horizon %d", horizon)
	}
}

func TestPredictBatch_RequiresForecaster(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.PredictBatch(context.Background(), nil, testCatalog(t), domain.BatchRequest{
		ItemIDs:     []string{"ITEM1"},
		HorizonDays: 30,
	})
	assert.ErrorIs(t, err, domain.ErrNoForecaster)
}

func TestPredictBatch_ClampsNegativeBounds(t *testing.T) {
	stub := &stubForecaster{preds: []domain.Prediction{
		{Date: day("2021-01-03"), Estimate: -4, Lower: -10, Upper: 2},
		{Date: day("2021-01-04"), Estimate: 7, Lower: -1, Upper: 12},
	}}
	svc := newService(t, func() domain.Forecaster { return stub })

	txns := []simdomain.Transaction{
		outbound("ITEM1", day("2021-01-01"), 5),
		outbound("ITEM1", day("2021-01-02"), 6),
	}
	results, err := svc.PredictBatch(context.Background(), txns, testCatalog(t), domain.BatchRequest{
		ItemIDs:     []string{"ITEM1"},
		HorizonDays: 2,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, domain.StatusSuccess, res.Status)
	require.Len(t, res.Predictions, 2)
	assert.Equal(t, domain.Prediction{Date: day("2021-01-03"), Estimate: 0, Lower: 0, Upper: 2}, res.Predictions[0])
	assert.Equal(t, domain.Prediction{Date: day("2021-01-04"), Estimate: 7, Lower: 0, Upper: 12}, res.Predictions[1])

	// The stub was fitted with the item's dense series.
	assert.Len(t, stub.fitSeries, 2)
}

func TestPredictBatch_DropsPredictionsInsideObservedRange(t *testing.T) {
	stub := &stubForecaster{preds: []domain.Prediction{
		{Date: day("2021-01-02"), Estimate: 1}, // inside the observed span
		{Date: day("2021-01-03"), Estimate: 2},
	}}
	svc := newService(t, func() domain.Forecaster { return stub })

	txns := []simdomain.Transaction{
		outbound("ITEM1", day("2021-01-01"), 5),
		outbound("ITEM1", day("2021-01-02"), 6),
	}
	results, err := svc.PredictBatch(context.Background(), txns, testCatalog(t), domain.BatchRequest{
		ItemIDs:     []string{"ITEM1"},
		HorizonDays: 2,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Predictions, 1)
	assert.Equal(t, day("2021-01-03"), results[0].Predictions[0].Date)
}

func TestPredictBatch_PartialFailuresDoNotAbort(t *testing.T) {
	svc := newService(t, func() domain.Forecaster {
		return &stubForecaster{preds: []domain.Prediction{{Date: day("2021-01-05"), Estimate: 3}}}
	})

	// ITEM1 has two active days, ITEM2 none at all, ITEM9 is unknown.
	txns := []simdomain.Transaction{
		outbound("ITEM1", day("2021-01-01"), 5),
		outbound("ITEM1", day("2021-01-02"), 6),
	}
	results, err := svc.PredictBatch(context.Background(), txns, testCatalog(t), domain.BatchRequest{
		ItemIDs:     []string{"ITEM1", "ITEM2", "ITEM9"},
		HorizonDays: 30,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, domain.StatusSuccess, results[0].Status)

	assert.Equal(t, domain.StatusError, results[1].Status)
	assert.Equal(t, "Item 2", results[1].ItemName)
	assert.Contains(t, results[1].Error, "insufficient_data")

	assert.Equal(t, domain.StatusError, results[2].Status)
	assert.Contains(t, results[2].Error, "unknown_item")
}

func TestPredictBatch_FitErrorReportedPerItem(t *testing.T) {
	svc := newService(t, func() domain.Forecaster {
		return &stubForecaster{fitErr: errors.New("model blew up")}
	})

	txns := []simdomain.Transaction{
		outbound("ITEM1", day("2021-01-01"), 5),
		outbound("ITEM1", day("2021-01-02"), 6),
	}
	results, err := svc.PredictBatch(context.Background(), txns, testCatalog(t), domain.BatchRequest{
		ItemIDs:     []string{"ITEM1"},
		HorizonDays: 10,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.StatusError, results[0].Status)
	assert.Contains(t, results[0].Error, "model blew up")
}
