package service

import (
	"context"
	"math"
	"testing"
	"time"

	catalogdomain "github.com/smallbiznis/demandsim/internal/catalog/domain"
	"github.com/smallbiznis/demandsim/internal/calendar"
	"github.com/smallbiznis/demandsim/internal/simulation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) domain.Service {
	t.Helper()
	return NewService(ServiceParam{Log: zap.NewNop(), Calendar: calendar.New()})
}

func testCatalog(t *testing.T) *catalogdomain.Catalog {
	t.Helper()
	cat, err := catalogdomain.NewCatalog([]catalogdomain.Item{
		{ID: "ITEM1", Name: "Item 1", Category: catalogdomain.CategoryElectronics, PurchasePrice: 100, SalePrice: 150},
		{ID: "ITEM2", Name: "Item 2", Category: catalogdomain.CategoryFood, PurchasePrice: 20, SalePrice: 30},
		{ID: "ITEM3", Name: "Item 3", Category: "Books", PurchasePrice: 5, SalePrice: 9},
	})
	require.NoError(t, err)
	return cat
}

func run(t *testing.T, cfg domain.RunConfig) []domain.Transaction {
	t.Helper()
	txns, err := newService(t).Run(context.Background(), testCatalog(t), cfg)
	require.NoError(t, err)
	return txns
}

func span(start string, days int) (time.Time, time.Time) {
	s, _ := time.Parse(time.DateOnly, start)
	return s, s.AddDate(0, 0, days-1)
}

func TestRun_RejectsInvalidConfig(t *testing.T) {
	svc := newService(t)
	start, end := span("2020-01-01", 10)

	_, err := svc.Run(context.Background(), testCatalog(t), domain.RunConfig{Start: end, End: start, Seed: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidSpan)

	empty, cerr := catalogdomain.NewCatalog(nil)
	require.NoError(t, cerr)
	_, err = svc.Run(context.Background(), empty, domain.RunConfig{Start: start, End: end, Seed: 1})
	assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
}

func TestRun_TransactionInvariants(t *testing.T) {
	start, end := span("2020-11-20", 60) // covers holidays and surge windows
	txns := run(t, domain.RunConfig{Start: start, End: end, Seed: 42})
	require.NotEmpty(t, txns)

	cal := calendar.New()
	seen := map[string]struct{}{}

	require.Equal(t, 0, len(txns)%2, "sales and restocks come in pairs")
	for i := 0; i < len(txns); i += 2 {
		out, in := txns[i], txns[i+1]

		assert.Equal(t, domain.Outbound, out.Type)
		assert.Equal(t, domain.Inbound, in.Type)
		assert.Equal(t, out.ItemID, in.ItemID)
		assert.Equal(t, out.Date, in.Date)

		assert.Greater(t, out.Quantity, 0)
		assert.GreaterOrEqual(t, in.Quantity, 0)

		if cal.IsHoliday(out.Date.Month(), out.Date.Day()) {
			assert.Equal(t, int(math.Floor(float64(out.Quantity)*1.2)), in.Quantity)
		} else {
			assert.GreaterOrEqual(t, in.Quantity, out.Quantity)
			assert.LessOrEqual(t, in.Quantity, out.Quantity+5)
		}

		for _, tx := range []domain.Transaction{out, in} {
			_, dup := seen[tx.ID]
			assert.False(t, dup, "transaction id reused: %s", tx.ID)
			seen[tx.ID] = struct{}{}
			assert.NotEmpty(t, tx.ID)
			assert.False(t, tx.Date.Before(start) || tx.Date.After(end))
		}
	}
}

func TestRun_PairPricing(t *testing.T) {
	start, end := span("2021-03-01", 14)
	txns := run(t, domain.RunConfig{Start: start, End: end, Seed: 7})

	cat := testCatalog(t)
	for _, tx := range txns {
		item, err := cat.ByID(tx.ItemID)
		require.NoError(t, err)
		switch tx.Type {
		case domain.Outbound:
			assert.Equal(t, item.SalePrice, tx.UnitPrice)
		case domain.Inbound:
			assert.Equal(t, item.PurchasePrice, tx.UnitPrice)
		}
	}
}

func TestRun_DeterministicForEqualSeeds(t *testing.T) {
	start, end := span("2019-06-01", 90)
	cfg := domain.RunConfig{Start: start, End: end, Seed: 42}

	a := run(t, cfg)
	b := run(t, cfg)
	assert.Equal(t, a, b)

	cfg.Seed = 43
	c := run(t, cfg)
	assert.NotEqual(t, a, c)
}

func TestRun_WorkersPreserveDeterminism(t *testing.T) {
	start, end := span("2019-06-01", 120)

	sequential := run(t, domain.RunConfig{Start: start, End: end, Seed: 42, Workers: 1})
	parallel := run(t, domain.RunConfig{Start: start, End: end, Seed: 42, Workers: 8})

	assert.Equal(t, sequential, parallel)
}

func TestRun_OrderedByDayThenCatalog(t *testing.T) {
	start, end := span("2020-02-01", 30)
	txns := run(t, domain.RunConfig{Start: start, End: end, Seed: 3})

	last := start
	for _, tx := range txns {
		assert.False(t, tx.Date.Before(last))
		if tx.Date.After(last) {
			last = tx.Date
		}
	}
}

func TestRun_SingleDayScenario(t *testing.T) {
	// One Food item on a plain mid-April day: no seasonal boost, no
	// holiday, trend pinned at day zero. Demand stays near the base range
	// scaled only by noise, and the restock adds at most five units.
	start, _ := span("2021-04-20", 1)
	cat, err := catalogdomain.NewCatalog([]catalogdomain.Item{
		{ID: "ITEM1", Name: "Item 1", Category: catalogdomain.CategoryFood, PurchasePrice: 10, SalePrice: 15},
	})
	require.NoError(t, err)

	txns, rerr := newService(t).Run(context.Background(), cat, domain.RunConfig{Start: start, End: start, Seed: 42})
	require.NoError(t, rerr)
	require.Len(t, txns, 2)

	out, in := txns[0], txns[1]
	assert.Equal(t, domain.Outbound, out.Type)
	assert.GreaterOrEqual(t, in.Quantity, out.Quantity)
	assert.LessOrEqual(t, in.Quantity, out.Quantity+5)
}

func TestRun_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start, end := span("2015-01-01", 3650)
	_, err := newService(t).Run(ctx, testCatalog(t), domain.RunConfig{Start: start, End: end, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
