package service

import (
	"context"
	"sort"
	"time"

	catalogdomain "github.com/smallbiznis/demandsim/internal/catalog/domain"
	simdomain "github.com/smallbiznis/demandsim/internal/simulation/domain"
	"github.com/smallbiznis/demandsim/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log *zap.Logger
}

type Service struct {
	log *zap.Logger
}

func NewService(p ServiceParam) domain.Service {
	return &Service{log: p.Log.Named("usage.service")}
}

// DailyUsage builds the dense grid in two passes: first sum outbound
// quantities per (day, item name), then cross every day of the observed
// span with every item name seen and left-join the sums onto it, filling
// gaps with zero. An input with no outbound transactions yields an empty
// grid, not an error.
func (s *Service) DailyUsage(ctx context.Context, txns []simdomain.Transaction, catalog *catalogdomain.Catalog) ([]domain.DailyUsageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := make(map[string]string, catalog.Len())
	for _, item := range catalog.Items() {
		names[domain.CanonicalItemID(item.ID)] = item.Name
	}

	type cell struct {
		day  time.Time
		name string
	}
	sums := make(map[cell]int)
	var minDay, maxDay time.Time
	itemNames := make(map[string]struct{})

	for _, tx := range txns {
		if tx.Type != simdomain.Outbound {
			continue
		}
		name, ok := names[domain.CanonicalItemID(tx.ItemID)]
		if !ok {
			// Transactions for items outside the catalog cannot be
			// labelled and stay out of the grid.
			continue
		}
		day := truncateToDay(tx.Date)

		sums[cell{day, name}] += tx.Quantity
		itemNames[name] = struct{}{}
		if minDay.IsZero() || day.Before(minDay) {
			minDay = day
		}
		if maxDay.IsZero() || day.After(maxDay) {
			maxDay = day
		}
	}

	if len(sums) == 0 {
		return []domain.DailyUsageRecord{}, nil
	}

	sorted := make([]string, 0, len(itemNames))
	for name := range itemNames {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	numDays := int(maxDay.Sub(minDay).Hours()/24) + 1
	grid := make([]domain.DailyUsageRecord, 0, numDays*len(sorted))
	for d := 0; d < numDays; d++ {
		day := minDay.AddDate(0, 0, d)
		for _, name := range sorted {
			grid = append(grid, domain.DailyUsageRecord{
				Date:     day,
				ItemName: name,
				Quantity: sums[cell{day, name}],
			})
		}
	}

	s.log.Debug("daily usage aggregated",
		zap.Int("records", len(grid)),
		zap.Int("items", len(sorted)),
		zap.Time("from", minDay),
		zap.Time("to", maxDay),
	)
	return grid, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
