// Package domain contains the dense daily usage grid handed to the
// forecasting boundary.
package domain

import (
	"context"
	"strings"
	"time"

	catalogdomain "github.com/smallbiznis/demandsim/internal/catalog/domain"
	simdomain "github.com/smallbiznis/demandsim/internal/simulation/domain"
)

// DailyUsageRecord is the summed outbound quantity of one item on one day.
// A regenerated view over the transaction set, never stored on its own.
type DailyUsageRecord struct {
	Date     time.Time `json:"date"`
	ItemName string    `json:"item_name"`
	Quantity int       `json:"quantity"`
}

// Service reshapes a transaction set into a gap-free daily usage grid:
// one record per (day, item) for every day between the oldest and newest
// outbound transaction, zero-filled where an item saw no activity.
type Service interface {
	DailyUsage(ctx context.Context, txns []simdomain.Transaction, catalog *catalogdomain.Catalog) ([]DailyUsageRecord, error)
}

// CanonicalItemID normalizes the two identifier spellings in circulation:
// the generator emits "ITEM42" while the warehouse database stores the bare
// numeric part.
func CanonicalItemID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), "ITEM")
}
