// Package domain contains the transaction stream models produced by the
// demand simulation.
package domain

import (
	"context"
	"errors"
	"time"

	catalogdomain "github.com/smallbiznis/demandsim/internal/catalog/domain"
)

// TransactionType discriminates restocks from sales.
type TransactionType string

const (
	Inbound  TransactionType = "Inbound"
	Outbound TransactionType = "Outbound"
)

var (
	ErrInvalidSpan  = errors.New("invalid_span")
	ErrEmptyCatalog = errors.New("empty_catalog")
)

// Transaction is one immutable inventory movement. Every positive demand
// sample yields exactly one Outbound and one Inbound transaction for the
// same (item, date).
type Transaction struct {
	ID        string          `json:"transaction_id"`
	Date      time.Time       `json:"date"`
	ItemID    string          `json:"item_id"`
	Type      TransactionType `json:"transaction_type"`
	Quantity  int             `json:"quantity"`
	UnitPrice float64         `json:"unit_price"`
}

// DemandSample is the simulated consumption of one item on one day.
// Ephemeral: produced per (item, date) pair and consumed immediately by
// the transaction emitter.
type DemandSample struct {
	Item     catalogdomain.Item
	Date     time.Time
	Quantity int
}

// RunConfig bounds one simulation run. Seed feeds every random draw so
// equal configs over equal catalogs produce identical streams.
type RunConfig struct {
	Start   time.Time
	End     time.Time
	Seed    int64
	Workers int

	// Progress renders a terminal progress bar while the run advances.
	Progress bool
}

// Service runs the demand simulation over a catalog and date span.
type Service interface {
	Run(ctx context.Context, catalog *catalogdomain.Catalog, cfg RunConfig) ([]Transaction, error)
}
