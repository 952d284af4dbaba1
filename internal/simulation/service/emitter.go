package service

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/smallbiznis/demandsim/internal/simulation/domain"
)

// Restock sizing: on holidays the restock anticipates sustained demand, on
// regular days it adds a small uniform jitter on top of the day's sales.
const (
	restockHolidayFactor = 1.2
	restockJitterMax     = 5
)

// emit converts one positive demand sample into its Outbound sale and
// Inbound restock pair. Transaction IDs are drawn from rng so a seeded run
// reproduces them exactly.
func emit(rng *rand.Rand, s domain.DemandSample, isHoliday bool) ([]domain.Transaction, error) {
	outID, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return nil, err
	}

	restock := s.Quantity
	if isHoliday {
		restock = int(math.Floor(float64(s.Quantity) * restockHolidayFactor))
	} else {
		restock += rng.Intn(restockJitterMax + 1)
	}

	inID, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return nil, err
	}

	return []domain.Transaction{
		{
			ID:        outID.String(),
			Date:      s.Date,
			ItemID:    s.Item.ID,
			Type:      domain.Outbound,
			Quantity:  s.Quantity,
			UnitPrice: s.Item.SalePrice,
		},
		{
			ID:        inID.String(),
			Date:      s.Date,
			ItemID:    s.Item.ID,
			Type:      domain.Inbound,
			Quantity:  restock,
			UnitPrice: s.Item.PurchasePrice,
		},
	}, nil
}
