package service

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/smallbiznis/demandsim/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidCount = errors.New("invalid_item_count")

// Price and shelf-life ranges for generated items.
const (
	minPurchasePrice = 10.0
	maxPurchasePrice = 1000.0
	minMarkup        = 1.3
	maxMarkup        = 1.8
	minShelfLifeDays = 30
	maxShelfLifeDays = 730
)

type GeneratorParam struct {
	fx.In

	Log *zap.Logger
}

type generator struct {
	log *zap.Logger
}

// NewGenerator builds the catalog generator.
func NewGenerator(p GeneratorParam) domain.Generator {
	return &generator{log: p.Log.Named("catalog.generator")}
}

// Generate draws n items from the provided source. Identifiers are "ITEM1"
// through "ITEMn"; all random attributes come from rng so equal seeds
// produce equal catalogs.
func (g *generator) Generate(rng *rand.Rand, n int) (*domain.Catalog, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}

	items := make([]domain.Item, 0, n)
	for i := 1; i <= n; i++ {
		category := pick(rng, domain.Categories)
		purchase := minPurchasePrice + rng.Float64()*(maxPurchasePrice-minPurchasePrice)

		unit := "units"
		if category == domain.CategoryFood && rng.Intn(2) == 0 {
			unit = "kg"
		}

		items = append(items, domain.Item{
			ID:               fmt.Sprintf("ITEM%d", i),
			Name:             fmt.Sprintf("Item %d", i),
			Category:         category,
			Supplier:         pick(rng, domain.Suppliers),
			PurchasePrice:    purchase,
			SalePrice:        purchase * (minMarkup + rng.Float64()*(maxMarkup-minMarkup)),
			Unit:             unit,
			StorageCondition: pick(rng, domain.StorageConditions),
			ShelfLifeDays:    minShelfLifeDays + rng.Intn(maxShelfLifeDays-minShelfLifeDays+1),
		})
	}

	g.log.Info("catalog generated", zap.Int("items", n))
	return domain.NewCatalog(items)
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}
