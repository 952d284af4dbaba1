package service

import (
	"math"
	"math/rand"

	catalogdomain "github.com/smallbiznis/demandsim/internal/catalog/domain"
	"github.com/smallbiznis/demandsim/internal/calendar"
)

// Demand model constants. trendSpanDays stays fixed at the nominal ten year
// span even when the configured range differs; downstream consumers depend
// on the exact curve.
const (
	trendSpanDays = 3650
	trendGrowth   = 0.2

	noiseStdDev = 0.15

	holidayBoost = 1.8
	surgeBoost   = 1.5
)

// baseDemand draws the base daily demand for a category. Redrawn per
// (item, day) for every category.
func baseDemand(rng *rand.Rand, category string) int {
	switch category {
	case catalogdomain.CategoryElectronics:
		return 20 + rng.Intn(21)
	case catalogdomain.CategoryFood:
		return 40 + rng.Intn(21)
	default:
		return 10 + rng.Intn(91)
	}
}

// seasonalFactor is the category-specific multiplier for a calendar day.
func seasonalFactor(category string, day calendar.DayInfo) float64 {
	switch category {
	case catalogdomain.CategoryElectronics:
		f := 1.0
		if day.Month == 11 || day.Month == 12 {
			f = 1.5
		}
		// Gift seasons around Defender's Day and Women's Day.
		if (day.Month == 2 && day.Day >= 15 && day.Day <= 23) ||
			(day.Month == 3 && day.Day >= 1 && day.Day <= 8) {
			f *= 1.8
		}
		return f
	case catalogdomain.CategoryFood:
		f := 1.0
		if day.Month >= 6 && day.Month <= 8 {
			f = 1.2
		}
		if day.Month == 12 && day.Day > 15 {
			f *= 2.0
		}
		return f
	default:
		return 1.0 + 0.3*math.Sin(2*math.Pi*float64(day.DayOfYear)/365)
	}
}

// trendFactor applies the linear long-term growth for a day offset from
// the simulation start.
func trendFactor(daysSinceStart int) float64 {
	return 1 + float64(daysSinceStart)/trendSpanDays*trendGrowth
}

// randomFactor draws the multiplicative noise term, Normal(1, 0.15).
// No floor here; the floor applies after composition.
func randomFactor(rng *rand.Rand) float64 {
	return 1 + rng.NormFloat64()*noiseStdDev
}

// holidayFactor boosts demand on holidays and inside surge windows. The
// holiday flag wins when a date carries both.
func holidayFactor(day calendar.DayInfo) float64 {
	switch {
	case day.IsHoliday:
		return holidayBoost
	case day.IsPreHolidaySurge:
		return surgeBoost
	default:
		return 1.0
	}
}

// demandQuantity composes the factors into a final integer demand,
// floored and never negative.
func demandQuantity(base int, seasonal, trend, random, holiday float64) int {
	d := float64(base) * seasonal * trend * random * holiday
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d))
}
