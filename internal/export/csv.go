// Package export serializes the pipeline's boundary artifacts to flat CSV
// files: the item catalog, the raw transaction stream, the dense daily
// usage grid and the holiday effect table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	catalogdomain "github.com/smallbiznis/demandsim/internal/catalog/domain"
	"github.com/smallbiznis/demandsim/internal/calendar"
	simdomain "github.com/smallbiznis/demandsim/internal/simulation/domain"
	usagedomain "github.com/smallbiznis/demandsim/internal/usage/domain"
)

// File names written into the output directory.
const (
	ItemsFile        = "items.csv"
	TransactionsFile = "transactions.csv"
	DailyUsageFile   = "daily_usage.csv"
	HolidaysFile     = "holidays.csv"
)

// WriteItems emits the catalog, one row per item in generation order.
func WriteItems(w io.Writer, catalog *catalogdomain.Catalog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"item_id", "item_name", "category", "supplier",
		"purchase_price", "sale_price", "units", "storage_condition", "shelf_life_days",
	}); err != nil {
		return err
	}
	for _, item := range catalog.Items() {
		if err := cw.Write([]string{
			item.ID,
			item.Name,
			item.Category,
			item.Supplier,
			formatPrice(item.PurchasePrice),
			formatPrice(item.SalePrice),
			item.Unit,
			item.StorageCondition,
			strconv.Itoa(item.ShelfLifeDays),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTransactions emits the transaction stream in its simulated order.
func WriteTransactions(w io.Writer, txns []simdomain.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"transaction_id", "date", "item_id", "transaction_type", "quantity", "unit_price",
	}); err != nil {
		return err
	}
	for _, tx := range txns {
		if err := cw.Write([]string{
			tx.ID,
			tx.Date.Format(time.DateOnly),
			tx.ItemID,
			string(tx.Type),
			strconv.Itoa(tx.Quantity),
			formatPrice(tx.UnitPrice),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDailyUsage emits the dense grid ordered as aggregated.
func WriteDailyUsage(w io.Writer, grid []usagedomain.DailyUsageRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "item_name", "quantity"}); err != nil {
		return err
	}
	for _, r := range grid {
		if err := cw.Write([]string{
			r.Date.Format(time.DateOnly),
			r.ItemName,
			strconv.Itoa(r.Quantity),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHolidayEffects emits the forecaster's holiday effect table.
func WriteHolidayEffects(w io.Writer, effects []calendar.Effect) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"holiday", "date", "lower_window", "upper_window"}); err != nil {
		return err
	}
	for _, e := range effects {
		if err := cw.Write([]string{
			e.Name,
			e.Date.Format(time.DateOnly),
			strconv.Itoa(e.LowerWindow),
			strconv.Itoa(e.UpperWindow),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile creates path's parent directory and streams write into it.
func ToFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
