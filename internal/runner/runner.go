// Package runner drives the batch pipeline: catalog generation, demand
// simulation, usage aggregation and the holiday effect table, each written
// to the output directory as CSV.
package runner

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"time"

	catalogdomain "github.com/smallbiznis/demandsim/internal/catalog/domain"
	"github.com/smallbiznis/demandsim/internal/calendar"
	"github.com/smallbiznis/demandsim/internal/config"
	"github.com/smallbiznis/demandsim/internal/export"
	simdomain "github.com/smallbiznis/demandsim/internal/simulation/domain"
	usagedomain "github.com/smallbiznis/demandsim/internal/usage/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Param struct {
	fx.In

	Log        *zap.Logger
	Cfg        config.Config
	Calendar   *calendar.Calendar
	Generator  catalogdomain.Generator
	Simulation simdomain.Service
	Usage      usagedomain.Service

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
}

// Register runs the pipeline once the application starts and shuts the
// process down when it completes.
func Register(p Param) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := run(context.Background(), p); err != nil {
					p.Log.Error("pipeline failed", zap.Error(err))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
					return
				}
				_ = p.Shutdowner.Shutdown()
			}()
			return nil
		},
	})
}

func run(ctx context.Context, p Param) error {
	log := p.Log.Named("runner")
	started := time.Now()

	start, end, err := p.Cfg.Span(time.Now().UTC())
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(p.Cfg.Seed))
	catalog, err := p.Generator.Generate(rng, p.Cfg.ItemCount)
	if err != nil {
		return fmt.Errorf("generate catalog: %w", err)
	}
	if err := writeArtifact(p.Cfg.OutputDir, export.ItemsFile, func(w io.Writer) error {
		return export.WriteItems(w, catalog)
	}); err != nil {
		return err
	}

	var txns []simdomain.Transaction
	if p.Cfg.Stages.Simulate {
		txns, err = p.Simulation.Run(ctx, catalog, simdomain.RunConfig{
			Start:    start,
			End:      end,
			Seed:     p.Cfg.Seed,
			Workers:  p.Cfg.Workers,
			Progress: true,
		})
		if err != nil {
			return fmt.Errorf("simulate: %w", err)
		}
		if err := writeArtifact(p.Cfg.OutputDir, export.TransactionsFile, func(w io.Writer) error {
			return export.WriteTransactions(w, txns)
		}); err != nil {
			return err
		}
	}

	if p.Cfg.Stages.Aggregate {
		if !p.Cfg.Stages.Simulate {
			log.Warn("aggregate stage skipped: no simulated transactions in this run")
		} else {
			grid, err := p.Usage.DailyUsage(ctx, txns, catalog)
			if err != nil {
				return fmt.Errorf("aggregate usage: %w", err)
			}
			if err := writeArtifact(p.Cfg.OutputDir, export.DailyUsageFile, func(w io.Writer) error {
				return export.WriteDailyUsage(w, grid)
			}); err != nil {
				return err
			}
		}
	}

	if p.Cfg.Stages.Holidays {
		effects := p.Calendar.EffectTable(start.Year(), end.Year())
		if err := writeArtifact(p.Cfg.OutputDir, export.HolidaysFile, func(w io.Writer) error {
			return export.WriteHolidayEffects(w, effects)
		}); err != nil {
			return err
		}
	}

	log.Info("pipeline finished",
		zap.Int("items", catalog.Len()),
		zap.Int("transactions", len(txns)),
		zap.Time("from", start),
		zap.Time("to", end),
		zap.String("output_dir", p.Cfg.OutputDir),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}

func writeArtifact(dir, name string, write func(io.Writer) error) error {
	return export.ToFile(filepath.Join(dir, name), write)
}
