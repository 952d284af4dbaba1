package main

import (
	"github.com/smallbiznis/demandsim/internal/catalog"
	"github.com/smallbiznis/demandsim/internal/calendar"
	"github.com/smallbiznis/demandsim/internal/config"
	"github.com/smallbiznis/demandsim/internal/forecast"
	"github.com/smallbiznis/demandsim/internal/logger"
	"github.com/smallbiznis/demandsim/internal/runner"
	"github.com/smallbiznis/demandsim/internal/simulation"
	"github.com/smallbiznis/demandsim/internal/usage"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		calendar.Module,

		// Pipeline stages
		catalog.Module,
		simulation.Module,
		usage.Module,
		forecast.Module,

		// Batch driver
		runner.Module,
	)
	app.Run()
}
