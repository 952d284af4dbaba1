package simulation

import (
	"github.com/smallbiznis/demandsim/internal/simulation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("simulation.service",
	fx.Provide(service.NewService),
)
