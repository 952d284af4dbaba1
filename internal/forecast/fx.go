package forecast

import (
	"github.com/smallbiznis/demandsim/internal/forecast/service"
	"go.uber.org/fx"
)

var Module = fx.Module("forecast.service",
	fx.Provide(service.NewService),
)
