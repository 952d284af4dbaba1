package runner

import "go.uber.org/fx"

// Module runs the pipeline on application start.
var Module = fx.Module("runner",
	fx.Invoke(Register),
)
