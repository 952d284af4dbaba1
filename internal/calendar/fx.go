package calendar

import "go.uber.org/fx"

// Module wires the holiday calendar.
var Module = fx.Module("calendar",
	fx.Provide(New),
)
