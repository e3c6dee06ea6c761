package stubapi

import "go.uber.org/fx"

var Module = fx.Module("stubapi",
	fx.Provide(New),
)
