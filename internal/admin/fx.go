package admin

import "go.uber.org/fx"

var Module = fx.Module("admin",
	fx.Provide(New),
)
