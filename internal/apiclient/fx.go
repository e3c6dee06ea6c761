package apiclient

import "go.uber.org/fx"

var Module = fx.Module("apiclient",
	fx.Provide(New),
)
