package pending

import "go.uber.org/fx"

var Module = fx.Module("pending.queue",
	fx.Provide(NewBlobStore),
	fx.Provide(NewQueue),
)
