package syncer

import (
	"github.com/fieldops/metas/internal/syncer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("syncer.engine",
	fx.Provide(service.NewDBProbe),
	fx.Provide(service.NewEngine),
)
