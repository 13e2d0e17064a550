package remote

import (
	"github.com/fieldops/metas/internal/remote/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("remote.store",
	fx.Provide(repository.Provide),
)
