package migration

import (
	"github.com/fieldops/metas/internal/config"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// sqlite dev databases have no migration history to track.
			return conn.AutoMigrate(
				&remotedomain.RoleGroup{},
				&remotedomain.Profile{},
				&remotedomain.ServerLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
