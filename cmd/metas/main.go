package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/fieldops/metas/internal/config"
	"github.com/fieldops/metas/internal/logger"
	"github.com/fieldops/metas/internal/migration"
	"github.com/fieldops/metas/internal/observability"
	"github.com/fieldops/metas/internal/server"
	"github.com/fieldops/metas/internal/trigger"
	"github.com/fieldops/metas/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Domain services + HTTP surface
		server.Module,

		// Background sync triggers
		trigger.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) *snowflake.Node {
	node, err := snowflake.NewNode(int64(cfg.NodeID))
	if err != nil {
		panic(err)
	}
	return node
}
