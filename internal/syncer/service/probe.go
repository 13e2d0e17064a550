package service

import (
	"context"
	"time"

	"github.com/fieldops/metas/internal/config"
	syncerdomain "github.com/fieldops/metas/internal/syncer/domain"
	"gorm.io/gorm"
)

type dbProbe struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewDBProbe reports connectivity by pinging the remote store.
func NewDBProbe(db *gorm.DB, cfg config.Config) syncerdomain.Probe {
	timeout := cfg.Sync.ProbeTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &dbProbe{db: db, timeout: timeout}
}

func (p *dbProbe) Online(ctx context.Context) bool {
	sqlDB, err := p.db.DB()
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return sqlDB.PingContext(ctx) == nil
}
