// Package trigger drives the sync engine: once at startup, on a fixed
// interval, and immediately after an offline-to-online transition.
package trigger

import (
	"context"
	"time"

	"github.com/fieldops/metas/internal/config"
	"github.com/fieldops/metas/internal/principalctx"
	syncerdomain "github.com/fieldops/metas/internal/syncer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
	Engine syncerdomain.Engine
	Probe  syncerdomain.Probe
}

type Trigger struct {
	log      *zap.Logger
	cfg      config.Config
	engine   syncerdomain.Engine
	probe    syncerdomain.Probe
	interval time.Duration

	wasOnline bool
}

func New(p Params) *Trigger {
	interval := p.Config.Sync.Interval
	return &Trigger{
		log:      p.Log.Named("trigger"),
		cfg:      p.Config,
		engine:   p.Engine,
		probe:    p.Probe,
		interval: interval,
	}
}

// RunForever ticks until the context is cancelled. Every tick either
// drains (normal interval) or, if the probe just flipped from offline to
// online, drains immediately to catch up.
func (t *Trigger) RunForever(ctx context.Context) {
	if t.interval <= 0 {
		t.log.Info("background sync disabled")
		return
	}

	t.wasOnline = t.probe.Online(ctx)
	if t.cfg.Sync.DrainOnStart {
		t.drain(ctx)
	}

	// Probe more often than the drain interval so reconnects are
	// noticed promptly.
	probeEvery := t.interval / 4
	if probeEvery < time.Second {
		probeEvery = time.Second
	}

	drainTick := time.NewTicker(t.interval)
	defer drainTick.Stop()
	probeTick := time.NewTicker(probeEvery)
	defer probeTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-drainTick.C:
			t.drain(ctx)
		case <-probeTick.C:
			online := t.probe.Online(ctx)
			if online && !t.wasOnline {
				t.log.Info("connectivity restored, draining")
				t.drain(ctx)
			}
			t.wasOnline = online
		}
	}
}

func (t *Trigger) drain(ctx context.Context) {
	if t.cfg.DeviceUserID != "" {
		ctx = principalctx.WithUserID(ctx, t.cfg.DeviceUserID)
	}
	t.engine.SyncPendingLogs(ctx)
}

var Module = fx.Module("trigger",
	fx.Provide(New),
	fx.Invoke(registerLoop),
)

func registerLoop(lc fx.Lifecycle, t *Trigger) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go t.RunForever(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
