package service

import (
	"context"
	"sync"

	"github.com/bwmarrin/snowflake"
	obsmetrics "github.com/fieldops/metas/internal/observability/metrics"
	"github.com/fieldops/metas/internal/pending"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
	syncerdomain "github.com/fieldops/metas/internal/syncer/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type EngineParam struct {
	fx.In

	Log     *zap.Logger
	Store   remotedomain.Store
	Queue   pending.Queue
	GenID   *snowflake.Node
	Probe   syncerdomain.Probe
	Metrics *obsmetrics.Metrics `optional:"true"`
}

type Engine struct {
	log *zap.Logger

	store   remotedomain.Store
	queue   pending.Queue
	genID   *snowflake.Node
	probe   syncerdomain.Probe
	metrics *obsmetrics.Metrics

	// draining serializes queue replays. Overlapping drains are safe
	// (every step is idempotent) but waste network calls.
	draining sync.Mutex
}

func NewEngine(p EngineParam) syncerdomain.Engine {
	return &Engine{
		log: p.Log.Named("syncer.engine"),

		store:   p.Store,
		queue:   p.Queue,
		genID:   p.GenID,
		probe:   p.Probe,
		metrics: p.Metrics,
	}
}

// SyncPendingLogs walks the queue in FIFO order, removing records as the
// remote store confirms them and halting on the first unresolved
// transient failure so delivery order is preserved.
func (e *Engine) SyncPendingLogs(ctx context.Context) {
	if !e.draining.TryLock() {
		e.log.Debug("drain already in progress, skipping")
		return
	}
	defer e.draining.Unlock()

	if !e.probe.Online(ctx) {
		return
	}

	principal, err := e.store.CurrentPrincipal(ctx)
	if err != nil || principal == nil {
		return
	}

	items := e.queue.Load()
	if e.metrics != nil {
		e.metrics.QueueDepth.Set(float64(len(items)))
	}
	if len(items) == 0 {
		return
	}

	ctx, span := otel.Tracer("metas/syncer").Start(ctx, "syncer.SyncPendingLogs")
	defer span.End()
	span.SetAttributes(attribute.Int("queue.depth", len(items)))

	if e.metrics != nil {
		e.metrics.SyncRunsTotal.Inc()
	}
	e.log.Info("draining pending logs", zap.Int("count", len(items)))

	delivered := 0
	for _, item := range items {
		insertErr := e.store.InsertLog(ctx, item.ToServerLog(e.genID.Generate(), principal.ID))

		switch kind := remotedomain.KindOf(insertErr); kind {
		case remotedomain.KindNone:
			e.queue.Dequeue(item.ClientID)
			delivered++

		case remotedomain.KindDuplicateKey:
			// Delivered in a prior partial run; catch up silently.
			e.queue.Dequeue(item.ClientID)
			delivered++

		case remotedomain.KindConnectivity:
			// Halt to preserve order; the whole tail retries later.
			e.log.Warn("connectivity failure, halting drain",
				zap.String("client_id", item.ClientID),
				zap.Int("delivered", delivered),
				zap.Error(insertErr),
			)
			e.countHalt(kind)
			e.countDelivered(delivered)
			return

		default:
			// A poison record blocks the queue rather than looping forever.
			e.log.Error("unclassified failure, halting drain",
				zap.String("client_id", item.ClientID),
				zap.Int("delivered", delivered),
				zap.Error(insertErr),
			)
			e.countHalt(kind)
			e.countDelivered(delivered)
			return
		}
	}

	e.countDelivered(delivered)
	e.log.Info("drain finished", zap.Int("delivered", delivered))
}

func (e *Engine) countHalt(kind remotedomain.Kind) {
	if e.metrics == nil {
		return
	}
	e.metrics.SyncHaltsTotal.WithLabelValues(string(kind)).Inc()
}

func (e *Engine) countDelivered(n int) {
	if e.metrics == nil || n == 0 {
		return
	}
	e.metrics.SyncedLogsTotal.Add(float64(n))
}
