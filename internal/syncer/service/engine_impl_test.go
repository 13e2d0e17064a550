package service

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops/metas/internal/config"
	"github.com/fieldops/metas/internal/pending"
	"github.com/fieldops/metas/internal/principalctx"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
	syncerdomain "github.com/fieldops/metas/internal/syncer/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// storeStub fails InsertLog with the error scripted for the record's
// ClientID and records every successful insert.
type storeStub struct {
	insertErrs map[string]error
	attempted  []string
	inserted   []string
}

func (s *storeStub) InsertLog(ctx context.Context, row *remotedomain.ServerLog) error {
	s.attempted = append(s.attempted, row.ClientID)
	if err := s.insertErrs[row.ClientID]; err != nil {
		return err
	}
	s.inserted = append(s.inserted, row.ClientID)
	return nil
}

func (s *storeStub) ListLogs(ctx context.Context, userID string, from, to time.Time) ([]remotedomain.ServerLog, error) {
	return nil, nil
}

func (s *storeStub) CurrentPrincipal(ctx context.Context) (*remotedomain.Principal, error) {
	if userID, ok := principalctx.UserIDFromContext(ctx); ok {
		return &remotedomain.Principal{ID: userID}, nil
	}
	return nil, nil
}

func (s *storeStub) Profile(ctx context.Context, userID string) (*remotedomain.Profile, error) {
	return nil, nil
}

func (s *storeStub) RoleGroup(ctx context.Context, id int64) (*remotedomain.RoleGroup, error) {
	return nil, nil
}

type probeStub struct{ online bool }

func (p probeStub) Online(ctx context.Context) bool { return p.online }

func newTestQueue(t *testing.T, clientIDs ...string) pending.Queue {
	t.Helper()
	store, err := pending.NewBlobStore(config.Config{
		QueuePath: filepath.Join(t.TempDir(), "pending_logs.db"),
	})
	require.NoError(t, err)

	q := pending.NewQueue(store, zap.NewNop())
	for _, clientID := range clientIDs {
		q.Enqueue(pending.Log{
			ClientID:        clientID,
			Kind:            remotedomain.LogKindActivity,
			ClientCreatedAt: time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		})
	}
	return q
}

func newTestEngine(t *testing.T, store remotedomain.Store, queue pending.Queue, probe syncerdomain.Probe) syncerdomain.Engine {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewEngine(EngineParam{
		Log:   zap.NewNop(),
		Store: store,
		Queue: queue,
		GenID: node,
		Probe: probe,
	})
}

func authedCtx() context.Context {
	return principalctx.WithUserID(context.Background(), "tech-1")
}

func remaining(q pending.Queue) []string {
	items := q.Load()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ClientID)
	}
	return ids
}

func TestSyncDrainsQueueInOrder(t *testing.T) {
	store := &storeStub{}
	queue := newTestQueue(t, "a", "b", "c")
	engine := newTestEngine(t, store, queue, probeStub{online: true})

	engine.SyncPendingLogs(authedCtx())

	assert.Equal(t, []string{"a", "b", "c"}, store.inserted)
	assert.Empty(t, queue.Load())
}

func TestSyncHaltsOnConnectivityFailure(t *testing.T) {
	store := &storeStub{insertErrs: map[string]error{
		"b": &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
	}}
	queue := newTestQueue(t, "a", "b", "c")
	engine := newTestEngine(t, store, queue, probeStub{online: true})

	engine.SyncPendingLogs(authedCtx())

	// a delivered, b failed, c never attempted. The failed record stays
	// at the head for the next run.
	assert.Equal(t, []string{"a", "b"}, store.attempted)
	assert.Equal(t, []string{"b", "c"}, remaining(queue))
}

func TestSyncHaltsOnUnclassifiedFailure(t *testing.T) {
	store := &storeStub{insertErrs: map[string]error{
		"a": errors.New("value too long for column"),
	}}
	queue := newTestQueue(t, "a", "b")
	engine := newTestEngine(t, store, queue, probeStub{online: true})

	engine.SyncPendingLogs(authedCtx())

	assert.Equal(t, []string{"a"}, store.attempted)
	assert.Equal(t, []string{"a", "b"}, remaining(queue))
}

func TestSyncTreatsDuplicateAsDelivered(t *testing.T) {
	store := &storeStub{insertErrs: map[string]error{
		"a": gorm.ErrDuplicatedKey,
	}}
	queue := newTestQueue(t, "a", "b")
	engine := newTestEngine(t, store, queue, probeStub{online: true})

	engine.SyncPendingLogs(authedCtx())

	assert.Equal(t, []string{"a", "b"}, store.attempted)
	assert.Empty(t, queue.Load())
}

func TestSyncSkipsWhenOffline(t *testing.T) {
	store := &storeStub{}
	queue := newTestQueue(t, "a")
	engine := newTestEngine(t, store, queue, probeStub{online: false})

	engine.SyncPendingLogs(authedCtx())

	assert.Empty(t, store.attempted)
	assert.Equal(t, []string{"a"}, remaining(queue))
}

func TestSyncSkipsWithoutPrincipal(t *testing.T) {
	store := &storeStub{}
	queue := newTestQueue(t, "a")
	engine := newTestEngine(t, store, queue, probeStub{online: true})

	engine.SyncPendingLogs(context.Background())

	assert.Empty(t, store.attempted)
	assert.Equal(t, []string{"a"}, remaining(queue))
}
