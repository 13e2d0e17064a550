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
	"github.com/fieldops/metas/internal/cache"
	"github.com/fieldops/metas/internal/clock"
	"github.com/fieldops/metas/internal/config"
	"github.com/fieldops/metas/internal/pending"
	"github.com/fieldops/metas/internal/principalctx"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
	submissiondomain "github.com/fieldops/metas/internal/submission/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type storeStub struct {
	insertErr error
	inserted  []*remotedomain.ServerLog
	profile   *remotedomain.Profile
}

func (s *storeStub) InsertLog(ctx context.Context, row *remotedomain.ServerLog) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, row)
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
	return s.profile, nil
}

func (s *storeStub) RoleGroup(ctx context.Context, id int64) (*remotedomain.RoleGroup, error) {
	return nil, nil
}

func newTestQueue(t *testing.T) pending.Queue {
	t.Helper()
	store, err := pending.NewBlobStore(config.Config{
		QueuePath: filepath.Join(t.TempDir(), "pending_logs.db"),
	})
	require.NoError(t, err)
	return pending.NewQueue(store, zap.NewNop())
}

func newTestService(t *testing.T, store remotedomain.Store, queue pending.Queue) submissiondomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParam{
		Log:           zap.NewNop(),
		Store:         store,
		Queue:         queue,
		Clock:         clock.NewFakeClock(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)),
		GenID:         node,
		ResolverCache: cache.NewProfileResolverCache(),
	})
}

func authedCtx() context.Context {
	return principalctx.WithUserID(context.Background(), "tech-1")
}

func TestSubmitSent(t *testing.T) {
	store := &storeStub{}
	queue := newTestQueue(t)
	svc := newTestService(t, store, queue)

	result, err := svc.Submit(authedCtx(), submissiondomain.SubmitRequest{
		Kind:          remotedomain.LogKindActivity,
		PointsAwarded: 1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, submissiondomain.StatusSent, result.Status)
	assert.NotEmpty(t, result.ClientID)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "tech-1", store.inserted[0].UserID)
	assert.Equal(t, result.ClientID, store.inserted[0].ClientID)
	assert.Empty(t, queue.Load())
}

func TestSubmitDuplicateResolvesSent(t *testing.T) {
	store := &storeStub{insertErr: gorm.ErrDuplicatedKey}
	queue := newTestQueue(t)
	svc := newTestService(t, store, queue)

	result, err := svc.Submit(authedCtx(), submissiondomain.SubmitRequest{
		Kind: remotedomain.LogKindOvertime,
	})
	require.NoError(t, err)
	assert.Equal(t, submissiondomain.StatusSent, result.Status)
	assert.Empty(t, queue.Load())
}

func TestSubmitConnectivityFailureQueues(t *testing.T) {
	store := &storeStub{insertErr: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}}
	queue := newTestQueue(t)
	svc := newTestService(t, store, queue)

	result, err := svc.Submit(authedCtx(), submissiondomain.SubmitRequest{
		Kind:          remotedomain.LogKindActivity,
		PointsAwarded: 0.6,
	})
	require.NoError(t, err)
	assert.Equal(t, submissiondomain.StatusQueued, result.Status)

	items := queue.Load()
	require.Len(t, items, 1)
	assert.Equal(t, result.ClientID, items[0].ClientID)
	assert.Equal(t, 0.6, items[0].PointsAwarded)
}

func TestSubmitUnclassifiedFailureQueues(t *testing.T) {
	store := &storeStub{insertErr: errors.New("value too long for column")}
	queue := newTestQueue(t)
	svc := newTestService(t, store, queue)

	result, err := svc.Submit(authedCtx(), submissiondomain.SubmitRequest{
		Kind: remotedomain.LogKindActivity,
	})
	require.NoError(t, err)
	assert.Equal(t, submissiondomain.StatusQueued, result.Status)
	assert.Len(t, queue.Load(), 1)
}

func TestSubmitWithoutPrincipal(t *testing.T) {
	store := &storeStub{}
	queue := newTestQueue(t)
	svc := newTestService(t, store, queue)

	_, err := svc.Submit(context.Background(), submissiondomain.SubmitRequest{
		Kind: remotedomain.LogKindActivity,
	})
	require.ErrorIs(t, err, submissiondomain.ErrNotAuthenticated)
	assert.Empty(t, store.inserted)
	assert.Empty(t, queue.Load())
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(t, &storeStub{}, newTestQueue(t))

	_, err := svc.Submit(authedCtx(), submissiondomain.SubmitRequest{Kind: "BOGUS"})
	assert.ErrorIs(t, err, submissiondomain.ErrInvalidKind)

	_, err = svc.Submit(authedCtx(), submissiondomain.SubmitRequest{
		Kind:          remotedomain.LogKindActivity,
		PointsAwarded: -1,
	})
	assert.ErrorIs(t, err, submissiondomain.ErrInvalidPoints)
}

func TestSubmitBackfillsRoleGroup(t *testing.T) {
	roleGroupID := int64(2)
	store := &storeStub{profile: &remotedomain.Profile{ID: "tech-1", RoleGroupID: &roleGroupID}}
	queue := newTestQueue(t)
	svc := newTestService(t, store, queue)

	_, err := svc.Submit(authedCtx(), submissiondomain.SubmitRequest{
		Kind: remotedomain.LogKindActivity,
	})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	require.NotNil(t, store.inserted[0].RoleGroupID)
	assert.Equal(t, roleGroupID, *store.inserted[0].RoleGroupID)
}
