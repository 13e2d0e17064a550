package repository

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops/metas/internal/principalctx"
	"github.com/fieldops/metas/internal/remote/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupStore(t *testing.T) (domain.Store, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.RoleGroup{}, &domain.Profile{}, &domain.ServerLog{}))

	return Provide(StoreParam{DB: conn, Log: zap.NewNop()}), conn
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func TestInsertLogDuplicateClientID(t *testing.T) {
	store, _ := setupStore(t)
	node := mustNode(t)
	ctx := context.Background()

	first := &domain.ServerLog{
		ID:       node.Generate(),
		UserID:   "tech-1",
		ClientID: "client-a",
		Kind:     domain.LogKindActivity,
	}
	require.NoError(t, store.InsertLog(ctx, first))

	// Same idempotency key, different row id: must be rejected as a
	// duplicate, and classified as such.
	second := &domain.ServerLog{
		ID:       node.Generate(),
		UserID:   "tech-1",
		ClientID: "client-a",
		Kind:     domain.LogKindActivity,
	}
	err := store.InsertLog(ctx, second)
	require.Error(t, err)
	assert.Equal(t, domain.KindDuplicateKey, domain.KindOf(err))

	logs, err := store.ListLogs(ctx, "tech-1",
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestListLogsRangeAndOrder(t *testing.T) {
	store, conn := setupStore(t)
	node := mustNode(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	for i, clientID := range []string{"old", "mid", "new"} {
		row := &domain.ServerLog{
			ID:        node.Generate(),
			UserID:    "tech-1",
			ClientID:  clientID,
			Kind:      domain.LogKindActivity,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, conn.Create(row).Error)
	}
	// Outside the range.
	require.NoError(t, conn.Create(&domain.ServerLog{
		ID:        node.Generate(),
		UserID:    "tech-1",
		ClientID:  "ancient",
		Kind:      domain.LogKindActivity,
		CreatedAt: base.AddDate(0, -2, 0),
	}).Error)
	// Another user.
	require.NoError(t, conn.Create(&domain.ServerLog{
		ID:        node.Generate(),
		UserID:    "tech-2",
		ClientID:  "other",
		Kind:      domain.LogKindActivity,
		CreatedAt: base,
	}).Error)

	logs, err := store.ListLogs(ctx, "tech-1", base.Add(-time.Hour), base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "new", logs[0].ClientID)
	assert.Equal(t, "old", logs[2].ClientID)
}

func TestCurrentPrincipalFromContext(t *testing.T) {
	store, _ := setupStore(t)

	principal, err := store.CurrentPrincipal(context.Background())
	require.NoError(t, err)
	assert.Nil(t, principal)

	ctx := principalctx.WithUserID(context.Background(), "tech-1")
	principal, err = store.CurrentPrincipal(ctx)
	require.NoError(t, err)
	require.NotNil(t, principal)
	assert.Equal(t, "tech-1", principal.ID)
}

func TestProfileAndRoleGroupLookup(t *testing.T) {
	store, conn := setupStore(t)
	ctx := context.Background()

	roleGroupID := int64(2)
	require.NoError(t, conn.Create(&domain.RoleGroup{ID: roleGroupID, Name: "TECNICO_MANUTENCAO", Goal: 70}).Error)
	require.NoError(t, conn.Create(&domain.Profile{ID: "tech-1", Name: "Ana", RoleGroupID: &roleGroupID}).Error)

	profile, err := store.Profile(ctx, "tech-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.NotNil(t, profile.RoleGroupID)
	assert.Equal(t, roleGroupID, *profile.RoleGroupID)

	group, err := store.RoleGroup(ctx, roleGroupID)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, float64(70), group.Goal)

	missing, err := store.Profile(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
