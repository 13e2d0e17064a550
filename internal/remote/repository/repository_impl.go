package repository

import (
	"context"
	"strings"
	"time"

	"github.com/fieldops/metas/internal/principalctx"
	"github.com/fieldops/metas/internal/remote/domain"
	"github.com/fieldops/metas/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StoreParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type store struct {
	db  *gorm.DB
	log *zap.Logger

	profiles   repository.Repository[domain.Profile]
	roleGroups repository.Repository[domain.RoleGroup]
}

// Provide builds the gorm-backed remote store.
func Provide(p StoreParam) domain.Store {
	return &store{
		db:  p.DB,
		log: p.Log.Named("remote.store"),

		profiles:   repository.ProvideStore[domain.Profile](p.DB),
		roleGroups: repository.ProvideStore[domain.RoleGroup](p.DB),
	}
}

func (s *store) InsertLog(ctx context.Context, record *domain.ServerLog) error {
	if record == nil || strings.TrimSpace(record.ClientID) == "" || record.UserID == "" {
		return domain.ErrInvalidLog
	}
	return s.db.WithContext(ctx).Create(record).Error
}

func (s *store) ListLogs(ctx context.Context, userID string, from, to time.Time) ([]domain.ServerLog, error) {
	var records []domain.ServerLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, from, to).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// CurrentPrincipal resolves the signed-in identity from the context. It
// never touches the network, so it also works while the device is offline.
func (s *store) CurrentPrincipal(ctx context.Context) (*domain.Principal, error) {
	userID, ok := principalctx.UserIDFromContext(ctx)
	if !ok {
		return nil, nil
	}
	return &domain.Principal{ID: userID}, nil
}

func (s *store) Profile(ctx context.Context, principalID string) (*domain.Profile, error) {
	if strings.TrimSpace(principalID) == "" {
		return nil, nil
	}
	return s.profiles.FindOne(ctx, &domain.Profile{ID: principalID})
}

func (s *store) RoleGroup(ctx context.Context, id int64) (*domain.RoleGroup, error) {
	if id == 0 {
		return nil, nil
	}
	return s.roleGroups.FindOne(ctx, &domain.RoleGroup{ID: id})
}
