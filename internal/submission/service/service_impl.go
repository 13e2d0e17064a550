package service

import (
	"context"
	"math"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops/metas/internal/cache"
	"github.com/fieldops/metas/internal/clock"
	obsmetrics "github.com/fieldops/metas/internal/observability/metrics"
	"github.com/fieldops/metas/internal/pending"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
	submissiondomain "github.com/fieldops/metas/internal/submission/domain"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ServiceParam struct {
	fx.In

	Log           *zap.Logger
	Store         remotedomain.Store
	Queue         pending.Queue
	Clock         clock.Clock
	GenID         *snowflake.Node
	ResolverCache cache.ProfileResolverCache
	Metrics       *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	log *zap.Logger

	store         remotedomain.Store
	queue         pending.Queue
	clock         clock.Clock
	genID         *snowflake.Node
	resolverCache cache.ProfileResolverCache
	metrics       *obsmetrics.Metrics
}

func NewService(p ServiceParam) submissiondomain.Service {
	return &Service{
		log: p.Log.Named("submission.service"),

		store:         p.Store,
		queue:         p.Queue,
		clock:         p.Clock,
		genID:         p.GenID,
		resolverCache: p.ResolverCache,
		metrics:       p.Metrics,
	}
}

func (s *Service) Submit(
	ctx context.Context,
	req submissiondomain.SubmitRequest,
) (submissiondomain.Result, error) {

	ctx, span := otel.Tracer("metas/submission").Start(ctx, "submission.Submit")
	defer span.End()

	if err := validateSubmit(req); err != nil {
		return submissiondomain.Result{}, err
	}

	principal, err := s.store.CurrentPrincipal(ctx)
	if err != nil {
		return submissiondomain.Result{}, err
	}
	if principal == nil {
		// An unattributable record can never be delivered; this is the
		// one case the caller must handle instead of the queue.
		return submissiondomain.Result{}, submissiondomain.ErrNotAuthenticated
	}

	record := pending.Log{
		ClientID:        uuid.NewString(),
		Kind:            req.Kind,
		RoleGroupID:     req.RoleGroupID,
		PointsAwarded:   req.PointsAwarded,
		Payload:         datatypes.JSON(req.Payload),
		ClientCreatedAt: s.clock.Now(),
	}
	if record.RoleGroupID == nil {
		record.RoleGroupID = s.resolveRoleGroup(ctx, principal.ID)
	}

	insertErr := s.store.InsertLog(ctx, record.ToServerLog(s.genID.Generate(), principal.ID))
	kind := remotedomain.KindOf(insertErr)
	span.SetAttributes(attribute.String("outcome", string(kind)))

	switch kind {
	case remotedomain.KindNone:
		s.countSubmission(submissiondomain.StatusSent)
		return submissiondomain.Result{Status: submissiondomain.StatusSent, ClientID: record.ClientID}, nil

	case remotedomain.KindDuplicateKey:
		// Already delivered; re-queueing would double it.
		s.countSubmission(submissiondomain.StatusSent)
		return submissiondomain.Result{Status: submissiondomain.StatusSent, ClientID: record.ClientID}, nil

	case remotedomain.KindConnectivity:
		s.log.Warn("remote unreachable, queueing log",
			zap.String("client_id", record.ClientID),
			zap.Error(insertErr),
		)
		s.queue.Enqueue(record)
		s.countSubmission(submissiondomain.StatusQueued)
		return submissiondomain.Result{Status: submissiondomain.StatusQueued, ClientID: record.ClientID}, nil

	default:
		// Fail open: an unclassified failure still queues rather than
		// dropping user data.
		s.log.Error("unclassified submit failure, queueing log",
			zap.String("client_id", record.ClientID),
			zap.Error(insertErr),
		)
		s.queue.Enqueue(record)
		s.countSubmission(submissiondomain.StatusQueued)
		return submissiondomain.Result{Status: submissiondomain.StatusQueued, ClientID: record.ClientID}, nil
	}
}

// resolveRoleGroup backfills the role group from the technician's
// profile. Best effort: an unreachable or missing profile leaves the
// field empty.
func (s *Service) resolveRoleGroup(ctx context.Context, principalID string) *int64 {
	if s.resolverCache != nil {
		if cached, ok := s.resolverCache.GetProfile(principalID); ok {
			return cached.RoleGroupID
		}
	}
	profile, err := s.store.Profile(ctx, principalID)
	if err != nil || profile == nil {
		return nil
	}
	if s.resolverCache != nil {
		s.resolverCache.SetProfile(principalID, profile)
	}
	return profile.RoleGroupID
}

func (s *Service) countSubmission(status submissiondomain.Status) {
	if s.metrics == nil {
		return
	}
	s.metrics.SubmissionsTotal.WithLabelValues(string(status)).Inc()
}

func validateSubmit(req submissiondomain.SubmitRequest) error {
	switch req.Kind {
	case remotedomain.LogKindActivity, remotedomain.LogKindOvertime:
	default:
		return submissiondomain.ErrInvalidKind
	}
	if req.PointsAwarded < 0 || math.IsNaN(req.PointsAwarded) || math.IsInf(req.PointsAwarded, 0) {
		return submissiondomain.ErrInvalidPoints
	}
	return nil
}
