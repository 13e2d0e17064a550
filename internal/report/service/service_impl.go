package service

import (
	"context"
	"encoding/json"
	"math"

	"github.com/fieldops/metas/internal/activity"
	"github.com/fieldops/metas/internal/cache"
	"github.com/fieldops/metas/internal/overtime"
	reportdomain "github.com/fieldops/metas/internal/report/domain"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DailyPointCap bounds how many points a single calendar date may
// contribute to the period total.
const DailyPointCap = 15

// DefaultGoal applies when no role group can be resolved.
const DefaultGoal = 85

// Overtime beyond this many hours earns goal adjustments.
const overtimeThresholdHours = 20

type ServiceParam struct {
	fx.In

	Log           *zap.Logger
	Store         remotedomain.Store
	ResolverCache cache.ProfileResolverCache
}

type Service struct {
	log *zap.Logger

	store         remotedomain.Store
	resolverCache cache.ProfileResolverCache
}

func NewService(p ServiceParam) reportdomain.Service {
	return &Service{
		log: p.Log.Named("report.service"),

		store:         p.Store,
		resolverCache: p.ResolverCache,
	}
}

func (s *Service) Report(ctx context.Context, anchorISO string) (*reportdomain.Report, error) {
	period, err := reportdomain.PeriodFromAnchor(anchorISO)
	if err != nil {
		return nil, reportdomain.ErrInvalidAnchor
	}

	principal, err := s.store.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if principal == nil {
		return nil, reportdomain.ErrNotAuthenticated
	}

	rows, err := s.store.ListLogs(ctx, principal.ID, period.Start, period.End)
	if err != nil {
		return nil, err
	}

	activities, overtimeLogs := splitLogs(rows, s.log)

	// Rows are fetched by server timestamp; the evaluation itself is over
	// the record's own calendar date.
	activities = filterActivities(activities, period)
	overtimeLogs = filterOvertime(overtimeLogs, period)

	// Anchor already validated above, so the shifts cannot fail.
	prevAnchor, _ := reportdomain.ShiftAnchor(anchorISO, -1)
	nextAnchor, _ := reportdomain.ShiftAnchor(anchorISO, +1)

	summary := Summarize(activities, overtimeLogs, s.resolveGoal(ctx, principal.ID))
	return &reportdomain.Report{
		AnchorISO:     anchorISO,
		PrevAnchorISO: prevAnchor,
		NextAnchorISO: nextAnchor,
		Summary:       summary,
		Activities:    activities,
		Overtime:      overtimeLogs,
	}, nil
}

// Summarize computes the period evaluation from hydrated records.
func Summarize(activities []activity.Activity, overtimeLogs []overtime.Log, baseGoal float64) reportdomain.Summary {
	capped := CapDailyPoints(activities)
	minutes := OvertimeMinutes(overtimeLogs)

	hours := float64(minutes) / 60
	extra := math.Max(0, math.Floor((hours-overtimeThresholdHours)/2))
	adjusted := baseGoal + extra

	return reportdomain.Summary{
		CappedPoints:    capped,
		OvertimeMinutes: minutes,
		BaseGoal:        baseGoal,
		ExtraAdjustment: extra,
		AdjustedGoal:    adjusted,
		Eligible:        capped >= adjusted,
	}
}

// CapDailyPoints sums activity points with each calendar date capped
// independently before dates are summed.
func CapDailyPoints(activities []activity.Activity) float64 {
	byDay := make(map[string]float64)
	for _, a := range activities {
		byDay[a.DateISO] += a.Points
	}
	var total float64
	for _, sum := range byDay {
		total += math.Min(DailyPointCap, sum)
	}
	return total
}

// OvertimeMinutes totals completed intervals. Only END events are
// counted; paired STARTs carry the same duration redundantly and would
// double the total.
func OvertimeMinutes(logs []overtime.Log) int {
	total := 0
	for _, l := range logs {
		if l.Type == overtime.TypeEnd && l.DurationMinutes != nil {
			total += *l.DurationMinutes
		}
	}
	return total
}

func (s *Service) resolveGoal(ctx context.Context, principalID string) float64 {
	var roleGroupID *int64
	if cached, ok := s.resolverCache.GetProfile(principalID); ok {
		roleGroupID = cached.RoleGroupID
	} else if profile, err := s.store.Profile(ctx, principalID); err == nil && profile != nil {
		s.resolverCache.SetProfile(principalID, profile)
		roleGroupID = profile.RoleGroupID
	}
	if roleGroupID == nil {
		return DefaultGoal
	}

	if cached, ok := s.resolverCache.GetRoleGroup(*roleGroupID); ok {
		return cached.Goal
	}
	group, err := s.store.RoleGroup(ctx, *roleGroupID)
	if err != nil || group == nil {
		return DefaultGoal
	}
	s.resolverCache.SetRoleGroup(*roleGroupID, group)
	return group.Goal
}

func filterActivities(items []activity.Activity, period reportdomain.Period) []activity.Activity {
	kept := items[:0]
	for _, a := range items {
		if period.Contains(a.DateISO) {
			kept = append(kept, a)
		}
	}
	return kept
}

func filterOvertime(items []overtime.Log, period reportdomain.Period) []overtime.Log {
	kept := items[:0]
	for _, l := range items {
		if period.Contains(l.DateISO) {
			kept = append(kept, l)
		}
	}
	return kept
}

// splitLogs decodes remote rows back into session records by kind.
// Undecodable payloads are skipped, not fatal.
func splitLogs(rows []remotedomain.ServerLog, log *zap.Logger) ([]activity.Activity, []overtime.Log) {
	var activities []activity.Activity
	var overtimeLogs []overtime.Log
	for _, row := range rows {
		switch row.Kind {
		case remotedomain.LogKindActivity:
			var a activity.Activity
			if err := json.Unmarshal(row.Payload, &a); err != nil {
				log.Warn("skip undecodable activity payload", zap.String("client_id", row.ClientID), zap.Error(err))
				continue
			}
			activities = append(activities, a)
		case remotedomain.LogKindOvertime:
			var o overtime.Log
			if err := json.Unmarshal(row.Payload, &o); err != nil {
				log.Warn("skip undecodable overtime payload", zap.String("client_id", row.ClientID), zap.Error(err))
				continue
			}
			overtimeLogs = append(overtimeLogs, o)
		}
	}
	return activities, overtimeLogs
}
