package domain

import (
	"context"
	"errors"

	"github.com/fieldops/metas/internal/activity"
	"github.com/fieldops/metas/internal/overtime"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
)

// Summary is the periodic performance evaluation for one technician.
type Summary struct {
	CappedPoints    float64 `json:"capped_points"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	BaseGoal        float64 `json:"base_goal"`
	ExtraAdjustment float64 `json:"extra_adjustment"`
	AdjustedGoal    float64 `json:"adjusted_goal"`
	Eligible        bool    `json:"eligible"`
}

// Report is the summary plus the hydrated records it was computed from.
// PrevAnchorISO and NextAnchorISO let a client page through adjacent
// cycles without re-deriving the boundaries.
type Report struct {
	AnchorISO     string              `json:"anchor"`
	PrevAnchorISO string              `json:"prev_anchor"`
	NextAnchorISO string              `json:"next_anchor"`
	Summary       Summary             `json:"summary"`
	Activities    []activity.Activity `json:"activities"`
	Overtime      []overtime.Log      `json:"overtime_logs"`
}

type Service interface {
	Report(ctx context.Context, anchorISO string) (*Report, error)
}

var (
	ErrNotAuthenticated = remotedomain.ErrNotAuthenticated
	ErrInvalidAnchor    = errors.New("invalid_anchor")
)
