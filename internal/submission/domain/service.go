package domain

import (
	"context"
	"encoding/json"
	"errors"

	remotedomain "github.com/fieldops/metas/internal/remote/domain"
)

// Status is the definitive outcome a caller sees: the record either
// reached the remote store or is durably queued. There is no third state.
type Status string

const (
	StatusSent   Status = "SENT"
	StatusQueued Status = "QUEUED"
)

type SubmitRequest struct {
	Kind          remotedomain.LogKind `json:"kind"`
	PointsAwarded float64              `json:"points_awarded"`
	Payload       json.RawMessage      `json:"payload,omitempty"`
	RoleGroupID   *int64               `json:"role_group_id,omitempty"`
}

type Result struct {
	Status   Status `json:"status"`
	ClientID string `json:"client_uuid"`
}

// Service attempts synchronous delivery of one new log and falls back to
// the durable queue on failure. The only error a caller ever sees is
// ErrNotAuthenticated (and request validation); everything else resolves
// to a SENT or QUEUED result.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (Result, error)
}

var (
	ErrNotAuthenticated = remotedomain.ErrNotAuthenticated
	ErrInvalidKind      = errors.New("invalid_log_kind")
	ErrInvalidPoints    = errors.New("invalid_points")
)
