package domain

import (
	"context"
	"errors"
	"time"
)

// Store is the remote persistence contract the sync core depends on.
// InsertLog must fail with a duplicate-key condition when a row with the
// same ClientID already exists; KindOf distinguishes that condition from
// connectivity failures.
type Store interface {
	InsertLog(ctx context.Context, record *ServerLog) error
	ListLogs(ctx context.Context, userID string, from, to time.Time) ([]ServerLog, error)
	CurrentPrincipal(ctx context.Context) (*Principal, error)
	Profile(ctx context.Context, principalID string) (*Profile, error)
	RoleGroup(ctx context.Context, id int64) (*RoleGroup, error)
}

var (
	ErrNotAuthenticated = errors.New("not_authenticated")
	ErrInvalidLog       = errors.New("invalid_log")
)
