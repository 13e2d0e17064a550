package domain

import "context"

// Engine replays the durable queue against the remote store. It never
// returns an error to the caller: failures are logged and retried on a
// later trigger.
type Engine interface {
	SyncPendingLogs(ctx context.Context)
}

// Probe answers whether the remote store is believed reachable. A drain
// is skipped entirely while offline.
type Probe interface {
	Online(ctx context.Context) bool
}
