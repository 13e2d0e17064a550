// Package pending implements the crash-durable queue of log records
// awaiting confirmed remote delivery.
package pending

import (
	"time"

	remotedomain "github.com/fieldops/metas/internal/remote/domain"
	"gorm.io/datatypes"
)

// Log is a record awaiting confirmed remote persistence. ClientID is
// assigned once at creation and never regenerated; it is the sole
// deduplication key between local and remote state.
type Log struct {
	ClientID        string                `json:"client_uuid"`
	Kind            remotedomain.LogKind  `json:"kind"`
	RoleGroupID     *int64                `json:"role_group_id,omitempty"`
	PointsAwarded   float64               `json:"points_awarded"`
	Payload         datatypes.JSON        `json:"payload,omitempty"`
	ClientCreatedAt time.Time             `json:"created_at_client"`
}
