package pending

import (
	"github.com/bwmarrin/snowflake"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
)

// ToServerLog shapes a pending record for remote insertion, attributed
// to the given user. CreatedAt is left for the store to assign.
func (l Log) ToServerLog(id snowflake.ID, userID string) *remotedomain.ServerLog {
	return &remotedomain.ServerLog{
		ID:            id,
		UserID:        userID,
		ClientID:      l.ClientID,
		Kind:          l.Kind,
		RoleGroupID:   l.RoleGroupID,
		PointsAwarded: l.PointsAwarded,
		Payload:       l.Payload,
	}
}
