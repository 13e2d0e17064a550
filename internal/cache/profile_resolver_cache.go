package cache

import (
	"time"

	remotedomain "github.com/fieldops/metas/internal/remote/domain"
)

const (
	defaultProfileTTL   = 10 * time.Minute
	defaultRoleGroupTTL = 30 * time.Minute
)

// ProfileResolverCache stores hot-path lookups used to backfill the
// role group on submitted logs.
type ProfileResolverCache interface {
	GetProfile(principalID string) (*remotedomain.Profile, bool)
	SetProfile(principalID string, profile *remotedomain.Profile)
	GetRoleGroup(id int64) (*remotedomain.RoleGroup, bool)
	SetRoleGroup(id int64, group *remotedomain.RoleGroup)
}

type profileResolverCache struct {
	profiles   Cache[string, *remotedomain.Profile]
	roleGroups Cache[int64, *remotedomain.RoleGroup]

	profileTTL   time.Duration
	roleGroupTTL time.Duration
}

// NewProfileResolverCache returns an in-memory cache tuned for submission.
func NewProfileResolverCache() ProfileResolverCache {
	return &profileResolverCache{
		profiles:     NewTTLCache[string, *remotedomain.Profile](),
		roleGroups:   NewTTLCache[int64, *remotedomain.RoleGroup](),
		profileTTL:   defaultProfileTTL,
		roleGroupTTL: defaultRoleGroupTTL,
	}
}

func (c *profileResolverCache) GetProfile(principalID string) (*remotedomain.Profile, bool) {
	return c.profiles.Get(principalID)
}

func (c *profileResolverCache) SetProfile(principalID string, profile *remotedomain.Profile) {
	if profile == nil {
		return
	}
	c.profiles.Set(principalID, profile, c.profileTTL)
}

func (c *profileResolverCache) GetRoleGroup(id int64) (*remotedomain.RoleGroup, bool) {
	return c.roleGroups.Get(id)
}

func (c *profileResolverCache) SetRoleGroup(id int64, group *remotedomain.RoleGroup) {
	if group == nil {
		return
	}
	c.roleGroups.Set(id, group, c.roleGroupTTL)
}
