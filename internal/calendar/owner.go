package calendar

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type OwnerStore interface {
	// FindCalendarOwner returns nil, nil when no admin has sync enabled.
	FindCalendarOwner(ctx context.Context) (*models.User, error)
}

const ownerKey = "calendar_owner"

// CachedOwners memoises the owner lookup; every transition and job item
// would otherwise hit the users table.
type CachedOwners struct {
	store OwnerStore
	cache *cache.Cache
}

func NewCachedOwners(store OwnerStore, ttl time.Duration) *CachedOwners {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedOwners{
		store: store,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedOwners) CalendarOwner(ctx context.Context) (*models.User, error) {
	if v, ok := c.cache.Get(ownerKey); ok {
		return v.(*models.User), nil
	}

	owner, err := c.store.FindCalendarOwner(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(ownerKey, owner)
	return owner, nil
}

func (c *CachedOwners) Invalidate() {
	c.cache.Delete(ownerKey)
}

var _ OwnerSource = (*CachedOwners)(nil)
