package memory

import (
	"time"

	"ai-chat-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// UserCache keeps resolved users by email. Users are never updated or
// deleted once created, so a cached entry can only go stale by expiring.
// Misses are never cached: an unknown email may be registered later.
type UserCache struct {
	cache *cache.Cache
}

func NewUserCache(ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &UserCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *UserCache) Save(user *entity.User) {
	if r == nil || user == nil {
		return
	}
	cp := *user
	r.cache.Set(user.Email, &cp, cache.DefaultExpiration)
}

func (r *UserCache) Get(email string) (*entity.User, bool) {
	if r == nil {
		return nil, false
	}
	if x, found := r.cache.Get(email); found {
		cp := *x.(*entity.User)
		return &cp, true
	}
	return nil, false
}

func (r *UserCache) Delete(email string) {
	if r == nil {
		return
	}
	r.cache.Delete(email)
}
