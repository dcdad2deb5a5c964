package session

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Store keeps active sessions in memory only. Sessions expire after an hour
// of inactivity and are never persisted to durable storage.
type Store struct {
	cache *cache.Cache
}

func NewStore() *Store {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	return NewStoreTTL(1*time.Hour, 10*time.Minute)
}

// NewStoreTTL creates a store with explicit expiry and purge intervals.
func NewStoreTTL(expiry, purge time.Duration) *Store {
	return &Store{
		cache: cache.New(expiry, purge),
	}
}

// OnEvicted registers a hook that fires when a session leaves the store,
// whether by TTL expiry or explicit delete. Owners of per-session resources
// (the speech controller) release them here.
func (r *Store) OnEvicted(fn func(sessionId string, s *Session)) {
	r.cache.OnEvicted(func(key string, value interface{}) {
		if s, ok := value.(*Session); ok {
			fn(key, s)
		}
	})
}

// Save stores the session and refreshes its expiry.
func (r *Store) Save(s *Session) {
	r.cache.Set(s.Id, s, cache.DefaultExpiration)
}

// Get looks up a session by id.
func (r *Store) Get(sessionId string) (*Session, bool) {
	if x, found := r.cache.Get(sessionId); found {
		return x.(*Session), true
	}
	return nil, false
}

// Touch refreshes a session's expiry without replacing it.
func (r *Store) Touch(sessionId string) {
	if s, found := r.Get(sessionId); found {
		r.Save(s)
	}
}

// Delete drops the session immediately.
func (r *Store) Delete(sessionId string) {
	r.cache.Delete(sessionId)
}
