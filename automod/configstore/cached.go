package configstore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CachedStore wraps another Store with a TTL'd LRU, so the hot path doesn't
// hit the backing store once per message. Invalidate is the hook for external
// config updates.
type CachedStore struct {
	Inner Store
	Data  *expirable.LRU[string, *CommunityConfig]
}

var _ Store = (*CachedStore)(nil)

func NewCachedStore(inner Store, capacity int, ttl time.Duration) *CachedStore {
	return &CachedStore{
		Inner: inner,
		Data:  expirable.NewLRU[string, *CommunityConfig](capacity, nil, ttl),
	}
}

func (s *CachedStore) Get(ctx context.Context, communityID string) (*CommunityConfig, error) {
	if cfg, ok := s.Data.Get(communityID); ok {
		return cfg, nil
	}
	cfg, err := s.Inner.Get(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		s.Data.Add(communityID, cfg)
	}
	return cfg, nil
}

func (s *CachedStore) Invalidate(communityID string) {
	s.Data.Remove(communityID)
}
