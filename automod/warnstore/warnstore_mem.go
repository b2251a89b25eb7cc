package warnstore

import (
	"context"
	"sync"
	"time"
)

type MemWarnStore struct {
	mu   sync.Mutex
	Data map[string][]Warning
}

var _ WarnStore = (*MemWarnStore)(nil)

func NewMemWarnStore() *MemWarnStore {
	return &MemWarnStore{
		Data: make(map[string][]Warning),
	}
}

func (s *MemWarnStore) Issue(ctx context.Context, communityID, userID string, w Warning, expiry time.Duration) (int, error) {
	key := ledgerKey(communityID, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Warning, 0, len(s.Data[key])+1)
	for _, existing := range s.Data[key] {
		if existing.Valid(w.CreatedAt, expiry) {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, w)
	s.Data[key] = kept
	return len(kept), nil
}

func (s *MemWarnStore) Clear(ctx context.Context, communityID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Data, ledgerKey(communityID, userID))
	return nil
}
