package configstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/wardenlabs/warden/automod/keyword"
)

type MemStore struct {
	mu   sync.RWMutex
	Data map[string]*CommunityConfig
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		Data: make(map[string]*CommunityConfig),
	}
}

func (s *MemStore) Get(ctx context.Context, communityID string) (*CommunityConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.Data[communityID]
	if !ok {
		return nil, nil
	}
	return cfg, nil
}

func (s *MemStore) Set(ctx context.Context, communityID string, cfg *CommunityConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Data[communityID] = cfg
	return nil
}

// Loads a map of communityID -> CommunityConfig from a JSON file, so the
// daemon can run without a database.
func (s *MemStore) LoadFromFileJSON(p string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var configs map[string]*CommunityConfig
	if err := json.Unmarshal(raw, &configs); err != nil {
		return fmt.Errorf("parsing community config JSON: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, cfg := range configs {
		cfg.BannedWords = keyword.NormalizeWordList(cfg.BannedWords)
		s.Data[id] = cfg
	}
	return nil
}
