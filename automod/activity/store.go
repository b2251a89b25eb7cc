package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

const (
	// entries untouched for this long are evicted
	DefaultMaxIdle = 24 * time.Hour
	// how often the reaper sweeps
	DefaultSweepInterval = 10 * time.Minute
)

// Store holds UserActivity entries keyed by (communityID, userID). The
// backing map is sharded and safe for concurrent use; per-entry mutual
// exclusion is the entry's own lock. A background reaper bounds memory by
// evicting idle entries.
type Store struct {
	Logger *slog.Logger

	entries       *xsync.MapOf[string, *UserActivity]
	maxIdle       time.Duration
	sweepInterval time.Duration
}

func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		Logger:        logger,
		entries:       xsync.NewMapOf[string, *UserActivity](),
		maxIdle:       DefaultMaxIdle,
		sweepInterval: DefaultSweepInterval,
	}
}

func activityKey(communityID, userID string) string {
	return communityID + "/" + userID
}

// Get returns the tracker for a (community, user) pair, creating it on first
// use. The caller locks the returned entry before using it.
func (s *Store) Get(communityID, userID string) *UserActivity {
	ua, _ := s.entries.LoadOrCompute(activityKey(communityID, userID), func() *UserActivity {
		return &UserActivity{}
	})
	return ua
}

func (s *Store) Size() int {
	return s.entries.Size()
}

// RunReaper sweeps for idle entries until the context is cancelled.
func (s *Store) RunReaper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted := s.evictIdle(time.Now())
			if evicted > 0 {
				s.Logger.Debug("evicted idle user activity", "count", evicted, "remaining", s.Size())
			}
		}
	}
}

func (s *Store) evictIdle(now time.Time) int {
	evicted := 0
	s.entries.Range(func(key string, ua *UserActivity) bool {
		ua.Lock()
		// zero lastSeen means the entry was created but not yet touched;
		// leave it for the next sweep
		idle := !ua.lastSeen.IsZero() && now.Sub(ua.lastSeen) > s.maxIdle
		ua.Unlock()
		if idle {
			s.entries.Delete(key)
			evicted++
		}
		return true
	})
	return evicted
}
