package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpamDetection(t *testing.T) {
	assert := assert.New(t)
	ua := &UserActivity{}
	ua.Lock()
	defer ua.Unlock()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// identical (content, channel) five times in a row: the fifth triggers
	for i := 0; i < 4; i++ {
		assert.False(ua.RecordAndCheckSpam("buy my stuff", "chan-1", now.Add(time.Duration(i)*time.Second), 5))
	}
	assert.True(ua.RecordAndCheckSpam("buy my stuff", "chan-1", now.Add(4*time.Second), 5))
}

func TestSpamDifferentChannelDoesNotTrigger(t *testing.T) {
	assert := assert.New(t)
	ua := &UserActivity{}
	ua.Lock()
	defer ua.Unlock()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		assert.False(ua.RecordAndCheckSpam("buy my stuff", "chan-1", now, 5))
	}
	// same content to a different channel breaks the run
	assert.False(ua.RecordAndCheckSpam("buy my stuff", "chan-2", now, 5))
}

func TestSpamVariedContentDoesNotTrigger(t *testing.T) {
	assert := assert.New(t)
	ua := &UserActivity{}
	ua.Lock()
	defer ua.Unlock()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.False(ua.RecordAndCheckSpam("one", "chan-1", now, 5))
	assert.False(ua.RecordAndCheckSpam("two", "chan-1", now, 5))
	assert.False(ua.RecordAndCheckSpam("two", "chan-1", now, 5))
	assert.False(ua.RecordAndCheckSpam("two", "chan-1", now, 5))
	assert.False(ua.RecordAndCheckSpam("two", "chan-1", now, 5))
}

func TestRecentRingBufferBounded(t *testing.T) {
	assert := assert.New(t)
	ua := &UserActivity{}
	ua.Lock()
	defer ua.Unlock()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		ua.RecordAndCheckSpam("same", "chan-1", now, 0)
	}
	assert.Len(ua.recent, RecentCapacity)
	assert.Equal(RecentCapacity, ua.RecentRun("same", "chan-1"))
	assert.Equal(0, ua.RecentRun("same", "chan-2"))
}

func TestFloodDetection(t *testing.T) {
	assert := assert.New(t)
	ua := &UserActivity{}
	ua.Lock()
	defer ua.Unlock()

	window := 5 * time.Second
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// 5 messages within 4 seconds: the fifth triggers
	for i := 0; i < 4; i++ {
		assert.False(ua.RecordAndCheckFlood(base.Add(time.Duration(i)*time.Second), window, 5))
	}
	assert.True(ua.RecordAndCheckFlood(base.Add(4*time.Second), window, 5))

	// the list resets after a declaration: the next message starts over
	assert.False(ua.RecordAndCheckFlood(base.Add(4*time.Second+time.Millisecond), window, 5))
}

func TestFloodExactWindowBoundary(t *testing.T) {
	assert := assert.New(t)
	ua := &UserActivity{}
	ua.Lock()
	defer ua.Unlock()

	window := 5 * time.Second
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// an event exactly window-old is still inside the window, so the first
	// message at base counts toward the fifth at base+5s
	assert.False(ua.RecordAndCheckFlood(base, window, 5))
	for i := 1; i <= 3; i++ {
		assert.False(ua.RecordAndCheckFlood(base.Add(time.Duration(i)*time.Second), window, 5))
	}
	assert.True(ua.RecordAndCheckFlood(base.Add(5*time.Second), window, 5))
}

func TestFloodSpacedOutNeverTriggers(t *testing.T) {
	assert := assert.New(t)
	ua := &UserActivity{}
	ua.Lock()
	defer ua.Unlock()

	window := 5 * time.Second
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	// 1.5s spacing means at most 4 messages ever share the 5s window
	for i := 0; i < 20; i++ {
		ts := base.Add(time.Duration(i) * 1500 * time.Millisecond)
		assert.False(ua.RecordAndCheckFlood(ts, window, 5), "message %d", i)
	}
}

func TestStoreGetAndEviction(t *testing.T) {
	assert := assert.New(t)
	s := NewStore(nil)

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	a := s.Get("c1", "u1")
	b := s.Get("c1", "u1")
	assert.Same(a, b)
	assert.NotSame(a, s.Get("c1", "u2"))
	assert.NotSame(a, s.Get("c2", "u1"))
	assert.Equal(3, s.Size())

	a.Lock()
	a.Touch(now)
	a.Unlock()

	// u1 was touched recently, the others not at all; nothing is idle yet
	assert.Equal(0, s.evictIdle(now.Add(time.Hour)))

	// past the idle bound the touched entry goes; never-touched entries are
	// left for the engine to touch on their first evaluated message
	evicted := s.evictIdle(now.Add(DefaultMaxIdle + time.Hour))
	assert.Equal(1, evicted)
	assert.Equal(2, s.Size())
}
