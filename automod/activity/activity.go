package activity

import (
	"sync"
	"time"
)

// ring buffer capacity for recent message samples
const RecentCapacity = 10

// One recorded message, as much of it as spam detection needs.
type MessageSample struct {
	Content   string
	ChannelID string
	Time      time.Time
}

// UserActivity is the in-memory tracker state for one (community, user) pair:
// a bounded ring of recent messages for spam detection, and a rolling list of
// event timestamps for flood detection.
//
// Callers must hold the lock (Lock/Unlock) across any sequence of tracker
// calls for one message, so evaluations for the same user never interleave.
type UserActivity struct {
	mu sync.Mutex

	recent   []MessageSample
	events   []time.Time
	lastSeen time.Time
}

func (ua *UserActivity) Lock()   { ua.mu.Lock() }
func (ua *UserActivity) Unlock() { ua.mu.Unlock() }

// Touch records that the user was active; the store's reaper uses this to
// evict idle entries. Lock must be held.
func (ua *UserActivity) Touch(now time.Time) {
	if now.After(ua.lastSeen) {
		ua.lastSeen = now
	}
}

// RecordAndCheckSpam appends a sample to the ring buffer and reports whether
// the message is part of a spam run: the runLength-1 most recent samples
// recorded *before* this one all carry identical content and channel. With
// fewer prior samples than that, spam is never declared. Lock must be held.
func (ua *UserActivity) RecordAndCheckSpam(content, channelID string, now time.Time, runLength int) bool {
	prior := runLength - 1
	isSpam := prior > 0 && len(ua.recent) >= prior
	if isSpam {
		for _, s := range ua.recent[len(ua.recent)-prior:] {
			if s.Content != content || s.ChannelID != channelID {
				isSpam = false
				break
			}
		}
	}

	ua.recent = append(ua.recent, MessageSample{Content: content, ChannelID: channelID, Time: now})
	if len(ua.recent) > RecentCapacity {
		ua.recent = ua.recent[len(ua.recent)-RecentCapacity:]
	}
	return isSpam
}

// RecordAndCheckFlood appends the event time, prunes timestamps that fell out
// of the rolling window, and reports whether the count reached the flood
// threshold. On a positive declaration the timestamp list is reset, so one
// burst doesn't re-trigger on every following message. Lock must be held.
func (ua *UserActivity) RecordAndCheckFlood(now time.Time, window time.Duration, threshold int) bool {
	ua.events = append(ua.events, now)

	// only timestamps strictly older than the window fall out; an event
	// exactly window-old still counts
	cutoff := now.Add(-window)
	kept := ua.events[:0]
	for _, ts := range ua.events {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	ua.events = kept

	if threshold > 0 && len(ua.events) >= threshold {
		ua.events = nil
		return true
	}
	return false
}

// RecentRun returns how many of the most recent samples (newest backwards)
// match the given content and channel. Used to size bulk deletions. Lock must
// be held.
func (ua *UserActivity) RecentRun(content, channelID string) int {
	n := 0
	for i := len(ua.recent) - 1; i >= 0; i-- {
		if ua.recent[i].Content != content || ua.recent[i].ChannelID != channelID {
			break
		}
		n++
	}
	return n
}
