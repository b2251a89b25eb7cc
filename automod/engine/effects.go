package engine

import (
	"time"
)

var (
	// default mute length when an escalation rule doesn't set one
	DefaultTimeoutDuration = time.Hour
	// upper bound on any single platform call made while persisting effects
	PlatformCallTimeout = 10 * time.Second
	// number of kicks the engine may apply per day, all communities combined (circuit breaker)
	QuotaKickDay = 50
	// number of bans the engine may apply per day, all communities combined (circuit breaker)
	QuotaBanDay = 25
)

type CounterRef struct {
	Name string
	Val  string
}

// Mutable container for all the possible side-effects from filter evaluation.
//
// Filters only record what should happen here; nothing touches the platform
// until rule execution finishes and the per-user lock is released.
type Effects struct {
	// Filter key of the first (and only) filter that matched, empty if clean.
	MatchedFilter string
	// Human-readable reason attached to the warning and any punishment.
	WarnReason string
	// If true, the triggering message should be removed.
	DeleteTarget bool
	// If > 0, that many most-recent identical messages from the author in
	// this channel should be bulk-removed (spam runs).
	PurgeRun int
	// If > 0, the author's messages in this channel within the window should
	// be bulk-removed (flood bursts).
	PurgeWindow time.Duration
	// Counters to increment once processing completes.
	CounterIncrements []CounterRef
}

func (e *Effects) Increment(name, val string) {
	e.CounterIncrements = append(e.CounterIncrements, CounterRef{Name: name, Val: val})
}
