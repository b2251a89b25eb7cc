package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/wardenlabs/warden/automod/activity"
	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/countstore"
	"github.com/wardenlabs/warden/automod/warnstore"
	"github.com/wardenlabs/warden/platform"
)

// runtime for executing the filter pipeline, managing per-user state, and
// applying moderation actions.
type Engine struct {
	Logger   *slog.Logger
	Client   platform.Client
	Rules    RuleSet
	Configs  configstore.Store
	Activity *activity.Store
	Warnings warnstore.WarnStore
	Counters countstore.CountStore
	// optional external alerting (eg, slack webhook)
	Notifier Notifier
	// optional rate limit on punishment calls to the platform
	PunishmentLimiter *rate.Limiter
}

// Outcome of one message evaluation, also exposed to administrative callers
// for deterministic testing.
type EvaluationResult struct {
	MatchedFilter   string
	WarningIssued   bool
	WarningCount    int
	EscalationFired bool
	Punishment      configstore.PunishmentKind
}

// ProcessMessage runs the full evaluation state machine for one inbound
// message. Tracker updates happen under the author's per-user lock and in
// memory only; all platform I/O happens after the lock is released. Errors
// returned here are for the caller to log; the engine itself is left in a
// consistent state and later messages process normally.
func (eng *Engine) ProcessMessage(ctx context.Context, msg platform.Message) (res *EvaluationResult, outErr error) {
	res = &EvaluationResult{}

	// similar to an HTTP server, we want to recover any panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			eng.Logger.Error("automod event execution exception", "err", r, "community", msg.CommunityID, "author", msg.AuthorID)
			eventErrorCount.WithLabelValues("panic").Inc()
		}
	}()

	// bot traffic and direct messages are out of scope
	if msg.AuthorIsBot || msg.CommunityID == "" {
		return res, nil
	}

	start := time.Now()
	defer func() {
		eventProcessDuration.Observe(time.Since(start).Seconds())
	}()
	eventProcessCount.Inc()

	cfg := eng.resolveConfig(ctx, msg.CommunityID)

	act := eng.Activity.Get(msg.CommunityID, msg.AuthorID)
	c := NewMessageContext(ctx, eng, msg, cfg, act)

	act.Lock()
	act.Touch(msg.Timestamp)
	err := eng.Rules.CallMessageRules(c)
	act.Unlock()
	if err != nil {
		eventErrorCount.WithLabelValues("rule").Inc()
		return res, err
	}

	c.CanonicalLogLine()
	eng.persistMessageEffects(c, res)
	eng.persistCounters(ctx, c.effects)
	return res, nil
}

// Resolves the community's configuration; missing or failed lookups fall
// back to the engine-owned defaults and are never surfaced to the user.
func (eng *Engine) resolveConfig(ctx context.Context, communityID string) *configstore.CommunityConfig {
	cfg, err := eng.Configs.Get(ctx, communityID)
	if err != nil {
		eng.Logger.Error("config lookup failed, using defaults", "community", communityID, "err", err)
		configErrorCount.Inc()
		return configstore.Default()
	}
	if cfg == nil {
		return configstore.Default()
	}
	return cfg
}

func (eng *Engine) persistCounters(ctx context.Context, eff *Effects) {
	for _, ref := range eff.CounterIncrements {
		if err := eng.Counters.Increment(ctx, ref.Name, ref.Val); err != nil {
			eng.Logger.Error("incrementing counter", "name", ref.Name, "val", ref.Val, "err", err)
		}
	}
}
