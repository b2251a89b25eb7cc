package engine

import (
	"context"

	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/countstore"
)

// Guards against run-away enforcement loops: a bug or hostile raid should not
// be able to kick or ban an unbounded number of accounts. Checks the daily
// quota counter for the punishment kind; fails open on store errors so a
// counter outage does not halt moderation.
func (eng *Engine) circuitBreakPunishment(ctx context.Context, kind configstore.PunishmentKind) bool {
	var quota int
	switch kind {
	case configstore.PunishmentKick:
		quota = QuotaKickDay
	case configstore.PunishmentBan:
		quota = QuotaBanDay
	default:
		return true
	}
	c, err := eng.Counters.GetCount(ctx, "automod-quota", string(kind), countstore.PeriodDay)
	if err != nil {
		eng.Logger.Warn("checking punishment quota failed", "kind", kind, "err", err)
		return true
	}
	if c >= quota {
		eng.Logger.Warn("CIRCUIT BREAKER: punishment quota exceeded", "kind", kind, "count", c, "quota", quota)
		quotaTrippedCount.WithLabelValues(string(kind)).Inc()
		return false
	}
	return true
}
