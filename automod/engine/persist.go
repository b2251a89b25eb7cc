package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/wardenlabs/warden/automod/configstore"
)

// Applies the side-effects collected during rule execution: message removal,
// warning issuance, escalation punishments, and notifications. Every platform
// call is bounded by a timeout and individually contained; a failed call is
// logged and the rest of the sequence continues.
func (eng *Engine) persistMessageEffects(c *MessageContext, res *EvaluationResult) {
	eff := c.effects
	if eff.MatchedFilter == "" {
		return
	}
	res.MatchedFilter = eff.MatchedFilter
	filterMatchCount.WithLabelValues(eff.MatchedFilter).Inc()

	fc := c.Config.Filter(eff.MatchedFilter)
	action := fc.Action
	if action == "" {
		// a stored config may omit the action; fall back to the filter's own
		// default, not a blanket one (caps defaults to warn, not delete)
		if def := configstore.Default().Filter(eff.MatchedFilter); def != nil {
			action = def.Action
		} else {
			action = configstore.ActionDeleteAndWarn
		}
	}

	// detach from the gateway event's cancellation; a slow platform call must
	// be bounded but not tied to the delivery goroutine
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Ctx), PlatformCallTimeout)
	defer cancel()

	msg := c.Message

	if action != configstore.ActionWarn {
		if eff.DeleteTarget {
			if err := eng.Client.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
				c.Logger.Warn("deleting message failed", "err", err)
				platformErrorCount.WithLabelValues("delete").Inc()
			}
		}
		if eff.PurgeRun > 0 {
			eng.purgeRecentRun(ctx, c, eff.PurgeRun)
		}
		if eff.PurgeWindow > 0 {
			eng.purgeFloodWindow(ctx, c, eff.PurgeWindow)
		}
	}

	switch action {
	case configstore.ActionWarn, configstore.ActionDeleteAndWarn:
		outcome, err := eng.issueWarning(ctx, msg.CommunityID, msg.AuthorID, eff.WarnReason, msg.Timestamp, c.Config.Warnings)
		if err != nil {
			c.Logger.Error("recording warning failed", "err", err)
			eventErrorCount.WithLabelValues("warnstore").Inc()
			return
		}
		res.WarningIssued = outcome.Issued
		res.WarningCount = outcome.ValidCount
		if outcome.Fires {
			res.EscalationFired = true
			res.Punishment = outcome.Rule.Punishment
			eng.executeEscalation(ctx, c, outcome)
		} else if outcome.Issued {
			eng.notifyWarningPending(ctx, c, outcome)
		}

	case configstore.ActionTimeout, configstore.ActionKick, configstore.ActionBan:
		// the filter is configured to punish directly, bypassing the ledger
		kind := directPunishmentKind(action)
		res.Punishment = kind
		eng.executePunishment(ctx, c, kind, 0)

	default:
		c.Logger.Error("unknown filter action", "action", action)
	}
}

func directPunishmentKind(a configstore.Action) configstore.PunishmentKind {
	switch a {
	case configstore.ActionTimeout:
		return configstore.PunishmentTimeout
	case configstore.ActionKick:
		return configstore.PunishmentKick
	case configstore.ActionBan:
		return configstore.PunishmentBan
	}
	return ""
}

// Applies the punishment an escalation selected, then announces it in the
// channel. Notification failure never rolls back the punishment.
func (eng *Engine) executeEscalation(ctx context.Context, c *MessageContext, outcome EscalationOutcome) {
	rule := outcome.Rule
	if !eng.executePunishment(ctx, c, rule.Punishment, rule.TimeoutDuration) {
		return
	}
	escalationFiredCount.WithLabelValues(string(rule.Punishment)).Inc()

	text := fmt.Sprintf("<@%s> received a %s after %d warnings (%s)",
		c.Message.AuthorID, describePunishment(rule), outcome.ValidCount, c.effects.WarnReason)
	if err := eng.Client.SendChannelMessage(ctx, c.Message.ChannelID, text); err != nil {
		c.Logger.Warn("sending escalation notice failed", "err", err)
		platformErrorCount.WithLabelValues("notify").Inc()
	}

	if eng.Notifier != nil {
		if err := eng.Notifier.SendEscalation(ctx, c, rule); err != nil {
			c.Logger.Warn("sending escalation alert failed", "err", err)
		}
	}
}

// Runs the circuit breaker and the platform call for one punishment. Returns
// whether the punishment was actually applied.
func (eng *Engine) executePunishment(ctx context.Context, c *MessageContext, kind configstore.PunishmentKind, timeoutDur time.Duration) bool {
	if !eng.circuitBreakPunishment(ctx, kind) {
		return false
	}
	if err := eng.applyPunishment(ctx, c.Message.CommunityID, c.Message.AuthorID, kind, timeoutDur, c.effects.WarnReason); err != nil {
		c.Logger.Error("applying punishment failed", "kind", kind, "err", err)
		platformErrorCount.WithLabelValues(string(kind)).Inc()
		return false
	}
	if err := eng.Counters.Increment(ctx, "automod-quota", string(kind)); err != nil {
		c.Logger.Error("incrementing punishment quota", "kind", kind, "err", err)
	}
	return true
}

func (eng *Engine) applyPunishment(ctx context.Context, communityID, userID string, kind configstore.PunishmentKind, timeoutDur time.Duration, reason string) error {
	if eng.PunishmentLimiter != nil {
		if err := eng.PunishmentLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}
	switch kind {
	case configstore.PunishmentTimeout:
		if timeoutDur <= 0 {
			timeoutDur = DefaultTimeoutDuration
		}
		return eng.Client.TimeoutMember(ctx, communityID, userID, time.Now().Add(timeoutDur), reason)
	case configstore.PunishmentKick:
		return eng.Client.KickMember(ctx, communityID, userID, reason)
	case configstore.PunishmentBan:
		return eng.Client.BanMember(ctx, communityID, userID, reason)
	}
	return fmt.Errorf("unknown punishment kind: %q", kind)
}

// Tells the user where they stand: current count and what the next
// escalation threshold brings.
func (eng *Engine) notifyWarningPending(ctx context.Context, c *MessageContext, outcome EscalationOutcome) {
	var text string
	if next := outcome.Next; next != nil {
		remaining := next.WarningThreshold - outcome.ValidCount
		text = fmt.Sprintf("<@%s> warned for %s (warning %d); %d more until %s",
			c.Message.AuthorID, c.effects.WarnReason, outcome.ValidCount, remaining, describePunishment(next))
	} else {
		text = fmt.Sprintf("<@%s> warned for %s (warning %d)",
			c.Message.AuthorID, c.effects.WarnReason, outcome.ValidCount)
	}
	if err := eng.Client.SendChannelMessage(ctx, c.Message.ChannelID, text); err != nil {
		c.Logger.Warn("sending warning notice failed", "err", err)
		platformErrorCount.WithLabelValues("notify").Inc()
	}
}

func describePunishment(rule *configstore.EscalationRule) string {
	if rule.Punishment == configstore.PunishmentTimeout {
		d := rule.TimeoutDuration
		if d <= 0 {
			d = DefaultTimeoutDuration
		}
		return fmt.Sprintf("%s timeout", d)
	}
	return string(rule.Punishment)
}

// Locates and bulk-removes the author's recent identical messages in the
// channel, best-effort.
func (eng *Engine) purgeRecentRun(ctx context.Context, c *MessageContext, n int) {
	msgs, err := eng.Client.RecentChannelMessages(ctx, c.Message.ChannelID, 50)
	if err != nil {
		c.Logger.Warn("fetching recent messages for spam purge failed", "err", err)
		platformErrorCount.WithLabelValues("fetch").Inc()
		return
	}
	var ids []string
	for _, m := range msgs {
		if len(ids) >= n {
			break
		}
		if m.ID == c.Message.ID || m.AuthorID != c.Message.AuthorID {
			continue
		}
		if m.Content == c.Message.Content {
			ids = append(ids, m.ID)
		}
	}
	eng.bulkDelete(ctx, c, ids)
}

// Bulk-removes the author's messages in the channel within the flood window,
// best-effort.
func (eng *Engine) purgeFloodWindow(ctx context.Context, c *MessageContext, window time.Duration) {
	msgs, err := eng.Client.RecentChannelMessages(ctx, c.Message.ChannelID, 50)
	if err != nil {
		c.Logger.Warn("fetching recent messages for flood purge failed", "err", err)
		platformErrorCount.WithLabelValues("fetch").Inc()
		return
	}
	cutoff := c.Message.Timestamp.Add(-window)
	var ids []string
	for _, m := range msgs {
		if m.ID == c.Message.ID || m.AuthorID != c.Message.AuthorID {
			continue
		}
		if m.Timestamp.After(cutoff) {
			ids = append(ids, m.ID)
		}
	}
	eng.bulkDelete(ctx, c, ids)
}

func (eng *Engine) bulkDelete(ctx context.Context, c *MessageContext, ids []string) {
	if len(ids) == 0 {
		return
	}
	if err := eng.Client.BulkDeleteMessages(ctx, c.Message.ChannelID, ids); err != nil {
		c.Logger.Warn("bulk delete failed", "count", len(ids), "err", err)
		platformErrorCount.WithLabelValues("bulk_delete").Inc()
	}
}
