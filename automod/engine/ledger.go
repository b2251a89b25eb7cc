package engine

import (
	"context"
	"time"

	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/warnstore"
)

// Result of recording one warning on a user's ledger.
type EscalationOutcome struct {
	// false when the warning system is disabled for the community
	Issued bool
	// true when an escalation threshold was reached
	Fires bool
	// the selected rule when Fires is true
	Rule *configstore.EscalationRule
	// valid warnings on the ledger after this one (before any reset)
	ValidCount int
	// the next upcoming rule when Fires is false; nil with an empty table
	Next *configstore.EscalationRule
}

// Records a warning and evaluates escalation. Rule application scans the
// table descending (highest satisfied threshold wins); the next-rule preview
// scans ascending. When a rule fires the ledger is cleared, so the next
// warning starts the count over at one.
func (eng *Engine) issueWarning(ctx context.Context, communityID, userID, reason string, now time.Time, wc configstore.WarningConfig) (EscalationOutcome, error) {
	if !wc.Enabled {
		return EscalationOutcome{}, nil
	}

	expiry := wc.Expiry
	if expiry <= 0 {
		expiry = configstore.Default().Warnings.Expiry
	}

	count, err := eng.Warnings.Issue(ctx, communityID, userID, warnstore.Warning{
		Reason:    reason,
		CreatedAt: now,
	}, expiry)
	if err != nil {
		return EscalationOutcome{}, err
	}
	warningIssuedCount.Inc()

	// a malformed table degrades to warn-without-ever-escalating
	table := wc.Escalations.Validated()

	if rule := table.Applicable(count); rule != nil {
		if err := eng.Warnings.Clear(ctx, communityID, userID); err != nil {
			eng.Logger.Error("clearing warning ledger after escalation", "community", communityID, "user", userID, "err", err)
		}
		return EscalationOutcome{Issued: true, Fires: true, Rule: rule, ValidCount: count}, nil
	}

	return EscalationOutcome{Issued: true, ValidCount: count, Next: table.Upcoming(count)}, nil
}
