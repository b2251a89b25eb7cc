package configstore

import (
	"sort"
	"time"
)

// One row of the warning escalation table: when a user's valid warning count
// reaches WarningThreshold, Punishment fires.
type EscalationRule struct {
	WarningThreshold int            `json:"warning_threshold"`
	Punishment       PunishmentKind `json:"punishment"`
	// only meaningful for timeout punishments; zero means the engine default
	TimeoutDuration time.Duration `json:"timeout_duration,omitempty"`
}

type EscalationTable []EscalationRule

// Validated drops malformed rows (non-positive thresholds, unknown punishment
// kinds) rather than failing: a broken escalation config degrades to
// warn-without-escalating.
func (t EscalationTable) Validated() EscalationTable {
	out := make(EscalationTable, 0, len(t))
	for _, r := range t {
		if r.WarningThreshold <= 0 {
			continue
		}
		switch r.Punishment {
		case PunishmentTimeout, PunishmentKick, PunishmentBan:
		default:
			continue
		}
		out = append(out, r)
	}
	return out
}

// Applicable selects the rule to fire for a valid warning count: thresholds
// are scanned descending and the highest satisfied one wins. A user jumping
// from 2 to 8 warnings in one event gets the rule for 7, not 3. Returns nil
// when no threshold is satisfied.
func (t EscalationTable) Applicable(validCount int) *EscalationRule {
	sorted := append(EscalationTable{}, t...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WarningThreshold > sorted[j].WarningThreshold
	})
	for i := range sorted {
		if validCount >= sorted[i].WarningThreshold {
			return &sorted[i]
		}
	}
	return nil
}

// Upcoming selects the next rule for user-facing "N more warnings until X"
// messaging: thresholds are scanned ascending and the lowest not-yet-satisfied
// one is returned. Returns nil when every threshold is already satisfied or
// the table is empty.
func (t EscalationTable) Upcoming(validCount int) *EscalationRule {
	sorted := append(EscalationTable{}, t...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WarningThreshold < sorted[j].WarningThreshold
	})
	for i := range sorted {
		if validCount < sorted[i].WarningThreshold {
			return &sorted[i]
		}
	}
	return nil
}
