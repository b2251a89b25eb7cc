package configstore

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Filter keys, in pipeline priority order.
const (
	FilterBadwords = "badwords"
	FilterLinks    = "links"
	FilterSpam     = "spam"
	FilterFlood    = "flood"
	FilterCaps     = "caps"
)

// Action is what a filter does with the triggering message and its author on a
// match. Warn-class actions feed the warning ledger; the rest punish directly.
type Action string

const (
	ActionWarn          Action = "warn"
	ActionDeleteAndWarn Action = "delete_and_warn"
	ActionTimeout       Action = "timeout"
	ActionKick          Action = "kick"
	ActionBan           Action = "ban"
)

// ParseAction normalizes an action string, including legacy spellings
// ("delete" and "delete_warn" both meant delete_and_warn, "mute" meant
// timeout).
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn":
		return ActionWarn, nil
	case "delete_and_warn", "delete_warn", "delete":
		return ActionDeleteAndWarn, nil
	case "timeout", "mute":
		return ActionTimeout, nil
	case "kick":
		return ActionKick, nil
	case "ban":
		return ActionBan, nil
	}
	return "", fmt.Errorf("unknown moderation action: %q", s)
}

type PunishmentKind string

const (
	PunishmentTimeout PunishmentKind = "timeout"
	PunishmentKick    PunishmentKind = "kick"
	PunishmentBan     PunishmentKind = "ban"
)

// Per-filter settings. Ignore lists are evaluated per filter, not globally.
type FilterConfig struct {
	Enabled         bool     `json:"enabled"`
	IgnoredChannels []string `json:"ignored_channels,omitempty"`
	IgnoredRoles    []string `json:"ignored_roles,omitempty"`
	Action          Action   `json:"action"`
}

type WarningConfig struct {
	Enabled     bool            `json:"enabled"`
	Expiry      time.Duration   `json:"expiry"`
	Escalations EscalationTable `json:"escalations"`
}

// CommunityConfig is the full moderation configuration for one community. The
// engine treats it as a read-only point-in-time snapshot per evaluation.
type CommunityConfig struct {
	Badwords FilterConfig `json:"badwords"`
	Links    FilterConfig `json:"links"`
	Spam     FilterConfig `json:"spam"`
	Flood    FilterConfig `json:"flood"`
	Caps     FilterConfig `json:"caps"`

	BannedWords []string `json:"banned_words,omitempty"`

	// run length of identical messages (including the current one) declared as spam
	SpamThreshold int `json:"spam_threshold"`
	// message count and rolling window for flood detection
	FloodThreshold int           `json:"flood_threshold"`
	FloodWindow    time.Duration `json:"flood_window"`
	// uppercase percentage (0-100) above which a message is excessive caps
	CapsThreshold int `json:"caps_threshold"`

	Warnings WarningConfig `json:"warnings"`
}

// Filter returns the per-filter settings for a filter key, or nil for an
// unknown key.
func (cc *CommunityConfig) Filter(key string) *FilterConfig {
	switch key {
	case FilterBadwords:
		return &cc.Badwords
	case FilterLinks:
		return &cc.Links
	case FilterSpam:
		return &cc.Spam
	case FilterFlood:
		return &cc.Flood
	case FilterCaps:
		return &cc.Caps
	}
	return nil
}

// Store resolves per-community moderation configuration. Get returns
// (nil, nil) when no configuration exists for the community; callers fall
// back to Default().
type Store interface {
	Get(ctx context.Context, communityID string) (*CommunityConfig, error)
}
