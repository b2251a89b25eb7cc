package rules

import (
	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/engine"
)

// DefaultRules returns the standard filter pipeline, in priority order. The
// first filter to match a message wins; later filters never see it.
func DefaultRules() engine.RuleSet {
	rules := engine.RuleSet{
		MessageRules: []engine.MessageRule{
			{Name: "banned-word", Filter: configstore.FilterBadwords, Func: BannedWordMessageRule},
			{Name: "link", Filter: configstore.FilterLinks, Func: LinkMessageRule},
			{Name: "spam-run", Filter: configstore.FilterSpam, Func: SpamRunMessageRule},
			{Name: "flood", Filter: configstore.FilterFlood, Func: FloodMessageRule},
			{Name: "excessive-caps", Filter: configstore.FilterCaps, Func: ExcessiveCapsMessageRule},
		},
	}
	return rules
}
