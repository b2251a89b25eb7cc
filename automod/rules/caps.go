package rules

import (
	"strings"
	"unicode"

	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/engine"
)

var _ engine.MessageRuleFunc = ExcessiveCapsMessageRule

// Flags shouting: messages of letters and whitespace only, longer than five
// characters, where the uppercase share of the letters exceeds the configured
// percentage. Content with digits or punctuation is left alone, since the
// ratio is meaningless for things like URLs or code.
func ExcessiveCapsMessageRule(c *engine.MessageContext) error {
	content := strings.TrimSpace(c.Message.Content)
	if len([]rune(content)) <= 5 {
		return nil
	}
	var letters, upper int
	for _, r := range content {
		switch {
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		case unicode.IsSpace(r):
		default:
			return nil
		}
	}
	if letters == 0 {
		return nil
	}
	threshold := c.Config.CapsThreshold
	if threshold <= 0 {
		threshold = configstore.Default().CapsThreshold
	}
	if upper*100 <= letters*threshold {
		return nil
	}
	c.MarkMatched(configstore.FilterCaps, "excessive caps")
	c.DeleteTriggerMessage()
	return nil
}
