package rules

import (
	"regexp"

	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/engine"
)

var linkPattern = regexp.MustCompile(`https?://\S+`)

var _ engine.MessageRuleFunc = LinkMessageRule

// Flags messages containing an http or https URL anywhere in the content.
func LinkMessageRule(c *engine.MessageContext) error {
	if !linkPattern.MatchString(c.Message.Content) {
		return nil
	}
	c.MarkMatched(configstore.FilterLinks, "link sharing")
	c.DeleteTriggerMessage()
	return nil
}
