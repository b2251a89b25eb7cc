package rules

import (
	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/engine"
	"github.com/wardenlabs/warden/automod/keyword"
)

var _ engine.MessageRuleFunc = BannedWordMessageRule

// Flags messages containing any entry from the community's banned word list.
// Matching is case-insensitive substring matching, so embedded spellings
// ("xxFOOxx") still count.
func BannedWordMessageRule(c *engine.MessageContext) error {
	word, ok := keyword.MatchAnyWord(c.Message.Content, c.Config.BannedWords)
	if !ok {
		return nil
	}
	c.Logger.Info("banned word in message", "word", word)
	c.Increment("badword", word)
	c.MarkMatched(configstore.FilterBadwords, "banned word usage")
	c.DeleteTriggerMessage()
	return nil
}
