package rules

import (
	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/engine"
)

var _ engine.MessageRuleFunc = SpamRunMessageRule

// Flags runs of identical messages from one author in one channel. The run
// length that counts as spam comes from community config; the tracker only
// compares against messages recorded before the current one, so the first
// repeats pass through until the run completes.
func SpamRunMessageRule(c *engine.MessageContext) error {
	threshold := c.Config.SpamThreshold
	if threshold <= 0 {
		threshold = configstore.Default().SpamThreshold
	}
	if !c.Activity.RecordAndCheckSpam(c.Message.Content, c.Message.ChannelID, c.Message.Timestamp, threshold) {
		return nil
	}
	run := c.Activity.RecentRun(c.Message.Content, c.Message.ChannelID)
	c.Logger.Info("spam run detected", "run", run)
	c.MarkMatched(configstore.FilterSpam, "spamming")
	c.DeleteTriggerMessage()
	// the run count includes the triggering message, which is removed separately
	c.PurgeRecentRun(run - 1)
	return nil
}
