package rules

import (
	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/engine"
)

var _ engine.MessageRuleFunc = FloodMessageRule

// Flags bursts of messages from one author regardless of content: reaching
// the configured count within the rolling window is a flood. The tracker
// resets on a positive declaration so a continuing burst has to fill the
// window again before re-triggering.
func FloodMessageRule(c *engine.MessageContext) error {
	threshold := c.Config.FloodThreshold
	if threshold <= 0 {
		threshold = configstore.Default().FloodThreshold
	}
	window := c.Config.FloodWindow
	if window <= 0 {
		window = configstore.Default().FloodWindow
	}
	if !c.Activity.RecordAndCheckFlood(c.Message.Timestamp, window, threshold) {
		return nil
	}
	c.Logger.Info("message flood detected", "window", window, "threshold", threshold)
	c.MarkMatched(configstore.FilterFlood, "flooding")
	c.DeleteTriggerMessage()
	c.PurgeFloodWindow(window)
	return nil
}
