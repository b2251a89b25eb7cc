package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/wardenlabs/warden/automod/activity"
	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/platform"
)

// The primary interface exposed to filter rules for a single message
// evaluation.
type MessageContext struct {
	// Actual golang "context.Context", if needed for timeouts etc
	Ctx context.Context
	// slog logger handle, with message-specific structured fields pre-populated. Pointer, but expected to never be nil.
	Logger *slog.Logger

	// The inbound message under evaluation. Immutable.
	Message platform.Message
	// Point-in-time configuration snapshot for the message's community.
	Config *configstore.CommunityConfig
	// Tracker state for the author. The engine holds this entry's lock for
	// the duration of rule execution.
	Activity *activity.UserActivity

	engine  *Engine
	effects *Effects
}

func NewMessageContext(ctx context.Context, eng *Engine, msg platform.Message, cfg *configstore.CommunityConfig, act *activity.UserActivity) *MessageContext {
	return &MessageContext{
		Ctx: ctx,
		Logger: eng.Logger.With(
			"community", msg.CommunityID,
			"channel", msg.ChannelID,
			"author", msg.AuthorID,
			"message", msg.ID,
		),
		Message:  msg,
		Config:   cfg,
		Activity: act,
		engine:   eng,
		effects:  &Effects{},
	}
}

// Declares the message matched, naming the filter and the warning reason.
// The pipeline short-circuits after the declaring rule returns.
func (c *MessageContext) MarkMatched(filter, reason string) {
	c.effects.MatchedFilter = filter
	c.effects.WarnReason = reason
}

// Enqueues removal of the triggering message.
func (c *MessageContext) DeleteTriggerMessage() {
	c.effects.DeleteTarget = true
}

// Enqueues bulk removal of the author's n most recent identical messages in
// this channel.
func (c *MessageContext) PurgeRecentRun(n int) {
	c.effects.PurgeRun = n
}

// Enqueues bulk removal of the author's messages in this channel within the
// trailing window.
func (c *MessageContext) PurgeFloodWindow(window time.Duration) {
	c.effects.PurgeWindow = window
}

// Enqueues the named counter to be incremented at the end of all rule
// processing. Will automatically increment for all time periods.
func (c *MessageContext) Increment(name, val string) {
	c.effects.Increment(name, val)
}

func (c *MessageContext) CanonicalLogLine() {
	c.Logger.Info("canonical-event-line",
		"matchedFilter", c.effects.MatchedFilter,
		"warnReason", c.effects.WarnReason,
		"deleteTarget", c.effects.DeleteTarget,
	)
}
