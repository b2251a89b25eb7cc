package platform

import (
	"context"
	"time"
)

// A single inbound chat message, normalized away from any specific platform's
// wire format. CommunityID is empty for direct messages.
type Message struct {
	ID            string
	CommunityID   string
	ChannelID     string
	AuthorID      string
	AuthorIsBot   bool
	AuthorRoleIDs []string
	Content       string
	Timestamp     time.Time
}

// Client is the boundary to the chat platform's REST surface. All methods are
// best-effort from the engine's point of view: callers are expected to log and
// contain failures, not abort processing.
type Client interface {
	// Removes a single message. Deleting a message which no longer exists is
	// treated as success.
	DeleteMessage(ctx context.Context, channelID, messageID string) error

	// Removes a batch of messages from one channel.
	BulkDeleteMessages(ctx context.Context, channelID string, messageIDs []string) error

	// Places a time-bound mute on a community member.
	TimeoutMember(ctx context.Context, communityID, userID string, until time.Time, reason string) error

	// Removes a member from the community.
	KickMember(ctx context.Context, communityID, userID, reason string) error

	// Bans a member from the community.
	BanMember(ctx context.Context, communityID, userID, reason string) error

	// Posts a plain text message to a channel.
	SendChannelMessage(ctx context.Context, channelID, text string) error

	// Fetches up to limit of the most recent messages in a channel, newest
	// first. Used to locate spam/flood runs for bulk deletion.
	RecentChannelMessages(ctx context.Context, channelID string, limit int) ([]*Message, error)
}
