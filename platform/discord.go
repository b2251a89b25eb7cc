package platform

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordClient implements Client against the Discord REST API via an
// established discordgo session.
type DiscordClient struct {
	Session *discordgo.Session
}

var _ Client = (*DiscordClient)(nil)

func NewDiscordClient(session *discordgo.Session) *DiscordClient {
	return &DiscordClient{Session: session}
}

// treats "unknown message" as success, so repeated deletes are idempotent
func (dc *DiscordClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	err := dc.Session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
	if isUnknownMessage(err) {
		return nil
	}
	return err
}

func (dc *DiscordClient) BulkDeleteMessages(ctx context.Context, channelID string, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	if len(messageIDs) == 1 {
		return dc.DeleteMessage(ctx, channelID, messageIDs[0])
	}
	err := dc.Session.ChannelMessagesBulkDelete(channelID, messageIDs, discordgo.WithContext(ctx))
	if isUnknownMessage(err) {
		return nil
	}
	return err
}

func (dc *DiscordClient) TimeoutMember(ctx context.Context, communityID, userID string, until time.Time, reason string) error {
	// NOTE: the REST route for member timeouts doesn't carry a reason; it is
	// included in the channel notification instead
	return dc.Session.GuildMemberTimeout(communityID, userID, &until, discordgo.WithContext(ctx))
}

func (dc *DiscordClient) KickMember(ctx context.Context, communityID, userID, reason string) error {
	return dc.Session.GuildMemberDeleteWithReason(communityID, userID, reason, discordgo.WithContext(ctx))
}

func (dc *DiscordClient) BanMember(ctx context.Context, communityID, userID, reason string) error {
	return dc.Session.GuildBanCreateWithReason(communityID, userID, reason, 0, discordgo.WithContext(ctx))
}

func (dc *DiscordClient) SendChannelMessage(ctx context.Context, channelID, text string) error {
	_, err := dc.Session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	return err
}

func (dc *DiscordClient) RecentChannelMessages(ctx context.Context, channelID string, limit int) ([]*Message, error) {
	msgs, err := dc.Session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]*Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, FromDiscordMessage(m))
	}
	return out, nil
}

// Converts a discordgo message to the normalized form. Role metadata is only
// present on gateway events which include member info.
func FromDiscordMessage(m *discordgo.Message) *Message {
	msg := &Message{
		ID:          m.ID,
		CommunityID: m.GuildID,
		ChannelID:   m.ChannelID,
		Content:     m.Content,
		Timestamp:   m.Timestamp,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorIsBot = m.Author.Bot
	}
	if m.Member != nil {
		msg.AuthorRoleIDs = m.Member.Roles
	}
	return msg
}

func isUnknownMessage(err error) bool {
	if err == nil {
		return false
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownMessage
	}
	return false
}
