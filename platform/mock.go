package platform

import (
	"context"
	"sync"
	"time"
)

// MockClient records every call for assertions in tests, and can be primed
// with recent channel messages and injected failures.
type MockClient struct {
	mu sync.Mutex

	Deleted       []string // "channelID/messageID"
	BulkDeleted   [][]string
	Timeouts      []MockPunishment
	Kicks         []MockPunishment
	Bans          []MockPunishment
	Sent          []MockChannelMessage
	RecentByChan  map[string][]*Message
	FailPunish    error // returned from all punishment methods when set
	FailDeletes   error // returned from delete methods when set
	FailSend      error // returned from SendChannelMessage when set
}

type MockPunishment struct {
	CommunityID string
	UserID      string
	Until       time.Time
	Reason      string
}

type MockChannelMessage struct {
	ChannelID string
	Text      string
}

var _ Client = (*MockClient)(nil)

func NewMockClient() *MockClient {
	return &MockClient{RecentByChan: make(map[string][]*Message)}
}

func (mc *MockClient) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.FailDeletes != nil {
		return mc.FailDeletes
	}
	mc.Deleted = append(mc.Deleted, channelID+"/"+messageID)
	return nil
}

func (mc *MockClient) BulkDeleteMessages(ctx context.Context, channelID string, messageIDs []string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.FailDeletes != nil {
		return mc.FailDeletes
	}
	mc.BulkDeleted = append(mc.BulkDeleted, messageIDs)
	return nil
}

func (mc *MockClient) TimeoutMember(ctx context.Context, communityID, userID string, until time.Time, reason string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.FailPunish != nil {
		return mc.FailPunish
	}
	mc.Timeouts = append(mc.Timeouts, MockPunishment{communityID, userID, until, reason})
	return nil
}

func (mc *MockClient) KickMember(ctx context.Context, communityID, userID, reason string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.FailPunish != nil {
		return mc.FailPunish
	}
	mc.Kicks = append(mc.Kicks, MockPunishment{CommunityID: communityID, UserID: userID, Reason: reason})
	return nil
}

func (mc *MockClient) BanMember(ctx context.Context, communityID, userID, reason string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.FailPunish != nil {
		return mc.FailPunish
	}
	mc.Bans = append(mc.Bans, MockPunishment{CommunityID: communityID, UserID: userID, Reason: reason})
	return nil
}

func (mc *MockClient) SendChannelMessage(ctx context.Context, channelID, text string) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.FailSend != nil {
		return mc.FailSend
	}
	mc.Sent = append(mc.Sent, MockChannelMessage{ChannelID: channelID, Text: text})
	return nil
}

func (mc *MockClient) RecentChannelMessages(ctx context.Context, channelID string, limit int) ([]*Message, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	msgs := mc.RecentByChan[channelID]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}
