package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/platform"
)

func simpleMatchRule(c *MessageContext) error {
	if c.Message.Content == "bad" {
		c.MarkMatched(configstore.FilterBadwords, "banned word usage")
		c.DeleteTriggerMessage()
	}
	return nil
}

func simpleRuleSet() RuleSet {
	return RuleSet{
		MessageRules: []MessageRule{
			{Name: "simple-match", Filter: configstore.FilterBadwords, Func: simpleMatchRule},
		},
	}
}

func testMsg(id, content string) platform.Message {
	return platform.Message{
		ID:          id,
		CommunityID: "community1",
		ChannelID:   "channel1",
		AuthorID:    "user1",
		Content:     content,
		Timestamp:   time.Now(),
	}
}

func TestEngineCleanMessage(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "hello there"))
	assert.NoError(err)
	assert.Empty(res.MatchedFilter)
	assert.False(res.WarningIssued)
	assert.Empty(client.Deleted)
	assert.Empty(client.Sent)
}

func TestEngineSkipsBotsAndDMs(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	msg := testMsg("m1", "bad")
	msg.AuthorIsBot = true
	res, err := eng.ProcessMessage(ctx, msg)
	assert.NoError(err)
	assert.Empty(res.MatchedFilter)

	dm := testMsg("m2", "bad")
	dm.CommunityID = ""
	res, err = eng.ProcessMessage(ctx, dm)
	assert.NoError(err)
	assert.Empty(res.MatchedFilter)
	assert.Empty(client.Deleted)
}

func TestEngineMatchDeletesAndWarns(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "bad"))
	assert.NoError(err)
	assert.Equal(configstore.FilterBadwords, res.MatchedFilter)
	assert.True(res.WarningIssued)
	assert.Equal(1, res.WarningCount)
	assert.False(res.EscalationFired)
	assert.Equal([]string{"channel1/m1"}, client.Deleted)
	// pending notice mentions the user and what comes next
	if assert.Len(client.Sent, 1) {
		assert.Contains(client.Sent[0].Text, "<@user1>")
		assert.Contains(client.Sent[0].Text, "2 more")
	}
}

func TestEngineIgnoredChannel(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	cfg := configstore.Default()
	cfg.Badwords.IgnoredChannels = []string{"channel1"}
	assert.NoError(eng.Configs.(*configstore.MemStore).Set(ctx, "community1", cfg))

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "bad"))
	assert.NoError(err)
	assert.Empty(res.MatchedFilter)
	assert.Empty(client.Deleted)
}

func TestEngineIgnoredRole(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	cfg := configstore.Default()
	cfg.Badwords.IgnoredRoles = []string{"mods"}
	assert.NoError(eng.Configs.(*configstore.MemStore).Set(ctx, "community1", cfg))

	msg := testMsg("m1", "bad")
	msg.AuthorRoleIDs = []string{"members", "mods"}
	res, err := eng.ProcessMessage(ctx, msg)
	assert.NoError(err)
	assert.Empty(res.MatchedFilter)
	assert.Empty(client.Deleted)
}

func TestEngineDisabledFilter(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	cfg := configstore.Default()
	cfg.Badwords.Enabled = false
	assert.NoError(eng.Configs.(*configstore.MemStore).Set(ctx, "community1", cfg))

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "bad"))
	assert.NoError(err)
	assert.Empty(res.MatchedFilter)
	assert.Empty(client.Deleted)
}

func TestEngineMissingConfigUsesDefaults(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	msg := testMsg("m1", "bad")
	msg.CommunityID = "community-without-config"
	res, err := eng.ProcessMessage(ctx, msg)
	assert.NoError(err)
	assert.Equal(configstore.FilterBadwords, res.MatchedFilter)
	assert.Equal([]string{"channel1/m1"}, client.Deleted)
}

func TestEngineRuleError(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	boom := errors.New("rule exploded")
	rules := RuleSet{MessageRules: []MessageRule{
		{Name: "broken", Filter: configstore.FilterBadwords, Func: func(c *MessageContext) error { return boom }},
	}}
	eng, client := EngineTestFixture(rules)

	_, err := eng.ProcessMessage(ctx, testMsg("m1", "anything"))
	assert.ErrorIs(err, boom)
	assert.Empty(client.Deleted)
}

func TestEnginePanicRecovery(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	rules := RuleSet{MessageRules: []MessageRule{
		{Name: "panics", Filter: configstore.FilterBadwords, Func: func(c *MessageContext) error { panic("oops") }},
	}}
	eng, client := EngineTestFixture(rules)

	assert.NotPanics(func() {
		_, _ = eng.ProcessMessage(ctx, testMsg("m1", "anything"))
	})
	assert.Empty(client.Deleted)

	// the engine is still usable afterwards
	eng.Rules = simpleRuleSet()
	res, err := eng.ProcessMessage(ctx, testMsg("m2", "bad"))
	assert.NoError(err)
	assert.Equal(configstore.FilterBadwords, res.MatchedFilter)
}

func TestEngineShortCircuit(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	secondRan := false
	rules := RuleSet{MessageRules: []MessageRule{
		{Name: "first", Filter: configstore.FilterBadwords, Func: simpleMatchRule},
		{Name: "second", Filter: configstore.FilterLinks, Func: func(c *MessageContext) error {
			secondRan = true
			return nil
		}},
	}}
	eng, _ := EngineTestFixture(rules)

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "bad"))
	assert.NoError(err)
	assert.Equal(configstore.FilterBadwords, res.MatchedFilter)
	assert.False(secondRan)
}
