package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/warnstore"
)

func warningAt(ts time.Time) warnstore.Warning {
	return warnstore.Warning{Reason: "banned word usage", CreatedAt: ts}
}

func TestEscalationFiresAtThreshold(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	// default table: 3 warnings -> timeout
	for i := 1; i <= 2; i++ {
		res, err := eng.ProcessMessage(ctx, testMsg(fmt.Sprintf("m%d", i), "bad"))
		assert.NoError(err)
		assert.True(res.WarningIssued)
		assert.Equal(i, res.WarningCount)
		assert.False(res.EscalationFired)
	}
	assert.Empty(client.Timeouts)

	res, err := eng.ProcessMessage(ctx, testMsg("m3", "bad"))
	assert.NoError(err)
	assert.True(res.EscalationFired)
	assert.Equal(configstore.PunishmentTimeout, res.Punishment)
	if assert.Len(client.Timeouts, 1) {
		p := client.Timeouts[0]
		assert.Equal("community1", p.CommunityID)
		assert.Equal("user1", p.UserID)
		assert.True(p.Until.After(time.Now()))
	}
	assert.Len(client.Deleted, 3)

	// ledger was cleared; the next warning starts over at one
	res, err = eng.ProcessMessage(ctx, testMsg("m4", "bad"))
	assert.NoError(err)
	assert.Equal(1, res.WarningCount)
	assert.False(res.EscalationFired)
	assert.Len(client.Timeouts, 1)
}

func TestHighestSatisfiedThresholdWins(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	// pre-load five warnings directly, then configure thresholds at 2 and 5;
	// the sixth warning satisfies both, and the ban must win
	cfg := configstore.Default()
	cfg.Warnings.Escalations = configstore.EscalationTable{
		{WarningThreshold: 2, Punishment: configstore.PunishmentKick},
		{WarningThreshold: 5, Punishment: configstore.PunishmentBan},
	}
	assert.NoError(eng.Configs.(*configstore.MemStore).Set(ctx, "community1", cfg))

	for i := 1; i <= 4; i++ {
		_, err := eng.Warnings.Issue(ctx, "community1", "user1", warningAt(time.Now()), cfg.Warnings.Expiry)
		assert.NoError(err)
	}

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "bad"))
	assert.NoError(err)
	assert.True(res.EscalationFired)
	assert.Equal(configstore.PunishmentBan, res.Punishment)
	assert.Len(client.Bans, 1)
	assert.Empty(client.Kicks)
}

func TestDirectPunishmentSkipsLedger(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	cfg := configstore.Default()
	cfg.Badwords.Action = configstore.ActionBan
	assert.NoError(eng.Configs.(*configstore.MemStore).Set(ctx, "community1", cfg))

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "bad"))
	assert.NoError(err)
	assert.Equal(configstore.FilterBadwords, res.MatchedFilter)
	assert.False(res.WarningIssued)
	assert.Equal(configstore.PunishmentBan, res.Punishment)
	assert.Len(client.Bans, 1)
	assert.Equal([]string{"channel1/m1"}, client.Deleted)
}

func TestWarnActionDoesNotDelete(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	cfg := configstore.Default()
	cfg.Badwords.Action = configstore.ActionWarn
	assert.NoError(eng.Configs.(*configstore.MemStore).Set(ctx, "community1", cfg))

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "bad"))
	assert.NoError(err)
	assert.True(res.WarningIssued)
	assert.Empty(client.Deleted)
}

func TestWarningsDisabled(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	cfg := configstore.Default()
	cfg.Warnings.Enabled = false
	assert.NoError(eng.Configs.(*configstore.MemStore).Set(ctx, "community1", cfg))

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "bad"))
	assert.NoError(err)
	assert.Equal(configstore.FilterBadwords, res.MatchedFilter)
	assert.False(res.WarningIssued)
	// the message is still removed even when the ledger is off
	assert.Equal([]string{"channel1/m1"}, client.Deleted)
	assert.Empty(client.Sent)
}

func TestPunishmentQuotaCircuitBreaker(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, client := EngineTestFixture(simpleRuleSet())

	cfg := configstore.Default()
	cfg.Badwords.Action = configstore.ActionBan
	assert.NoError(eng.Configs.(*configstore.MemStore).Set(ctx, "community1", cfg))

	for i := 0; i < QuotaBanDay; i++ {
		assert.NoError(eng.Counters.Increment(ctx, "automod-quota", string(configstore.PunishmentBan)))
	}

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "bad"))
	assert.NoError(err)
	assert.Equal(configstore.PunishmentBan, res.Punishment)
	assert.Empty(client.Bans)
	// removal still happens, only the punishment is suppressed
	assert.Equal([]string{"channel1/m1"}, client.Deleted)
}

func TestExpiredWarningsDoNotCount(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng, _ := EngineTestFixture(simpleRuleSet())

	cfg := configstore.Default()
	// two stale warnings well past the expiry window
	for i := 0; i < 2; i++ {
		_, err := eng.Warnings.Issue(ctx, "community1", "user1", warningAt(time.Now().Add(-48*time.Hour)), cfg.Warnings.Expiry)
		assert.NoError(err)
	}

	res, err := eng.ProcessMessage(ctx, testMsg("m1", "bad"))
	assert.NoError(err)
	assert.Equal(1, res.WarningCount)
	assert.False(res.EscalationFired)
}
