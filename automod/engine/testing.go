package engine

import (
	"context"
	"log/slog"

	"github.com/wardenlabs/warden/automod/activity"
	"github.com/wardenlabs/warden/automod/configstore"
	"github.com/wardenlabs/warden/automod/countstore"
	"github.com/wardenlabs/warden/automod/warnstore"
	"github.com/wardenlabs/warden/platform"
)

// Returns an engine on in-memory backends with a mock platform client, for
// use in tests. The community "community1" is pre-seeded with the default
// configuration.
func EngineTestFixture(rules RuleSet) (*Engine, *platform.MockClient) {
	logger := slog.Default()
	configs := configstore.NewMemStore()
	_ = configs.Set(context.TODO(), "community1", configstore.Default())
	client := platform.NewMockClient()
	eng := &Engine{
		Logger:   logger,
		Client:   client,
		Rules:    rules,
		Configs:  configs,
		Activity: activity.NewStore(logger),
		Warnings: warnstore.NewMemWarnStore(),
		Counters: countstore.NewMemCountStore(),
	}
	return eng, client
}
