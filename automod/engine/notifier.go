package engine

import (
	"context"

	"github.com/wardenlabs/warden/automod/configstore"
)

// Receives out-of-band alerts when the engine applies an escalation
// punishment.
type Notifier interface {
	SendEscalation(ctx context.Context, c *MessageContext, rule *configstore.EscalationRule) error
}
