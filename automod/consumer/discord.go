package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/wardenlabs/warden/automod"
	"github.com/wardenlabs/warden/platform"
)

// DiscordConsumer subscribes to gateway message-create events and feeds them
// to the moderation engine. Events are dispatched through per-(community,user)
// queues: one author's messages are processed serially in arrival order (the
// tracker ring and flood window depend on it), while different authors
// proceed in parallel without stalling the gateway reader.
type DiscordConsumer struct {
	Logger  *slog.Logger
	Session *discordgo.Session
	Engine  *automod.Engine

	queues *xsync.MapOf[string, *userQueue]
}

// Pending messages for one (community, user). Only mutated inside the queue
// map's per-key compute callback, which serializes access; no lock of its own.
type userQueue struct {
	pending []platform.Message
	running bool
}

func (dc *DiscordConsumer) Run(ctx context.Context) error {
	if dc.Engine == nil {
		return fmt.Errorf("nil engine")
	}
	dc.queues = xsync.NewMapOf[string, *userQueue]()

	dc.Session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	// handlers must fire in gateway order or the per-user queues can't
	// preserve arrival order; enqueueing is cheap, so synchronous dispatch
	// doesn't stall the reader
	dc.Session.SyncEvents = true

	remove := dc.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		dc.enqueue(ctx, *platform.FromDiscordMessage(m.Message))
	})
	defer remove()

	if err := dc.Session.Open(); err != nil {
		return fmt.Errorf("opening gateway connection: %w", err)
	}
	dc.Logger.Info("discord gateway connected")

	<-ctx.Done()
	return dc.Session.Close()
}

func queueKey(msg platform.Message) string {
	return msg.CommunityID + "/" + msg.AuthorID
}

// enqueue appends the message to the author's queue, starting a drain
// goroutine if the author doesn't have one running.
func (dc *DiscordConsumer) enqueue(ctx context.Context, msg platform.Message) {
	key := queueKey(msg)
	start := false
	q, _ := dc.queues.Compute(key, func(q *userQueue, loaded bool) (*userQueue, bool) {
		if !loaded {
			q = &userQueue{}
		}
		q.pending = append(q.pending, msg)
		if !q.running {
			q.running = true
			start = true
		}
		return q, false
	})
	if start {
		go dc.drain(ctx, key, q)
	}
}

// drain processes one author's queue in order until it empties, then removes
// the map entry. The empty-check and the removal happen in the same per-key
// compute, so a concurrent enqueue either lands on this queue before the
// check or creates a fresh queue (and drainer) after the removal.
func (dc *DiscordConsumer) drain(ctx context.Context, key string, q *userQueue) {
	for {
		var msg platform.Message
		done := false
		dc.queues.Compute(key, func(cur *userQueue, loaded bool) (*userQueue, bool) {
			if len(q.pending) == 0 {
				q.running = false
				done = true
				return cur, true
			}
			msg = q.pending[0]
			q.pending = q.pending[1:]
			return cur, false
		})
		if done {
			return
		}
		if _, err := dc.Engine.ProcessMessage(ctx, msg); err != nil {
			dc.Logger.Error("message processing failed", "community", msg.CommunityID, "message", msg.ID, "err", err)
		}
	}
}
