package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "soravault:changes"

// RedisBus publishes events on a Redis channel so that every instance
// delivers them to its own connections.
type RedisBus struct {
	Client  *redis.Client
	Channel string
	Hub     *Hub
	Logger  *slog.Logger
}

func NewRedisBus(client *redis.Client, hub *Hub, logger *slog.Logger) *RedisBus {
	return &RedisBus{Client: client, Channel: DefaultChannel, Hub: hub, Logger: logger}
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.Client.Publish(ctx, b.Channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s event: %w", ev.Table, err)
	}
	return nil
}

// Run forwards channel messages to the local hub until ctx is done.
func (b *RedisBus) Run(ctx context.Context) error {
	sub := b.Client.Subscribe(ctx, b.Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.Channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.Logger.Warn("bad realtime payload", "error", err)
				continue
			}
			b.Hub.Deliver(ev)
		}
	}
}
