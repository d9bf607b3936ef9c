package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pitchvault/internal/domain"
)

// ChannelFor names the per-actor Pub/Sub channel carrying that actor's
// real-time domain events.
func ChannelFor(actorID uuid.UUID) string {
	return "events:" + actorID.String()
}

type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) Publish(ctx context.Context, actorID uuid.UUID, env domain.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, ChannelFor(actorID), payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return nil
}
