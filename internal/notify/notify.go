// internal/notify/notify.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/trekker/logger"
)

// Notifier is the real-time fan-out side channel. It is strictly best
// effort: a broker failure is logged and swallowed, never propagated
// into the transaction that triggered the event.
type Notifier interface {
	Publish(ctx context.Context, kind string, payload interface{})
	Close() error
}

type Event struct {
	Kind    string      `json:"kind"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload"`
}

const (
	EventTeamRegistered  = "team.registered"
	EventEvaluationSaved = "evaluation.saved"
)

type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, string, interface{}) {}
func (NopNotifier) Close() error                                 { return nil }

type RedisNotifier struct {
	redis   *redis.Client
	channel string
}

func NewRedisNotifier(redisURL, channel string) (*RedisNotifier, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisNotifier{redis: client, channel: channel}, nil
}

func (n *RedisNotifier) Publish(ctx context.Context, kind string, payload interface{}) {
	data, err := json.Marshal(Event{Kind: kind, At: time.Now().UTC(), Payload: payload})
	if err != nil {
		logger.Error.Printf("Failed to encode %s event: %v", kind, err)
		return
	}
	if err := n.redis.Publish(ctx, n.channel, data).Err(); err != nil {
		logger.Error.Printf("Failed to publish %s event: %v", kind, err)
	}
}

func (n *RedisNotifier) Close() error {
	if n.redis != nil {
		return n.redis.Close()
	}
	return nil
}
