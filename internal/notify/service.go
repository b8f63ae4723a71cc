package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkax "github.com/aminekb/bebeshop/internal/kafka"
	"github.com/aminekb/bebeshop/internal/orders"
	"github.com/aminekb/bebeshop/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const recentCap = 100

// Note is one line in the staff console feed. Delivery (sound, browser
// push) is presentation and lives outside this service; we only keep the
// counter and the recent list the console polls.
type Note struct {
	Kind    string        `json:"kind"` // order_created | order_status_changed
	OrderID string        `json:"order_id"`
	Status  orders.Status `json:"status,omitempty"`
	At      time.Time     `json:"at"`
}

type Service struct {
	Redis *redis.Client
	Log   *zap.Logger
}

// HandleOrderEvent is the consumer handler for both order topics.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	note, ok := noteFromEnvelope(env)
	if !ok {
		return nil // not a feed-worthy event
	}

	// dedup via Redis by event id
	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	b, err := json.Marshal(note)
	if err != nil {
		return err
	}
	pipe := s.Redis.TxPipeline()
	pipe.Incr(ctx, redisx.KeyNotifUnread)
	pipe.LPush(ctx, redisx.KeyNotifRecent, b)
	pipe.LTrim(ctx, redisx.KeyNotifRecent, 0, recentCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	s.Log.Info("notification queued",
		zap.String("kind", note.Kind), zap.String("order_id", note.OrderID))
	return nil
}

// noteFromEnvelope maps an order event to a feed entry; unknown event types
// are skipped.
func noteFromEnvelope(env orders.Envelope) (Note, bool) {
	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return Note{}, false
		}
		return Note{Kind: "order_created", OrderID: p.OrderID, At: env.OccurredAt}, true
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return Note{}, false
		}
		return Note{Kind: "order_status_changed", OrderID: p.OrderID, Status: p.To, At: env.OccurredAt}, true
	default:
		return Note{}, false
	}
}

// Unread and Recent back the console's polling endpoint.
func (s *Service) Unread(ctx context.Context) (int, error) {
	n, err := s.Redis.Get(ctx, redisx.KeyNotifUnread).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (s *Service) Recent(ctx context.Context, n int) ([]Note, error) {
	if n <= 0 || n > recentCap {
		n = recentCap
	}
	raw, err := s.Redis.LRange(ctx, redisx.KeyNotifRecent, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Note, 0, len(raw))
	for _, r := range raw {
		var note Note
		if err := json.Unmarshal([]byte(r), &note); err != nil {
			continue
		}
		out = append(out, note)
	}
	return out, nil
}

func (s *Service) MarkRead(ctx context.Context) error {
	return s.Redis.Del(ctx, redisx.KeyNotifUnread).Err()
}
