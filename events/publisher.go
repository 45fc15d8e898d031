package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Gin_postgres_redis_equipment_rent/models"

	"github.com/redis/go-redis/v9"
)

// StatusEvent 推送到 Redis 频道的设备状态变更消息
type StatusEvent struct {
	DeviceID   uint                `json:"deviceId"`
	FromStatus models.DeviceStatus `json:"fromStatus"`
	ToStatus   models.DeviceStatus `json:"toStatus"`
	Reason     string              `json:"reason"`
	ActorID    *uint               `json:"actorId,omitempty"`
	At         time.Time           `json:"at"`
}

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Channel() string { return p.channel }

func (p *RedisPublisher) PublishStatus(ctx context.Context, ch models.DeviceStatusLog) error {
	b, err := json.Marshal(StatusEvent{
		DeviceID:   ch.DeviceID,
		FromStatus: ch.FromStatus,
		ToStatus:   ch.ToStatus,
		Reason:     ch.Reason,
		ActorID:    ch.ActorID,
		At:         ch.CreatedAt,
	})
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	return nil
}

// Subscribe 返回解码后的事件流；ctx 结束时关闭订阅
func (p *RedisPublisher) Subscribe(ctx context.Context) (<-chan StatusEvent, error) {
	sub := p.rdb.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}
	out := make(chan StatusEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				var ev StatusEvent
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
