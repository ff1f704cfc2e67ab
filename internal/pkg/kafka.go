package pkg

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// FollowEvent 关注/取关事件，key 为被关注作者 id
type FollowEvent struct {
	Event     string `json:"event"` // follow / unfollow
	UserID    uint64 `json:"user_id"`
	AuthorID  uint64 `json:"author_id"`
	EventTime string `json:"event_time"`
}

func NewKafkaProducer(cfg KafkaConfig) (*KafkaProducer, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaProducer{writer: w, topic: cfg.Topic}, nil
}

func (p *KafkaProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// SendFollowEvent 发送关注事件，producer 为 nil 时静默跳过
func (p *KafkaProducer) SendFollowEvent(ctx context.Context, ev FollowEvent) error {
	if p == nil || p.writer == nil {
		return nil
	}
	if ev.EventTime == "" {
		ev.EventTime = time.Now().UTC().Format(time.RFC3339Nano)
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(MakeKeyFromID(ev.AuthorID)),
		Value: value,
	}
	return p.writer.WriteMessages(ctx, msg)
}

func MakeKeyFromID(id uint64) string {
	return fmt.Sprintf("%d", id)
}
