package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/proserv/PS-BookingService/internal/domain"
)

// LifecycleEvent событие жизненного цикла бронирования
// Публикуется для коллаборатора уведомлений; одна публикация на переход
type LifecycleEvent struct {
	Event      string               `json:"event"`
	BookingID  int64                `json:"bookingId"`
	Status     domain.BookingStatus `json:"status"`
	ActorID    int64                `json:"actorId"`
	ActorRole  domain.ActorRole     `json:"actorRole"`
	OccurredAt time.Time            `json:"occurredAt"`
}

// Publisher публикует события жизненного цикла в Kafka
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher создает нового издателя событий
// Ключ сообщения - ID бронирования: Hash balancer сохраняет порядок
// событий одного бронирования в пределах партиции
func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}

	return &Publisher{writer: writer}
}

// Publish публикует одно событие
func (p *Publisher) Publish(ctx context.Context, event LifecycleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.BookingID, 10)),
		Value: payload,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write message: %w", err)
	}

	return nil
}

// Close закрывает соединение с Kafka
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher издатель-заглушка, применяется когда Kafka выключена в конфиге
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(ctx context.Context, event LifecycleEvent) error { return nil }

// Close ничего не делает
func (NopPublisher) Close() error { return nil }
