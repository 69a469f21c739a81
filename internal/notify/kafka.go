package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes notifications to a topic, keyed by session id.
// Publishing runs in the background and never blocks the cart operation.
type KafkaNotifier struct {
	writer  messageWriter
	timeout time.Duration
	pending sync.WaitGroup
}

func NewKafkaNotifier(topic string, brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w, timeout: 5 * time.Second}
}

type notificationEvent struct {
	SessionID string    `json:"session_id,omitempty"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

func (k *KafkaNotifier) Notify(ctx context.Context, n Notification) {
	sessionID := SessionID(ctx)
	payload, err := json.Marshal(notificationEvent{
		SessionID: sessionID,
		Message:   n.Message,
		Severity:  n.Severity,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("marshal notification error: %v", err)
		return
	}

	k.pending.Add(1)
	go func() {
		defer k.pending.Done()
		writeCtx, cancel := context.WithTimeout(context.Background(), k.timeout)
		defer cancel()
		msg := kafka.Message{Key: []byte(sessionID), Value: payload}
		if err := k.writer.WriteMessages(writeCtx, msg); err != nil {
			log.Printf("publish notification error: %v", err)
		}
	}()
}

// Close waits for in-flight publishes and then closes the writer.
func (k *KafkaNotifier) Close() error {
	k.pending.Wait()
	return k.writer.Close()
}
