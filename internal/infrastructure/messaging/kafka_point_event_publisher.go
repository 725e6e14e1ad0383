package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/pedro-cabreu/next-level-week/internal/domain/model"
)

// MessageWriter パブリッシャーが使う*kafka.Writerのサブセット
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPointEventPublisher ポイントIDをキーにしてイベントをJSONで配信
type KafkaPointEventPublisher struct {
	writer MessageWriter
	topic  string
	logger zerolog.Logger
}

// NewKafkaWriter トピック用のWriterを作成（同じポイントのメッセージは同じパーティションへ）
func NewKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(broker),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewKafkaPointEventPublisher(writer MessageWriter, topic string, logger zerolog.Logger) *KafkaPointEventPublisher {
	return &KafkaPointEventPublisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

func (p *KafkaPointEventPublisher) PublishPointCreated(ctx context.Context, event model.PointCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.PointID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event for point %d: %w", event.Type, event.PointID, err)
	}

	p.logger.Debug().Str("topic", p.topic).Int64("point_id", event.PointID).Msg("📨 point event published")
	return nil
}

func (p *KafkaPointEventPublisher) Close() error {
	return p.writer.Close()
}

// NoopPointEventPublisher ブローカー未設定時に使うパブリッシャー
type NoopPointEventPublisher struct {
	logger zerolog.Logger
}

func NewNoopPointEventPublisher(logger zerolog.Logger) *NoopPointEventPublisher {
	return &NoopPointEventPublisher{logger: logger}
}

func (p *NoopPointEventPublisher) PublishPointCreated(ctx context.Context, event model.PointCreatedEvent) error {
	p.logger.Debug().Int64("point_id", event.PointID).Msg("no broker configured, point event skipped")
	return nil
}

func (p *NoopPointEventPublisher) Close() error {
	return nil
}
