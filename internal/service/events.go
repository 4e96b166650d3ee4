package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/user/graphflix/internal/config"
	"github.com/user/graphflix/internal/model"
)

// EventPublisher 事件发布接口（测试时替换为记录型实现）
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// KafkaPublisher 基于 Kafka 的事件发布器。
// 只保证尽力投递（at-least-once），不等待下游消费确认。
type KafkaPublisher struct {
	producer *kafka.Producer
}

// NewKafkaPublisher 创建 Kafka 发布器
func NewKafkaPublisher(brokers string) (*KafkaPublisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return nil, fmt.Errorf("无法创建 Kafka producer: %w", err)
	}

	// 投递报告协程：失败只记录日志，不影响请求
	go func() {
		for e := range producer.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					log.Printf("事件投递失败: %v", ev.TopicPartition)
				}
			}
		}
	}()

	return &KafkaPublisher{producer: producer}, nil
}

// Publish 发布事件，key 用于分区路由
func (p *KafkaPublisher) Publish(_ context.Context, topic, key string, payload []byte) error {
	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(key),
		Value:          payload,
	}, nil)
}

// Close 等待未投递完的消息后关闭
func (p *KafkaPublisher) Close() {
	remaining := p.producer.Flush(10_000) // 10 s
	if remaining != 0 {
		log.Printf("仍有 %d 条事件未投递", remaining)
	}
	p.producer.Close()
}

// RatingEventProducer 评分事件生产者（以 movieId 作为分区 key）
type RatingEventProducer struct {
	publisher EventPublisher
	topics    config.Topics
}

func NewRatingEventProducer(publisher EventPublisher, topics config.Topics) *RatingEventProducer {
	return &RatingEventProducer{publisher: publisher, topics: topics}
}

func (p *RatingEventProducer) Created(ctx context.Context, rating *model.Rating) error {
	return p.publish(ctx, p.topics.RatingCreated, model.EventRatingCreated, rating)
}

func (p *RatingEventProducer) Updated(ctx context.Context, rating *model.Rating) error {
	return p.publish(ctx, p.topics.RatingUpdated, model.EventRatingUpdated, rating)
}

func (p *RatingEventProducer) Deleted(ctx context.Context, rating *model.Rating) error {
	return p.publish(ctx, p.topics.RatingDeleted, model.EventRatingDeleted, rating)
}

func (p *RatingEventProducer) publish(ctx context.Context, topic, eventType string, rating *model.Rating) error {
	event := model.RatingEvent{
		EventType: eventType,
		RatingID:  rating.ID,
		UserID:    rating.UserID,
		MovieID:   rating.MovieID,
		Rating:    rating.Rating,
		Comment:   rating.Comment,
		Timestamp: rating.Timestamp,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEventPublishing, err)
	}
	if err := p.publisher.Publish(ctx, topic, event.MovieID, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrEventPublishing, err)
	}
	return nil
}

// WatchlistEventProducer 想看清单事件生产者（以 userId 作为分区 key）
type WatchlistEventProducer struct {
	publisher EventPublisher
	topics    config.Topics
}

func NewWatchlistEventProducer(publisher EventPublisher, topics config.Topics) *WatchlistEventProducer {
	return &WatchlistEventProducer{publisher: publisher, topics: topics}
}

func (p *WatchlistEventProducer) Added(ctx context.Context, item *model.Watchlist) error {
	return p.publish(ctx, p.topics.WatchlistAdded, model.EventWatchlistAdded, item)
}

func (p *WatchlistEventProducer) Removed(ctx context.Context, item *model.Watchlist) error {
	return p.publish(ctx, p.topics.WatchlistRemoved, model.EventWatchlistRemoved, item)
}

func (p *WatchlistEventProducer) publish(ctx context.Context, topic, eventType string, item *model.Watchlist) error {
	event := model.WatchlistEvent{
		EventType:   eventType,
		WatchlistID: item.ID,
		UserID:      item.UserID,
		MovieID:     item.MovieID,
		MovieTitle:  item.MovieTitle,
		AddedAt:     item.AddedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEventPublishing, err)
	}
	if err := p.publisher.Publish(ctx, topic, event.UserID, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrEventPublishing, err)
	}
	return nil
}
