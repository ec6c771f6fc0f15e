package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/cloud-wave-best-zizon/boutique-service/internal/domain"
)

// StockReconciler recomputes a product's aggregate stock.
type StockReconciler interface {
	ReconcileStock(ctx context.Context, productID string) (bool, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer reads order events and reconciles totalStock of every product
// they touch.
type KafkaConsumer struct {
	reader     messageReader
	reconciler StockReconciler
	logger     *zap.Logger
	cancel     context.CancelFunc
	done       chan struct{}
}

func NewKafkaConsumer(brokers, topic, groupID string, reconciler StockReconciler, logger *zap.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        strings.Split(brokers, ","),
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		StartOffset:    kafka.FirstOffset,
		CommitInterval: 0,
	})

	return newKafkaConsumer(reader, reconciler, logger)
}

func newKafkaConsumer(reader messageReader, reconciler StockReconciler, logger *zap.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		reader:     reader,
		reconciler: reconciler,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

func (kc *KafkaConsumer) Start(ctx context.Context) {
	ctx, kc.cancel = context.WithCancel(ctx)
	kc.logger.Info("Kafka consumer started")
	go kc.consume(ctx)
}

func (kc *KafkaConsumer) consume(ctx context.Context) {
	defer close(kc.done)

	for {
		msg, err := kc.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				kc.logger.Info("Kafka consumer stopped")
				return
			}
			kc.logger.Error("Error reading message", zap.Error(err))
			continue
		}

		if err := kc.processMessage(ctx, msg); err != nil {
			kc.logger.Error("Error processing message",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset))
			continue
		}

		// 처리 성공 시에만 커밋
		if err := kc.reader.CommitMessages(ctx, msg); err != nil {
			kc.logger.Error("Error committing message", zap.Error(err))
		}
	}
}

func (kc *KafkaConsumer) processMessage(ctx context.Context, msg kafka.Message) error {
	var event domain.OrderEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	kc.logger.Info("Processing order event",
		zap.String("type", string(event.Type)),
		zap.String("order_id", event.OrderID),
		zap.Int("items_count", len(event.Items)))

	seen := make(map[string]bool, len(event.Items))
	for _, item := range event.Items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true

		changed, err := kc.reconciler.ReconcileStock(ctx, item.ProductID)
		if errors.Is(err, domain.ErrProductNotFound) {
			kc.logger.Warn("Product gone, nothing to reconcile", zap.String("product_id", item.ProductID))
			continue
		}
		if err != nil {
			return fmt.Errorf("reconcile product %s: %w", item.ProductID, err)
		}
		if changed {
			kc.logger.Warn("Aggregate stock drift repaired",
				zap.String("product_id", item.ProductID),
				zap.String("order_id", event.OrderID))
		}
	}
	return nil
}

func (kc *KafkaConsumer) Stop() error {
	kc.logger.Info("Stopping Kafka consumer")
	if kc.cancel != nil {
		kc.cancel()
		<-kc.done
	}
	return kc.reader.Close()
}
