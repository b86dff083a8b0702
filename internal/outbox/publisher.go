package outbox

import (
	"context"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/outbox"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 50
)

// EventRepository интерфейс репозитория outbox событий
type EventRepository interface {
	FetchUnpublished(ctx context.Context, limit int) ([]*outbox.Event, error)
	MarkPublished(ctx context.Context, eventIDs []string) error
}

// TransactionManager интерфейс для выполнения операций в транзакции.
// Выборка FOR UPDATE SKIP LOCKED и отметка о публикации должны выполняться
// в одной транзакции, иначе блокировка строк теряется
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// KafkaWriter интерфейс для записи сообщений в Kafka
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Config настройки публикатора
type Config struct {
	Brokers      string
	PollInterval time.Duration
	BatchSize    int
}

// Publisher периодически выгребает неопубликованные события из таблицы
// outbox_events и отправляет их в Kafka. Запускается отдельной горутиной
// рядом с HTTP-сервером
type Publisher struct {
	repo         EventRepository
	txManager    TransactionManager
	writer       KafkaWriter
	logger       Logger
	pollInterval time.Duration
	batchSize    int
}

// NewPublisher создает публикатор. Возвращает nil, если брокеры не настроены -
// в этом случае события остаются в таблице до появления потребителя
func NewPublisher(repo EventRepository, txManager TransactionManager, cfg Config, logger Logger) *Publisher {
	brokers := splitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		logger.Warn("Outbox publisher disabled: no kafka brokers configured")
		return nil
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Balancer: &kafka.Hash{},
	})

	return &Publisher{
		repo:         repo,
		txManager:    txManager,
		writer:       writer,
		logger:       logger,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
	}
}

// Run запускает цикл публикации до отмены контекста
func (p *Publisher) Run(ctx context.Context) {
	defer p.writer.Close()

	p.logger.Info("Outbox publisher started: poll_interval=%s, batch_size=%d", p.pollInterval, p.batchSize)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox publisher stopped")
			return
		case <-ticker.C:
			if err := p.publishBatch(ctx); err != nil {
				p.logger.Error("Outbox publisher - Failed to publish batch: %v", err)
			}
		}
	}
}

func (p *Publisher) publishBatch(ctx context.Context) error {
	return p.txManager.Do(ctx, func(txCtx context.Context) error {
		events, err := p.repo.FetchUnpublished(txCtx, p.batchSize)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		messages := make([]kafka.Message, 0, len(events))
		for _, event := range events {
			messages = append(messages, kafka.Message{
				Topic: event.Topic,
				Key:   []byte(event.Key),
				Value: event.Payload,
				Headers: []kafka.Header{
					{Key: "event_id", Value: []byte(event.ID)},
				},
			})
		}

		if err := p.writer.WriteMessages(ctx, messages...); err != nil {
			return err
		}

		eventIDs := make([]string, 0, len(events))
		for _, event := range events {
			eventIDs = append(eventIDs, event.ID)
		}

		if err := p.repo.MarkPublished(txCtx, eventIDs); err != nil {
			return err
		}

		p.logger.Debug("Outbox publisher - Published %d events", len(events))
		return nil
	})
}

func splitBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
