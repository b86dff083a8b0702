package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/dbmetrics"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Event событие жизненного цикла бронирования, записываемое в таблицу outbox
// в той же транзакции, что и изменение бронирования
type Event struct {
	ID          string
	Topic       string
	Key         string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// Repository репозиторий таблицы outbox_events
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория outbox
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Insert записывает событие в outbox. Вызывается внутри транзакции бронирования,
// чтобы событие фиксировалось атомарно с изменением данных
func (r *Repository) Insert(ctx context.Context, topic, key string, payload []byte) (string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	eventID := uuid.NewString()

	query, args, err := psqlbuilder.Insert("outbox_events").
		Columns("id", "topic", "key", "payload").
		Values(eventID, topic, key, payload).
		ToSql()

	if err != nil {
		return "", fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("%w: Insert - execute insert: %v", ErrExecQuery, err)
	}

	return eventID, nil
}

// FetchUnpublished получает пачку неопубликованных событий.
// SKIP LOCKED позволяет нескольким экземплярам сервиса не блокировать друг друга
func (r *Repository) FetchUnpublished(ctx context.Context, limit int) ([]*Event, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "topic", "key", "payload", "created_at").
		From("outbox_events").
		Where("published_at IS NULL").
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		var event Event
		var createdAt sql.NullTime

		err := rows.Scan(&event.ID, &event.Topic, &event.Key, &event.Payload, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: FetchUnpublished - scan row: %v", ErrScanRow, err)
		}

		event.CreatedAt = createdAt.Time
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchUnpublished - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}

// MarkPublished отмечает события опубликованными
func (r *Repository) MarkPublished(ctx context.Context, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("outbox_events").
		Set("published_at", squirrel.Expr("NOW()")).
		Where("id = ANY(?)", pq.Array(eventIDs)).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPublished - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: MarkPublished - execute update: %v", ErrExecQuery, err)
	}

	return nil
}
