package session

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/dbmetrics"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/psqlbuilder"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

type DBExecutor = dbmetrics.DBExecutor

var sessionColumns = []string{
	"id",
	"company_id",
	"module_id",
	"instructor_id",
	"vehicle_id",
	"session_date",
	"start_time",
	"duration_minutes",
	"starts_at",
	"ends_at",
	"capacity",
	"seats_taken",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий учебных сессий
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую сессию с первым занятым местом
func (r *Repository) Create(ctx context.Context, session *domain.TrainingSession) (*domain.TrainingSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("training_sessions").
		Columns(
			"company_id",
			"module_id",
			"instructor_id",
			"vehicle_id",
			"session_date",
			"start_time",
			"duration_minutes",
			"starts_at",
			"ends_at",
			"capacity",
			"seats_taken",
			"status",
		).
		Values(
			session.CompanyID,
			session.ModuleID,
			session.InstructorID,
			session.VehicleID,
			session.SessionDate,
			session.StartTime,
			session.DurationMinutes,
			session.StartsAt,
			session.EndsAt,
			session.Capacity,
			session.SeatsTaken,
			session.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&session.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return session, nil
}

// GetByID получает сессию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TrainingSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(sessionColumns...).
		From("training_sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	session, err := r.scanSession(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan session: %v", ErrScanRow, err)
	}

	return session, nil
}

// FindOpenSession ищет открытую сессию модуля на дату и время
// Внутри транзакции блокирует строку (FOR UPDATE) - решение join-vs-create
// должно приниматься над зафиксированным состоянием
func (r *Repository) FindOpenSession(ctx context.Context, companyID, moduleID int64, date time.Time, startTime types.TimeString) (*domain.TrainingSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From("training_sessions").
		Where(squirrel.Eq{
			"company_id":   companyID,
			"module_id":    moduleID,
			"session_date": date,
			"start_time":   startTime,
		}).
		Where(squirrel.NotEq{"status": domain.SessionCancelled})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOpenSession - build select query: %v", ErrBuildQuery, err)
	}

	session, err := r.scanSession(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindOpenSession - scan session: %v", ErrScanRow, err)
	}

	return session, nil
}

// ListForDate получает все неотменённые сессии компании на дату
// Используется аллокатором для вычисления занятости инструкторов и грузовиков
func (r *Repository) ListForDate(ctx context.Context, companyID int64, date time.Time) ([]*domain.TrainingSession, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(sessionColumns...).
		From("training_sessions").
		Where(squirrel.Eq{"company_id": companyID, "session_date": date}).
		Where(squirrel.NotEq{"status": domain.SessionCancelled}).
		OrderBy("start_time ASC, id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	sessions := make([]*domain.TrainingSession, 0)
	for rows.Next() {
		session, err := r.scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListForDate - scan row: %v", ErrScanRow, err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListForDate - rows error: %v", ErrScanRow, err)
	}

	return sessions, nil
}

// ClaimSeat атомарно занимает место в сессии
// Условный UPDATE гарантирует, что счётчик не превысит вместимость даже при
// конкурентных joins: проигравший получает ErrSessionFull, а не переполнение.
// Сессия, достигшая вместимости, закрывается для новых joins (status = full)
func (r *Repository) ClaimSeat(ctx context.Context, sessionID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("training_sessions").
		Set("seats_taken", squirrel.Expr("seats_taken + 1")).
		Set("status", squirrel.Expr("CASE WHEN seats_taken + 1 >= capacity THEN 'full' ELSE status END")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": sessionID, "status": domain.SessionOpen}).
		Where(squirrel.Expr("seats_taken < capacity")).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ClaimSeat - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ClaimSeat - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ClaimSeat - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSessionFull
	}

	return nil
}

// ReleaseSeat освобождает место в сессии (при отмене бронирования)
// Заполненная сессия снова открывается для joins
func (r *Repository) ReleaseSeat(ctx context.Context, sessionID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("training_sessions").
		Set("seats_taken", squirrel.Expr("GREATEST(seats_taken - 1, 0)")).
		Set("status", squirrel.Expr("CASE WHEN status = 'full' THEN 'open' ELSE status END")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": sessionID}).
		Where(squirrel.NotEq{"status": domain.SessionCancelled}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ReleaseSeat - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ReleaseSeat - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ReleaseSeat - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSession(row rowScanner) (*domain.TrainingSession, error) {
	var session domain.TrainingSession
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.CompanyID,
		&session.ModuleID,
		&session.InstructorID,
		&session.VehicleID,
		&session.SessionDate,
		&session.StartTime,
		&session.DurationMinutes,
		&session.StartsAt,
		&session.EndsAt,
		&session.Capacity,
		&session.SeatsTaken,
		&session.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return &session, nil
}
