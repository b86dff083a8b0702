package config

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/dbmetrics"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

var configColumns = []string{
	"id",
	"company_id",
	"module_id",
	"slot_granularity_minutes",
	"buffer_minutes",
	"min_notice_minutes",
	"advance_booking_days",
	"auto_confirm",
	"timezone",
	"created_at",
	"updated_at",
}

// Repository репозиторий конфигурации политики бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetConfigWithHierarchy получает конфигурацию с учетом иерархии приоритетов:
// 1. Конфигурация конкретного модуля (company_id, module_id)
// 2. Общая конфигурация компании (company_id, NULL)
func (r *Repository) GetConfigWithHierarchy(ctx context.Context, companyID int64, moduleID *int64) (*domain.CompanyBookingConfig, error) {
	if moduleID != nil {
		cfg, err := r.getBy(ctx, companyID, moduleID)
		if err == nil {
			return cfg, nil
		}
		if err != ErrConfigNotFound {
			return nil, err
		}
	}
	return r.getBy(ctx, companyID, nil)
}

// Upsert создает или обновляет конфигурацию уровня (company_id, module_id)
func (r *Repository) Upsert(ctx context.Context, cfg *domain.CompanyBookingConfig) (*domain.CompanyBookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("company_booking_config").
		Columns(
			"company_id",
			"module_id",
			"slot_granularity_minutes",
			"buffer_minutes",
			"min_notice_minutes",
			"advance_booking_days",
			"auto_confirm",
			"timezone",
		).
		Values(
			cfg.CompanyID,
			cfg.ModuleID,
			cfg.SlotGranularityMinutes,
			cfg.BufferMinutes,
			cfg.MinNoticeMinutes,
			cfg.AdvanceBookingDays,
			cfg.AutoConfirm,
			cfg.Timezone,
		).
		Suffix(`ON CONFLICT (company_id, COALESCE(module_id, 0)) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			min_notice_minutes = EXCLUDED.min_notice_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			auto_confirm = EXCLUDED.auto_confirm,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&cfg.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return cfg, nil
}

// GetAllByCompany получает все конфигурации компании
func (r *Repository) GetAllByCompany(ctx context.Context, companyID int64) ([]*domain.CompanyBookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(configColumns...).
		From("company_booking_config").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("module_id ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByCompany - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByCompany - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.CompanyBookingConfig, 0)
	for rows.Next() {
		cfg, err := r.scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByCompany - scan row: %v", ErrScanRow, err)
		}
		configs = append(configs, cfg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByCompany - rows error: %v", ErrScanRow, err)
	}

	return configs, nil
}

func (r *Repository) getBy(ctx context.Context, companyID int64, moduleID *int64) (*domain.CompanyBookingConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(configColumns...).
		From("company_booking_config").
		Where(squirrel.Eq{"company_id": companyID})

	if moduleID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"module_id": *moduleID})
	} else {
		selectBuilder = selectBuilder.Where("module_id IS NULL")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getBy - build select query: %v", ErrBuildQuery, err)
	}

	cfg, err := r.scanConfig(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getBy - scan config: %v", ErrScanRow, err)
	}

	return cfg, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanConfig(row rowScanner) (*domain.CompanyBookingConfig, error) {
	var cfg domain.CompanyBookingConfig
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&cfg.ID,
		&cfg.CompanyID,
		&cfg.ModuleID,
		&cfg.SlotGranularityMinutes,
		&cfg.BufferMinutes,
		&cfg.MinNoticeMinutes,
		&cfg.AdvanceBookingDays,
		&cfg.AutoConfirm,
		&cfg.Timezone,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	cfg.CreatedAt = createdAt.Time
	cfg.UpdatedAt = updatedAt.Time

	return &cfg, nil
}
