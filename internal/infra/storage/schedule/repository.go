package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/dbmetrics"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий правил расписания и блэкаутов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var ruleColumns = []string{
	"id",
	"company_id",
	"resource_type",
	"resource_id",
	"day_of_week",
	"open_time",
	"close_time",
	"active",
	"created_at",
	"updated_at",
}

// CreateRule создает правило расписания
func (r *Repository) CreateRule(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("availability_rules").
		Columns("company_id", "resource_type", "resource_id", "day_of_week", "open_time", "close_time", "active").
		Values(rule.CompanyID, rule.ResourceType, rule.ResourceID, rule.DayOfWeek, rule.OpenTime, rule.CloseTime, rule.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateRule - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// ListRulesFor получает активные правила ресурса на день недели
// Правила возвращаются как есть, без слияния пересекающихся окон
func (r *Repository) ListRulesFor(ctx context.Context, companyID int64, resourceType domain.ResourceType, resourceID *int64, dayOfWeek int) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(ruleColumns...).
		From("availability_rules").
		Where(squirrel.Eq{
			"company_id":    companyID,
			"resource_type": resourceType,
			"day_of_week":   dayOfWeek,
			"active":        true,
		}).
		OrderBy("open_time ASC")

	if resourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_id": *resourceID})
	} else {
		selectBuilder = selectBuilder.Where("resource_id IS NULL")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRulesFor - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRulesFor - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

// ListRulesByCompany получает все правила компании (для админского экрана расписания)
func (r *Repository) ListRulesByCompany(ctx context.Context, companyID int64) ([]*domain.AvailabilityRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("availability_rules").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("resource_type ASC, resource_id ASC, day_of_week ASC, open_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRulesByCompany - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRulesByCompany - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanRules(rows)
}

// SetRuleActive включает или выключает правило
func (r *Repository) SetRuleActive(ctx context.Context, id int64, active bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("availability_rules").
		Set("active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetRuleActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetRuleActive - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetRuleActive - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

// CreateTimeOff создает блэкаут
func (r *Repository) CreateTimeOff(ctx context.Context, timeOff *domain.TimeOff) (*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("time_off").
		Columns("company_id", "resource_type", "resource_id", "starts_at", "ends_at", "reason").
		Values(timeOff.CompanyID, timeOff.ResourceType, timeOff.ResourceID, timeOff.StartsAt, timeOff.EndsAt, timeOff.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateTimeOff - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&timeOff.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateTimeOff - execute insert: %v", ErrExecQuery, err)
	}

	timeOff.CreatedAt = createdAt.Time

	return timeOff, nil
}

// ListTimeOff получает блэкауты, пересекающиеся с окном [start, end)
// Для ресурсных блэкаутов дополнительно возвращаются блэкауты уровня компании:
// закрытая компания закрывает и всех инструкторов
func (r *Repository) ListTimeOff(ctx context.Context, companyID int64, resourceType domain.ResourceType, resourceID *int64, start, end time.Time) ([]*domain.TimeOff, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"company_id",
		"resource_type",
		"resource_id",
		"starts_at",
		"ends_at",
		"reason",
		"created_at",
	).
		From("time_off").
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.Lt{"starts_at": end}).
		Where(squirrel.Gt{"ends_at": start}).
		OrderBy("starts_at ASC")

	if resourceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"resource_type": domain.ResourceCompany},
			squirrel.And{
				squirrel.Eq{"resource_type": resourceType},
				squirrel.Eq{"resource_id": *resourceID},
			},
		})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"resource_type": domain.ResourceCompany})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeOff - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTimeOff - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	timeOffs := make([]*domain.TimeOff, 0)
	for rows.Next() {
		var t domain.TimeOff
		var createdAt sql.NullTime

		err := rows.Scan(
			&t.ID,
			&t.CompanyID,
			&t.ResourceType,
			&t.ResourceID,
			&t.StartsAt,
			&t.EndsAt,
			&t.Reason,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTimeOff - scan row: %v", ErrScanRow, err)
		}

		t.CreatedAt = createdAt.Time
		timeOffs = append(timeOffs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTimeOff - rows error: %v", ErrScanRow, err)
	}

	return timeOffs, nil
}

func (r *Repository) scanRules(rows *sql.Rows) ([]*domain.AvailabilityRule, error) {
	rules := make([]*domain.AvailabilityRule, 0)

	for rows.Next() {
		var rule domain.AvailabilityRule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.CompanyID,
			&rule.ResourceType,
			&rule.ResourceID,
			&rule.DayOfWeek,
			&rule.OpenTime,
			&rule.CloseTime,
			&rule.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanRules - scan row: %v", ErrScanRow, err)
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRules - rows error: %v", ErrScanRow, err)
	}

	return rules, nil
}
