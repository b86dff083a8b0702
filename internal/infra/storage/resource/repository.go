package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/dbmetrics"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/psqlbuilder"
)

type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий инструкторов, грузовиков и модулей
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// --- Инструкторы ---

// CreateInstructor создает инструктора
func (r *Repository) CreateInstructor(ctx context.Context, instructor *domain.Instructor) (*domain.Instructor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("instructors").
		Columns("company_id", "name", "module_ids", "active").
		Values(instructor.CompanyID, instructor.Name, pq.Array(instructor.ModuleIDs), instructor.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateInstructor - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&instructor.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateInstructor - execute insert: %v", ErrExecQuery, err)
	}

	instructor.CreatedAt = createdAt.Time
	instructor.UpdatedAt = updatedAt.Time

	return instructor, nil
}

// ListInstructors получает инструкторов компании в стабильном порядке (id ASC)
// Порядок важен: аллокатор выбирает первого подходящего свободного инструктора,
// и при одинаковом состоянии выбор должен быть детерминированным
func (r *Repository) ListInstructors(ctx context.Context, companyID int64, onlyActive bool) ([]*domain.Instructor, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"company_id",
		"name",
		"module_ids",
		"active",
		"created_at",
		"updated_at",
	).
		From("instructors").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("id ASC")

	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListInstructors - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListInstructors - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	instructors := make([]*domain.Instructor, 0)
	for rows.Next() {
		var instructor domain.Instructor
		var moduleIDs pq.Int64Array
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&instructor.ID,
			&instructor.CompanyID,
			&instructor.Name,
			&moduleIDs,
			&instructor.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListInstructors - scan row: %v", ErrScanRow, err)
		}

		instructor.ModuleIDs = []int64(moduleIDs)
		instructor.CreatedAt = createdAt.Time
		instructor.UpdatedAt = updatedAt.Time
		instructors = append(instructors, &instructor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListInstructors - rows error: %v", ErrScanRow, err)
	}

	return instructors, nil
}

// SetInstructorActive активирует или деактивирует инструктора
// Деактивация не трогает существующие бронирования
func (r *Repository) SetInstructorActive(ctx context.Context, id int64, active bool) error {
	return r.setActive(ctx, "instructors", id, active, ErrInstructorNotFound)
}

// --- Грузовики ---

// CreateVehicle создает грузовик
func (r *Repository) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("vehicles").
		Columns("company_id", "name", "license_plate", "active").
		Values(vehicle.CompanyID, vehicle.Name, vehicle.LicensePlate, vehicle.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateVehicle - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&vehicle.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: CreateVehicle - execute insert: %v", ErrExecQuery, err)
	}

	vehicle.CreatedAt = createdAt.Time
	vehicle.UpdatedAt = updatedAt.Time

	return vehicle, nil
}

// ListVehicles получает грузовики компании в стабильном порядке (id ASC)
func (r *Repository) ListVehicles(ctx context.Context, companyID int64, onlyActive bool) ([]*domain.Vehicle, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"company_id",
		"name",
		"license_plate",
		"active",
		"created_at",
		"updated_at",
	).
		From("vehicles").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("id ASC")

	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListVehicles - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListVehicles - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0)
	for rows.Next() {
		var vehicle domain.Vehicle
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&vehicle.ID,
			&vehicle.CompanyID,
			&vehicle.Name,
			&vehicle.LicensePlate,
			&vehicle.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListVehicles - scan row: %v", ErrScanRow, err)
		}

		vehicle.CreatedAt = createdAt.Time
		vehicle.UpdatedAt = updatedAt.Time
		vehicles = append(vehicles, &vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListVehicles - rows error: %v", ErrScanRow, err)
	}

	return vehicles, nil
}

// SetVehicleActive активирует или деактивирует грузовик
func (r *Repository) SetVehicleActive(ctx context.Context, id int64, active bool) error {
	return r.setActive(ctx, "vehicles", id, active, ErrVehicleNotFound)
}

// --- Модули ---

var moduleColumns = []string{
	"id",
	"company_id",
	"name",
	"duration_minutes",
	"capacity",
	"requires_instructor",
	"requires_vehicle",
	"price_cents",
	"active",
	"created_at",
	"updated_at",
}

// GetModule получает модуль компании по ID
func (r *Repository) GetModule(ctx context.Context, companyID, moduleID int64) (*domain.Module, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(moduleColumns...).
		From("modules").
		Where(squirrel.Eq{"id": moduleID, "company_id": companyID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetModule - build select query: %v", ErrBuildQuery, err)
	}

	var module domain.Module
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&module.ID,
		&module.CompanyID,
		&module.Name,
		&module.DurationMinutes,
		&module.Capacity,
		&module.RequiresInstructor,
		&module.RequiresVehicle,
		&module.PriceCents,
		&module.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrModuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetModule - scan module: %v", ErrScanRow, err)
	}

	module.CreatedAt = createdAt.Time
	module.UpdatedAt = updatedAt.Time

	return &module, nil
}

// ListModules получает модули компании
func (r *Repository) ListModules(ctx context.Context, companyID int64, onlyActive bool) ([]*domain.Module, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(moduleColumns...).
		From("modules").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("id ASC")

	if onlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListModules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListModules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	modules := make([]*domain.Module, 0)
	for rows.Next() {
		var module domain.Module
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&module.ID,
			&module.CompanyID,
			&module.Name,
			&module.DurationMinutes,
			&module.Capacity,
			&module.RequiresInstructor,
			&module.RequiresVehicle,
			&module.PriceCents,
			&module.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListModules - scan row: %v", ErrScanRow, err)
		}

		module.CreatedAt = createdAt.Time
		module.UpdatedAt = updatedAt.Time
		modules = append(modules, &module)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListModules - rows error: %v", ErrScanRow, err)
	}

	return modules, nil
}

func (r *Repository) setActive(ctx context.Context, table string, id int64, active bool, notFound error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("active", active).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: setActive - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: setActive - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: setActive - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return notFound
	}

	return nil
}
