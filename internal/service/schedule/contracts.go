package schedule

import (
	"context"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/identity"
)

// ConfigRepository интерфейс репозитория конфигурации политики бронирования
type ConfigRepository interface {
	Upsert(ctx context.Context, cfg *domain.CompanyBookingConfig) (*domain.CompanyBookingConfig, error)
	GetConfigWithHierarchy(ctx context.Context, companyID int64, moduleID *int64) (*domain.CompanyBookingConfig, error)
	GetAllByCompany(ctx context.Context, companyID int64) ([]*domain.CompanyBookingConfig, error)
}

// ScheduleRepository интерфейс репозитория расписаний и блэкаутов
type ScheduleRepository interface {
	CreateRule(ctx context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error)
	ListRulesByCompany(ctx context.Context, companyID int64) ([]*domain.AvailabilityRule, error)
	SetRuleActive(ctx context.Context, id int64, active bool) error
	CreateTimeOff(ctx context.Context, timeOff *domain.TimeOff) (*domain.TimeOff, error)
	ListTimeOff(ctx context.Context, companyID int64, resourceType domain.ResourceType, resourceID *int64, start, end time.Time) ([]*domain.TimeOff, error)
}

// ResourceRepository интерфейс репозитория инструкторов, грузовиков и модулей
type ResourceRepository interface {
	GetModule(ctx context.Context, companyID, moduleID int64) (*domain.Module, error)
	CreateInstructor(ctx context.Context, instructor *domain.Instructor) (*domain.Instructor, error)
	ListInstructors(ctx context.Context, companyID int64, onlyActive bool) ([]*domain.Instructor, error)
	SetInstructorActive(ctx context.Context, id int64, active bool) error
	CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context, companyID int64, onlyActive bool) ([]*domain.Vehicle, error)
	SetVehicleActive(ctx context.Context, id int64, active bool) error
	ListModules(ctx context.Context, companyID int64, onlyActive bool) ([]*domain.Module, error)
}

// IdentityClient интерфейс клиента identity-сервиса
type IdentityClient interface {
	GetUser(ctx context.Context, userID int64) (*identity.User, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
