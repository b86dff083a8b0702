package get_available_slots

import (
	"context"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetWithFilter получает бронирования компании по фильтру
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// ConfigRepository интерфейс репозитория конфигурации политики бронирования
type ConfigRepository interface {
	// GetConfigWithHierarchy получает конфигурацию с учетом иерархии приоритетов
	GetConfigWithHierarchy(ctx context.Context, companyID int64, moduleID *int64) (*domain.CompanyBookingConfig, error)
}

// ScheduleRepository интерфейс репозитория расписаний и блэкаутов
type ScheduleRepository interface {
	ListRulesFor(ctx context.Context, companyID int64, resourceType domain.ResourceType, resourceID *int64, dayOfWeek int) ([]*domain.AvailabilityRule, error)
	ListTimeOff(ctx context.Context, companyID int64, resourceType domain.ResourceType, resourceID *int64, start, end time.Time) ([]*domain.TimeOff, error)
}

// ResourceRepository интерфейс репозитория модулей, инструкторов и грузовиков
type ResourceRepository interface {
	GetModule(ctx context.Context, companyID, moduleID int64) (*domain.Module, error)
	ListInstructors(ctx context.Context, companyID int64, onlyActive bool) ([]*domain.Instructor, error)
	ListVehicles(ctx context.Context, companyID int64, onlyActive bool) ([]*domain.Vehicle, error)
}

// SessionRepository интерфейс репозитория учебных сессий
type SessionRepository interface {
	ListForDate(ctx context.Context, companyID int64, date time.Time) ([]*domain.TrainingSession, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
