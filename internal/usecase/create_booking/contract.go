package create_booking

import (
	"context"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/payments"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	ListOverlappingForUser(ctx context.Context, userID int64, start, end time.Time) ([]*domain.Booking, error)
}

// ConfigRepository интерфейс репозитория конфигурации политики бронирования
type ConfigRepository interface {
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
	Create(ctx context.Context, session *domain.TrainingSession) (*domain.TrainingSession, error)
	FindOpenSession(ctx context.Context, companyID, moduleID int64, date time.Time, startTime types.TimeString) (*domain.TrainingSession, error)
	ListForDate(ctx context.Context, companyID int64, date time.Time) ([]*domain.TrainingSession, error)
	ClaimSeat(ctx context.Context, sessionID int64) error
}

// OutboxRepository интерфейс репозитория событий жизненного цикла
type OutboxRepository interface {
	Insert(ctx context.Context, topic, key string, payload []byte) (string, error)
}

// PaymentClient интерфейс платежного провайдера
type PaymentClient interface {
	Enabled() bool
	Authorize(ctx context.Context, amountCents int64, currency, idempotencyKey string) (*payments.Hold, error)
	SetupDeferred(ctx context.Context, idempotencyKey string) (string, error)
	Void(ctx context.Context, paymentRef string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
