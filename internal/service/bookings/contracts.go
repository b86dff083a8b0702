package bookings

import (
	"context"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/identity"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) error
	UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, paymentRef *string) error
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
}

// SessionRepository интерфейс репозитория учебных сессий
type SessionRepository interface {
	ReleaseSeat(ctx context.Context, sessionID int64) error
}

// OutboxRepository интерфейс репозитория событий жизненного цикла
type OutboxRepository interface {
	Insert(ctx context.Context, topic, key string, payload []byte) (string, error)
}

// IdentityClient интерфейс клиента identity-сервиса
type IdentityClient interface {
	GetUser(ctx context.Context, userID int64) (*identity.User, error)
}

// PaymentClient интерфейс платежного провайдера
type PaymentClient interface {
	Enabled() bool
	Capture(ctx context.Context, paymentRef string) error
	Void(ctx context.Context, paymentRef string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
