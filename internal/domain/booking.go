package domain

import (
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusRequested          BookingStatus = "requested"
	StatusConfirmed          BookingStatus = "confirmed"
	StatusArrived            BookingStatus = "arrived"
	StatusCompleted          BookingStatus = "completed"
	StatusCancelledByUser    BookingStatus = "cancelled_by_user"
	StatusCancelledByCompany BookingStatus = "cancelled_by_company"
	StatusDeclined           BookingStatus = "declined"
	StatusNoShow             BookingStatus = "no_show"
)

// PaymentStatus represents the payment state recorded on a booking
// The service never interprets provider-specific states beyond these
type PaymentStatus string

const (
	PaymentUnpaid     PaymentStatus = "unpaid"
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentDeferred   PaymentStatus = "deferred" // оплата на месте, сохранён setup reference
	PaymentCaptured   PaymentStatus = "captured"
	PaymentVoided     PaymentStatus = "voided"
)

// Booking represents a reservation of a time interval for a training module
// Бронирования никогда не удаляются физически - только переводятся по статусам
type Booking struct {
	ID           int64
	CompanyID    int64
	UserID       int64
	ModuleID     int64
	SessionID    *int64 // учебная сессия (только для модулей с инструктором)
	InstructorID *int64
	VehicleID    *int64

	BookingDate     time.Time        // локальная дата в бизнесовом поясе
	StartTime       types.TimeString // локальное время начала
	DurationMinutes int
	StartsAt        time.Time // абсолютный момент начала (UTC)
	EndsAt          time.Time // абсолютный момент конца (UTC), всегда EndsAt > StartsAt

	Status        BookingStatus
	PaymentStatus PaymentStatus
	PaymentRef    *string // opaque reference платёжного провайдера
	AmountCents   int64

	// Denormalized data for history
	ModuleName string
	Notes      *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBlocking returns true if the booking counts toward collision checks
// Pending (requested) bookings block their slot; cancelled/declined never do
func (b *Booking) IsBlocking() bool {
	switch b.Status {
	case StatusRequested, StatusConfirmed, StatusArrived, StatusCompleted, StatusNoShow:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the booking was cancelled or declined
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelledByUser ||
		b.Status == StatusCancelledByCompany ||
		b.Status == StatusDeclined
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	for _, s := range CancellableStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}

// Interval returns the booking's half-open time interval
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartsAt, End: b.EndsAt}
}

// BookingsFilter фильтр для выборки бронирований компании
type BookingsFilter struct {
	CompanyID    int64
	ModuleID     *int64
	InstructorID *int64
	VehicleID    *int64
	UserID       *int64
	Date         *time.Time // конкретная локальная дата
	StartDate    *time.Time
	EndDate      *time.Time

	// Абсолютное окно по starts_at/ends_at: бронирования, пересекающие
	// [WindowStart, WindowEnd). В отличие от Date не зависит от границ
	// местных суток, окно можно расширить на буфер
	WindowStart *time.Time
	WindowEnd   *time.Time

	Status          *BookingStatus
	IncludeInactive bool // включать ли отменённые/отклонённые
}
