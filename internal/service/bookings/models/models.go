package models

import (
	"errors"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetCompanyBookingsRequest запрос на получение бронирований компании
type GetCompanyBookingsRequest struct {
	UserID          int64      `json:"userId"`
	CompanyID       int64      `json:"companyId"`
	ModuleID        *int64     `json:"moduleId,omitempty"`     // Фильтр по модулю (опционально)
	InstructorID    *int64     `json:"instructorId,omitempty"` // Фильтр по инструктору (опционально)
	VehicleID       *int64     `json:"vehicleId,omitempty"`    // Фильтр по грузовику (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`    // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`      // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`       // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetCompanyBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		CompanyID:       r.CompanyID,
		ModuleID:        r.ModuleID,
		InstructorID:    r.InstructorID,
		VehicleID:       r.VehicleID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID           int64  `json:"id"`
	UserID       int64  `json:"userId"`
	CompanyID    int64  `json:"companyId"`
	ModuleID     int64  `json:"moduleId"`
	SessionID    *int64 `json:"sessionId,omitempty"`
	InstructorID *int64 `json:"instructorId,omitempty"`
	VehicleID    *int64 `json:"vehicleId,omitempty"`

	BookingDate     string    `json:"bookingDate"` // "2026-09-10"
	StartTime       string    `json:"startTime"`   // "10:00"
	DurationMinutes int       `json:"durationMinutes"`
	StartsAt        time.Time `json:"startsAt"`
	EndsAt          time.Time `json:"endsAt"`

	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	AmountCents   int64  `json:"amountCents"`

	// Денормализованные данные
	ModuleName string  `json:"moduleName"`
	Notes      *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		CompanyID:          b.CompanyID,
		ModuleID:           b.ModuleID,
		SessionID:          b.SessionID,
		InstructorID:       b.InstructorID,
		VehicleID:          b.VehicleID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		StartsAt:           b.StartsAt,
		EndsAt:             b.EndsAt,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		AmountCents:        b.AmountCents,
		ModuleName:         b.ModuleName,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusRequested,
		domain.StatusConfirmed,
		domain.StatusArrived,
		domain.StatusCompleted,
		domain.StatusCancelledByUser,
		domain.StatusCancelledByCompany,
		domain.StatusDeclined,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
