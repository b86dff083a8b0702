package create_booking

import (
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	createBooking "github.com/wavyvi00/cdltrainingbooking-sub000/internal/usecase/create_booking"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CompanyID   int64   `json:"companyId"`
	ModuleID    int64   `json:"moduleId"`
	BookingDate string  `json:"bookingDate"` // "2026-09-10"
	StartTime   string  `json:"startTime"`   // "10:00"
	Notes       *string `json:"notes,omitempty"`
	PayNow      bool    `json:"payNow,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	CompanyID       int64   `json:"companyId"`
	ModuleID        int64   `json:"moduleId"`
	SessionID       *int64  `json:"sessionId,omitempty"`
	InstructorID    *int64  `json:"instructorId,omitempty"`
	VehicleID       *int64  `json:"vehicleId,omitempty"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int     `json:"durationMinutes"`
	StartsAt        string  `json:"startsAt"`
	EndsAt          string  `json:"endsAt"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	AmountCents     int64   `json:"amountCents"`
	ModuleName      string  `json:"moduleName"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64, isAdmin bool) (*createBooking.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:    userID,
		CompanyID: r.CompanyID,
		ModuleID:  r.ModuleID,
		Date:      r.BookingDate,
		StartTime: startTime,
		Notes:     r.Notes,
		PayNow:    r.PayNow,
		IsAdmin:   isAdmin,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		CompanyID:       resp.CompanyID,
		ModuleID:        resp.ModuleID,
		SessionID:       resp.SessionID,
		InstructorID:    resp.InstructorID,
		VehicleID:       resp.VehicleID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		DurationMinutes: resp.DurationMinutes,
		StartsAt:        resp.StartsAt.Format(time.RFC3339),
		EndsAt:          resp.EndsAt.Format(time.RFC3339),
		Status:          resp.Status,
		PaymentStatus:   resp.PaymentStatus,
		AmountCents:     resp.AmountCents,
		ModuleName:      resp.ModuleName,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
