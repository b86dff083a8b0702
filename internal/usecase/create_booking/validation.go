package create_booking

import (
	"fmt"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/timezone"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.CompanyID <= 0 {
		return fmt.Errorf("%w: companyID must be positive", ErrInvalidInput)
	}

	if req.ModuleID <= 0 {
		return fmt.Errorf("%w: moduleID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
// Обе даты локальные в бизнесовом поясе компании
func validateDate(zone timezone.Zone, bookingDate, now time.Time, advanceBookingDays int) error {
	if bookingDate.Before(zone.StartOfDay(now)) {
		return ErrInvalidDate
	}

	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := zone.StartOfDay(now).AddDate(0, 0, advanceBookingDays)
	if bookingDate.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}
