package get_available_slots

import (
	"fmt"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/timezone"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CompanyID <= 0 {
		return fmt.Errorf("%w: companyID must be positive", ErrInvalidInput)
	}

	if req.ModuleID <= 0 {
		return fmt.Errorf("%w: moduleID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата подходит для бронирования
// Обе даты локальные в бизнесовом поясе компании
func validateDate(zone timezone.Zone, requestDate, now time.Time, advanceBookingDays int) error {
	// Дата в прошлом
	if requestDate.Before(zone.StartOfDay(now)) {
		return ErrInvalidDate
	}

	// Если advanceBookingDays = 0, нет ограничений на дату
	if advanceBookingDays == 0 {
		return nil
	}

	maxDate := zone.StartOfDay(now).AddDate(0, 0, advanceBookingDays)
	if requestDate.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}
