package get_booking

import (
	"context"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, bookingID int64, userID int64) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
