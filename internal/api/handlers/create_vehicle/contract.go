package create_vehicle

import (
	"context"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule/models"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	CreateVehicle(ctx context.Context, req *models.CreateVehicleRequest) (*models.VehicleResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
}
