package create_time_off

import (
	"context"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule/models"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	CreateTimeOff(ctx context.Context, req *models.CreateTimeOffRequest) (*models.TimeOffResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
}
