package create_instructor

import (
	"context"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule/models"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	CreateInstructor(ctx context.Context, req *models.CreateInstructorRequest) (*models.InstructorResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
}
