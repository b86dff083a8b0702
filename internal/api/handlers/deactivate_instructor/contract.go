package deactivate_instructor

import "context"

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	DeactivateInstructor(ctx context.Context, instructorID, companyID, userID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
}
