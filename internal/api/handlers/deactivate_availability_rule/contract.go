package deactivate_availability_rule

import "context"

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	DeactivateRule(ctx context.Context, ruleID, companyID, userID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
}
