package get_availability_rules

import (
	"context"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule/models"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	ListRules(ctx context.Context, companyID, userID int64) (*models.RuleListResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Warn(format string, args ...interface{})
}
