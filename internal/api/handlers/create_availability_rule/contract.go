package create_availability_rule

import (
	"context"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateRule(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
