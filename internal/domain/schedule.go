package domain

import (
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// ResourceType тип ресурса, к которому привязано правило расписания или блэкаут
type ResourceType string

const (
	ResourceCompany    ResourceType = "company"
	ResourceInstructor ResourceType = "instructor"
	ResourceVehicle    ResourceType = "vehicle"
)

// AvailabilityRule recurring weekly open window for a day of week
// У одного ресурса может быть несколько непересекающихся окон на один день;
// правила не сливаются и не дедуплицируются при резолве
type AvailabilityRule struct {
	ID           int64
	CompanyID    int64
	ResourceType ResourceType
	ResourceID   *int64 // nil для правил уровня компании
	DayOfWeek    int    // 0 = воскресенье ... 6 = суббота
	OpenTime     types.TimeString
	CloseTime    types.TimeString
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TimeOff explicit absolute-time blackout overriding recurring rules
// Истекает естественным образом (будущие запросы перестают его находить), не удаляется
type TimeOff struct {
	ID           int64
	CompanyID    int64
	ResourceType ResourceType
	ResourceID   *int64
	StartsAt     time.Time // UTC
	EndsAt       time.Time // UTC
	Reason       *string
	CreatedAt    time.Time
}

// Interval возвращает интервал блэкаута
func (t *TimeOff) Interval() Interval {
	return Interval{Start: t.StartsAt, End: t.EndsAt}
}

// OpenWindow локальное окно работы на конкретную дату, полученное из правила
type OpenWindow struct {
	Open  types.TimeString
	Close types.TimeString
}
