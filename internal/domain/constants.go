package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes = 30
	DefaultBufferMinutes          = 15
	DefaultMinNoticeMinutes       = 720 // 12 часов
	DefaultAdvanceBookingDays     = 0   // 0 = unlimited
	DefaultTimezone               = "America/New_York"
)

// Business validation constants
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 240
	MinBufferMinutes            = 0
	MaxBufferMinutes            = 120
	MinNoticeMinutesLimit       = 0
	MaxNoticeMinutesLimit       = 10080 // неделя
	MaxAdvanceBookingDaysLimit  = 365
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы, не участвующие в проверках коллизий
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledByCompany,
	StatusDeclined,
}

// BlockingStatuses статусы, занимающие слот
// Используется для фильтрации при генерации слотов и проверке коллизий
var BlockingStatuses = []BookingStatus{
	StatusRequested,
	StatusConfirmed,
	StatusArrived,
	StatusCompleted,
	StatusNoShow,
}

// CancellableStatuses статусы, из которых бронирование еще можно отменить
// Хранилище использует список как предикат отмены: проверка и запись
// статуса идут одним UPDATE
var CancellableStatuses = []BookingStatus{
	StatusRequested,
	StatusConfirmed,
}

// ValidStatusTransitions допустимые административные переходы статусов
// Бронирование создается в requested (или confirmed при auto-confirm),
// дальше меняется только действиями администратора или системы
var ValidStatusTransitions = map[BookingStatus][]BookingStatus{
	StatusRequested: {StatusConfirmed, StatusDeclined, StatusCancelledByUser, StatusCancelledByCompany},
	StatusConfirmed: {StatusArrived, StatusNoShow, StatusCancelledByUser, StatusCancelledByCompany},
	StatusArrived:   {StatusCompleted},
}

// CanTransition проверяет допустимость перехода статуса
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range ValidStatusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
