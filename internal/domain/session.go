package domain

import (
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// SessionStatus статус учебной сессии
type SessionStatus string

const (
	SessionOpen      SessionStatus = "open"
	SessionFull      SessionStatus = "full"
	SessionCancelled SessionStatus = "cancelled"
)

// TrainingSession materialized shared time slot binding a module to one instructor
// and optionally one vehicle. Создается лениво первым бронированием;
// последующие бронирования присоединяются, пока есть места.
// SeatsTaken поддерживается транзакционно вместе с созданием бронирования,
// а не пересчитывается по строкам - иначе конкурентные joins переполняют сессию
type TrainingSession struct {
	ID           int64
	CompanyID    int64
	ModuleID     int64
	InstructorID int64
	VehicleID    *int64

	SessionDate     time.Time
	StartTime       types.TimeString
	DurationMinutes int
	StartsAt        time.Time // UTC
	EndsAt          time.Time // UTC

	Capacity   int
	SeatsTaken int
	Status     SessionStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSpareCapacity проверяет, можно ли присоединиться к сессии
func (s *TrainingSession) HasSpareCapacity() bool {
	return s.Status == SessionOpen && s.SeatsTaken < s.Capacity
}

// Interval возвращает интервал сессии
func (s *TrainingSession) Interval() Interval {
	return Interval{Start: s.StartsAt, End: s.EndsAt}
}

// ClaimsInstructor проверяет, что сессия удерживает указанного инструктора
func (s *TrainingSession) ClaimsInstructor(instructorID int64) bool {
	return s.Status != SessionCancelled && s.InstructorID == instructorID
}

// ClaimsVehicle проверяет, что сессия удерживает указанный грузовик
func (s *TrainingSession) ClaimsVehicle(vehicleID int64) bool {
	return s.Status != SessionCancelled && s.VehicleID != nil && *s.VehicleID == vehicleID
}
