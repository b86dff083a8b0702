package create_booking

import (
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// isWithinOpenWindows проверяет, что слот целиком помещается хотя бы в одно
// рабочее окно. Окна не сливаются: достаточно одного правила, содержащего слот
func isWithinOpenWindows(rules []*domain.AvailabilityRule, start types.TimeString, durationMinutes int) bool {
	end, err := start.AddMinutes(durationMinutes)
	if err != nil {
		// Слот выходит за границу суток
		return false
	}

	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		if !start.IsBefore(rule.OpenTime) && !end.IsAfter(rule.CloseTime) {
			return true
		}
	}

	return false
}

// overlapsBlackout проверяет пересечение с блэкаутами без буфера:
// слот, начинающийся ровно в конце блэкаута, допустим
func overlapsBlackout(interval domain.Interval, blackouts []*domain.TimeOff) bool {
	for _, blackout := range blackouts {
		if interval.Overlaps(blackout.Interval()) {
			return true
		}
	}
	return false
}

// countBufferedOverlaps подсчитывает блокирующие бронирования, чей интервал
// с буфером пересекается с кандидатом
func countBufferedOverlaps(interval domain.Interval, bookings []*domain.Booking, buffer time.Duration) int {
	count := 0
	for _, booking := range bookings {
		if !booking.IsBlocking() {
			continue
		}
		if interval.OverlapsBuffered(booking.Interval(), buffer) {
			count++
		}
	}
	return count
}
