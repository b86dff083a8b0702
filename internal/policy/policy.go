// Package policy содержит чистые предикаты бизнес-правил бронирования.
// Правила различаются между продуктовыми линейками только параметрами
// (12 или 24 часа нотиса, с буфером или без), поэтому вынесены в отдельные
// синхронно тестируемые функции без обращений к хранилищу и часам
package policy

import (
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
)

// IsAdvanceNoticeSatisfied проверяет минимальное время до начала бронирования
// Кандидат, начинающийся ровно в now + minNotice, проходит; секундой раньше - нет
func IsAdvanceNoticeSatisfied(now, candidateStart time.Time, minNotice time.Duration) bool {
	return !candidateStart.Before(now.Add(minNotice))
}

// FindDuplicate ищет у заявителя пересекающееся нетерминальное бронирование
// Возвращает найденное бронирование или nil
// Отменённые и отклонённые бронирования дубликатами не считаются
func FindDuplicate(existing []*domain.Booking, candidate domain.Interval, requesterID int64) *domain.Booking {
	for _, b := range existing {
		if b.UserID != requesterID {
			continue
		}
		if b.IsTerminal() {
			continue
		}
		if candidate.Overlaps(b.Interval()) {
			return b
		}
	}
	return nil
}

// IsDuplicate проверяет, держит ли заявитель пересекающееся нетерминальное бронирование
func IsDuplicate(existing []*domain.Booking, candidate domain.Interval, requesterID int64) bool {
	return FindDuplicate(existing, candidate, requesterID) != nil
}
