package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidInterval возвращается для вырожденного интервала (end <= start)
	ErrInvalidInterval = errors.New("domain: invalid interval, end must be after start")
)

// Interval полуоткрытый временной интервал [Start, End) в абсолютном времени
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval создает интервал с проверкой вырожденности
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{Start: start, End: end}, nil
}

// IsValid проверяет, что интервал не вырожден
func (i Interval) IsValid() bool {
	return i.End.After(i.Start)
}

// Duration возвращает длительность интервала
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Contains проверяет, что other полностью лежит внутри интервала
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов
// Граничные случаи (конец одного равен началу другого) пересечением не считаются
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// OverlapsBuffered проверяет пересечение с other, расширенным на buffer с обеих сторон
// Буфер моделирует минимальный зазор между существующим бронированием и новым кандидатом:
// по соглашению расширяется только существующая (other) сторона, кандидат не трогается.
// Само сравнение коммутативно: swap сторон при том же буфере даёт тот же результат
func (i Interval) OverlapsBuffered(other Interval, buffer time.Duration) bool {
	padded := Interval{
		Start: other.Start.Add(-buffer),
		End:   other.End.Add(buffer),
	}
	return i.Overlaps(padded)
}

// OverlapsAny проверяет пересечение хотя бы с одним интервалом из списка
func (i Interval) OverlapsAny(others []Interval) bool {
	for _, other := range others {
		if i.Overlaps(other) {
			return true
		}
	}
	return false
}
