package timezone

import (
	"errors"
	"fmt"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

const dateLayout = "2006-01-02"

var (
	// ErrUnknownZone возвращается, когда именованный часовой пояс не найден в базе IANA
	ErrUnknownZone = errors.New("timezone: unknown time zone")

	// ErrInvalidTimeInput возвращается при некорректной строке даты или времени
	ErrInvalidTimeInput = errors.New("timezone: invalid time input")
)

// Zone бизнесовый часовой пояс компании
// Все правила расписания (день недели, часы работы) интерпретируются в этом поясе,
// все моменты времени хранятся и сравниваются в UTC
type Zone struct {
	name string
	loc  *time.Location
}

// Load загружает именованный часовой пояс (например, "America/New_York")
// Конвертация делегируется базе IANA, поэтому переходы на летнее время
// обрабатываются корректно, без фиксированного смещения
func Load(name string) (Zone, error) {
	if name == "" {
		return Zone{}, fmt.Errorf("%w: empty zone name", ErrUnknownZone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	return Zone{name: name, loc: loc}, nil
}

// Name возвращает имя пояса
func (z Zone) Name() string {
	return z.name
}

// ParseDate парсит локальную дату "YYYY-MM-DD" в полночь бизнесового пояса
func (z Zone) ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, s, z.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q, expected YYYY-MM-DD", ErrInvalidTimeInput, s)
	}
	return d, nil
}

// ToInstant конвертирует локальную дату + время суток в абсолютный момент (UTC)
func (z Zone) ToInstant(date time.Time, t types.TimeString) (time.Time, error) {
	minutes, err := t.Minutes()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimeInput, err)
	}

	y, m, d := date.In(z.loc).Date()
	local := time.Date(y, m, d, minutes/60, minutes%60, 0, 0, z.loc)
	return local.UTC(), nil
}

// FromInstant конвертирует абсолютный момент в локальную дату и время суток
func (z Zone) FromInstant(instant time.Time) (time.Time, types.TimeString) {
	local := instant.In(z.loc)
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, z.loc), types.NewTimeString(local)
}

// Weekday возвращает день недели даты в бизнесовом поясе (0 = воскресенье)
func (z Zone) Weekday(date time.Time) time.Weekday {
	return date.In(z.loc).Weekday()
}

// DayWindow возвращает границы локальных суток даты как абсолютные моменты [start, end)
func (z Zone) DayWindow(date time.Time) (time.Time, time.Time) {
	y, m, d := date.In(z.loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, z.loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// StartOfDay возвращает полночь даты в бизнесовом поясе
func (z Zone) StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(z.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, z.loc)
}

// SameDay проверяет, что два момента приходятся на одну локальную дату
func (z Zone) SameDay(a, b time.Time) bool {
	ay, am, ad := a.In(z.loc).Date()
	by, bm, bd := b.In(z.loc).Date()
	return ay == by && am == bm && ad == bd
}
