package get_available_slots

import (
	"sort"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/policy"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/timezone"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// candidate кандидат-слот: локальное время начала плюс абсолютный интервал
type candidate struct {
	startTime types.TimeString
	interval  domain.Interval
}

// instructorSchedule личный график инструктора на запрошенный день:
// свои правила на этот день недели и персональные блэкауты
type instructorSchedule struct {
	rules   []*domain.AvailabilityRule
	timeOff []*domain.TimeOff
}

// onDuty проверяет, доступен ли инструктор для кандидата
// Инструктор без своих правил наследует окно компании (оно уже проверено
// при генерации кандидатов); со своими правилами слот должен целиком
// помещаться в одно из его окон. Персональный блэкаут исключает инструктора
func (s instructorSchedule) onDuty(c candidate, durationMinutes int) bool {
	if len(s.rules) > 0 && !fitsAnyWindow(s.rules, c.startTime, durationMinutes) {
		return false
	}
	for _, blackout := range s.timeOff {
		if c.interval.Overlaps(blackout.Interval()) {
			return false
		}
	}
	return true
}

// fitsAnyWindow проверяет, что слот целиком лежит в одном из активных правил
func fitsAnyWindow(rules []*domain.AvailabilityRule, start types.TimeString, durationMinutes int) bool {
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		end, err := start.AddMinutes(durationMinutes)
		if err != nil {
			return false
		}
		if !start.IsBefore(rule.OpenTime) && !end.IsAfter(rule.CloseTime) {
			return true
		}
	}
	return false
}

// resolveOpenWindows превращает правила расписания в список рабочих окон
// Правила не сливаются и не дедуплицируются - пересекающиеся правила допустимы,
// их обрабатывает дедупликация стартов в enumerateStarts
func resolveOpenWindows(rules []*domain.AvailabilityRule) []domain.OpenWindow {
	windows := make([]domain.OpenWindow, 0, len(rules))
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		windows = append(windows, domain.OpenWindow{
			Open:  rule.OpenTime,
			Close: rule.CloseTime,
		})
	}
	return windows
}

// enumerateStarts генерирует все возможные времена начала слотов внутри рабочих окон
// Внутри каждого окна старты идут с шагом granularityMinutes; слот должен
// целиком помещаться в окно (start + duration <= close)
func enumerateStarts(windows []domain.OpenWindow, durationMinutes, granularityMinutes int) ([]types.TimeString, error) {
	seen := make(map[types.TimeString]struct{})
	starts := make([]types.TimeString, 0)

	for _, window := range windows {
		current := window.Open

		for current.IsBefore(window.Close) {
			slotEnd, err := current.AddMinutes(durationMinutes)
			if err != nil {
				break // слот вышел за границу суток
			}
			if slotEnd.IsAfter(window.Close) {
				break
			}

			if _, ok := seen[current]; !ok {
				seen[current] = struct{}{}
				starts = append(starts, current)
			}

			current, err = current.AddMinutes(granularityMinutes)
			if err != nil {
				break
			}
		}
	}

	sort.Slice(starts, func(i, j int) bool {
		return starts[i].IsBefore(starts[j])
	})

	return starts, nil
}

// buildCandidates привязывает локальные старты к абсолютным интервалам
// с учетом бизнесового часового пояса (включая переходы на летнее время)
func buildCandidates(zone timezone.Zone, date time.Time, starts []types.TimeString, durationMinutes int) ([]candidate, error) {
	candidates := make([]candidate, 0, len(starts))

	for _, start := range starts {
		startInstant, err := zone.ToInstant(date, start)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, candidate{
			startTime: start,
			interval: domain.Interval{
				Start: startInstant,
				End:   startInstant.Add(time.Duration(durationMinutes) * time.Minute),
			},
		})
	}

	return candidates, nil
}

// filterByNotice отбрасывает кандидатов, начинающихся раньше now + minNotice
// Кандидат, начинающийся ровно в now + minNotice, проходит
func filterByNotice(candidates []candidate, now time.Time, minNotice time.Duration) []candidate {
	result := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		if policy.IsAdvanceNoticeSatisfied(now, c.interval.Start, minNotice) {
			result = append(result, c)
		}
	}
	return result
}

// filterByBlackouts отбрасывает кандидатов, пересекающихся с блэкаутами
// Буфер к блэкаутам не применяется: сравнение строго по границам интервалов,
// поэтому слот, начинающийся ровно в конце блэкаута, остается доступным
func filterByBlackouts(candidates []candidate, blackouts []*domain.TimeOff) []candidate {
	result := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		conflict := false
		for _, blackout := range blackouts {
			if c.interval.Overlaps(blackout.Interval()) {
				conflict = true
				break
			}
		}
		if !conflict {
			result = append(result, c)
		}
	}
	return result
}

// countOverlappingBookings подсчитывает блокирующие бронирования, чей интервал
// с буфером пересекается с кандидатом
// Буфер применяется к существующему бронированию, не к кандидату: он моделирует
// минимальный промежуток между последовательными визитами
func countOverlappingBookings(interval domain.Interval, bookings []*domain.Booking, buffer time.Duration) int {
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

// calculateCompanySpots вычисляет доступность слотов для простого варианта:
// эксклюзивный ресурс - сама компания, каждое блокирующее бронирование занимает место
func calculateCompanySpots(candidates []candidate, bookings []*domain.Booking, buffer time.Duration, capacity int) []Slot {
	slots := make([]Slot, 0, len(candidates))

	for _, c := range candidates {
		overlapping := countOverlappingBookings(c.interval, bookings, buffer)

		available := capacity - overlapping
		if available < 0 {
			available = 0
		}

		slots = append(slots, Slot{
			StartTime:       c.startTime,
			DurationMinutes: int(c.interval.Duration() / time.Minute),
			AvailableSpots:  available,
			TotalSpots:      capacity,
		})
	}

	return slots
}

// calculateSharedSpots вычисляет доступность слотов для модулей с учебными сессиями.
// Если на это время уже есть открытая сессия модуля - места определяются её
// заполненностью; иначе слот доступен, только если найдутся свободный инструктор
// с нужной компетенцией и (при необходимости) свободный грузовик
func calculateSharedSpots(
	candidates []candidate,
	module *domain.Module,
	sessions []*domain.TrainingSession,
	instructors []*domain.Instructor,
	schedules map[int64]instructorSchedule,
	vehicles []*domain.Vehicle,
	buffer time.Duration,
) []Slot {
	slots := make([]Slot, 0, len(candidates))

	for _, c := range candidates {
		slots = append(slots, Slot{
			StartTime:       c.startTime,
			DurationMinutes: module.DurationMinutes,
			AvailableSpots:  sharedSpotsFor(c, module, sessions, instructors, schedules, vehicles, buffer),
			TotalSpots:      module.Capacity,
		})
	}

	return slots
}

func sharedSpotsFor(
	c candidate,
	module *domain.Module,
	sessions []*domain.TrainingSession,
	instructors []*domain.Instructor,
	schedules map[int64]instructorSchedule,
	vehicles []*domain.Vehicle,
	buffer time.Duration,
) int {
	// Существующая сессия этого модуля на это же время: места определяются ею,
	// инструктор и грузовик наследуются и не перевыбираются
	for _, session := range sessions {
		if session.Status == domain.SessionCancelled {
			continue
		}
		if session.ModuleID != module.ID {
			continue
		}
		if !session.StartsAt.Equal(c.interval.Start) {
			continue
		}

		available := session.Capacity - session.SeatsTaken
		if available < 0 || session.Status == domain.SessionFull {
			available = 0
		}
		return available
	}

	// Новой сессии нужны свободный инструктор и, если модуль требует, грузовик
	if findFreeInstructor(c, module, sessions, instructors, schedules, buffer) == nil {
		return 0
	}
	if module.RequiresVehicle && findFreeVehicle(c.interval, sessions, vehicles, buffer) == nil {
		return 0
	}

	return module.Capacity
}

// findFreeInstructor находит первого инструктора с нужной компетенцией, дежурного
// по личному графику и не занятого пересекающейся сессией. Инструкторы
// перебираются в порядке листинга (по id), поэтому выбор детерминирован
// при одинаковом состоянии данных
func findFreeInstructor(
	c candidate,
	module *domain.Module,
	sessions []*domain.TrainingSession,
	instructors []*domain.Instructor,
	schedules map[int64]instructorSchedule,
	buffer time.Duration,
) *domain.Instructor {
	for _, instructor := range instructors {
		if !instructor.CanTeach(module.ID) {
			continue
		}
		if !schedules[instructor.ID].onDuty(c, module.DurationMinutes) {
			continue
		}
		if instructorBusy(c.interval, instructor.ID, sessions, buffer) {
			continue
		}
		return instructor
	}
	return nil
}

// findFreeVehicle находит первый грузовик, не занятый пересекающейся сессией
func findFreeVehicle(
	interval domain.Interval,
	sessions []*domain.TrainingSession,
	vehicles []*domain.Vehicle,
	buffer time.Duration,
) *domain.Vehicle {
	for _, vehicle := range vehicles {
		if vehicleBusy(interval, vehicle.ID, sessions, buffer) {
			continue
		}
		return vehicle
	}
	return nil
}

func instructorBusy(interval domain.Interval, instructorID int64, sessions []*domain.TrainingSession, buffer time.Duration) bool {
	for _, session := range sessions {
		if session.Status == domain.SessionCancelled {
			continue
		}
		if !session.ClaimsInstructor(instructorID) {
			continue
		}
		if interval.OverlapsBuffered(session.Interval(), buffer) {
			return true
		}
	}
	return false
}

func vehicleBusy(interval domain.Interval, vehicleID int64, sessions []*domain.TrainingSession, buffer time.Duration) bool {
	for _, session := range sessions {
		if session.Status == domain.SessionCancelled {
			continue
		}
		if !session.ClaimsVehicle(vehicleID) {
			continue
		}
		if interval.OverlapsBuffered(session.Interval(), buffer) {
			return true
		}
	}
	return false
}
