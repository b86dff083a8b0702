package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	sessionStorage "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/session"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// allocation результат распределения ресурсов для модуля с учебными сессиями
type allocation struct {
	session *domain.TrainingSession
	joined  bool // присоединение к существующей сессии вместо создания новой
}

// dayContext локальный день кандидата: день недели и абсолютное окно суток
// в бизнесовом поясе компании
type dayContext struct {
	dayOfWeek int
	dayStart  time.Time
	dayEnd    time.Time
}

// allocate принимает решение join-vs-create для учебной сессии
// Вызывается только внутри сериализуемой транзакции: FindOpenSession блокирует
// строку сессии, а счетчик мест меняется условным UPDATE, поэтому конкурентные
// joins не переполняют сессию
func (uc *UseCase) allocate(
	ctx context.Context,
	module *domain.Module,
	date time.Time,
	startTime types.TimeString,
	interval domain.Interval,
	buffer time.Duration,
	day dayContext,
) (*allocation, error) {
	existing, err := uc.sessionRepo.FindOpenSession(ctx, module.CompanyID, module.ID, date, startTime)
	if err != nil && !errors.Is(err, sessionStorage.ErrSessionNotFound) {
		uc.logger.Error("CreateBooking: failed to find open session: %v", err)
		return nil, fmt.Errorf("%w: failed to find open session: %v", ErrInternal, err)
	}

	// Существующая сессия: присоединяемся, инструктор и грузовик наследуются
	if existing != nil {
		if !existing.HasSpareCapacity() {
			uc.logger.Warn("CreateBooking: session id=%d is full (%d/%d)",
				existing.ID, existing.SeatsTaken, existing.Capacity)
			return nil, ErrSessionFull
		}

		if err := uc.sessionRepo.ClaimSeat(ctx, existing.ID); err != nil {
			if errors.Is(err, sessionStorage.ErrSessionFull) {
				return nil, ErrSessionFull
			}
			uc.logger.Error("CreateBooking: failed to claim seat in session id=%d: %v", existing.ID, err)
			return nil, fmt.Errorf("%w: failed to claim seat: %v", ErrInternal, err)
		}

		existing.SeatsTaken++
		if existing.SeatsTaken >= existing.Capacity {
			existing.Status = domain.SessionFull
		}

		uc.logger.Info("CreateBooking: joined session id=%d (%d/%d)",
			existing.ID, existing.SeatsTaken, existing.Capacity)
		return &allocation{session: existing, joined: true}, nil
	}

	// Новая сессия: нужен свободный инструктор и, если модуль требует, грузовик.
	// Кандидаты перебираются в порядке листинга (по id) - первый подходящий
	// выбирается детерминированно при одинаковом состоянии данных
	sessions, err := uc.sessionRepo.ListForDate(ctx, module.CompanyID, date)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	instructor, err := uc.pickInstructor(ctx, module, startTime, interval, sessions, buffer, day)
	if err != nil {
		return nil, err
	}

	var vehicleID *int64
	if module.RequiresVehicle {
		vehicle, err := uc.pickVehicle(ctx, module.CompanyID, interval, sessions, buffer)
		if err != nil {
			return nil, err
		}
		vehicleID = &vehicle.ID
	}

	status := domain.SessionOpen
	if module.Capacity <= 1 {
		status = domain.SessionFull
	}

	created, err := uc.sessionRepo.Create(ctx, &domain.TrainingSession{
		CompanyID:       module.CompanyID,
		ModuleID:        module.ID,
		InstructorID:    instructor.ID,
		VehicleID:       vehicleID,
		SessionDate:     date,
		StartTime:       startTime,
		DurationMinutes: module.DurationMinutes,
		StartsAt:        interval.Start,
		EndsAt:          interval.End,
		Capacity:        module.Capacity,
		SeatsTaken:      1,
		Status:          status,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create session: %v", err)
		return nil, fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
	}

	uc.logger.Info("CreateBooking: created session id=%d with instructor id=%d", created.ID, instructor.ID)
	return &allocation{session: created, joined: false}, nil
}

// pickInstructor находит первого свободного инструктора с нужной компетенцией,
// не занятого пересекающейся сессией и находящегося на смене по собственному
// расписанию
func (uc *UseCase) pickInstructor(
	ctx context.Context,
	module *domain.Module,
	startTime types.TimeString,
	interval domain.Interval,
	sessions []*domain.TrainingSession,
	buffer time.Duration,
	day dayContext,
) (*domain.Instructor, error) {
	instructors, err := uc.resourceRepo.ListInstructors(ctx, module.CompanyID, true)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list instructors: %v", err)
		return nil, fmt.Errorf("%w: failed to list instructors: %v", ErrInternal, err)
	}

	for _, instructor := range instructors {
		if !instructor.CanTeach(module.ID) {
			continue
		}
		if sessionClaimsInstructor(sessions, instructor.ID, interval, buffer) {
			continue
		}

		onDuty, err := uc.instructorOnDuty(ctx, module.CompanyID, instructor.ID,
			startTime, module.DurationMinutes, interval, day)
		if err != nil {
			return nil, err
		}
		if !onDuty {
			continue
		}

		return instructor, nil
	}

	uc.logger.Warn("CreateBooking: no free instructor for module id=%d", module.ID)
	return nil, ErrNoInstructorAvailable
}

// instructorOnDuty проверяет собственное расписание инструктора: при наличии
// собственных правил на этот день недели слот должен помещаться в одно из них,
// собственные блэкауты исключают инструктора целиком. Инструктор без
// собственных правил наследует окно компании, уже проверенное выше
func (uc *UseCase) instructorOnDuty(
	ctx context.Context,
	companyID, instructorID int64,
	startTime types.TimeString,
	durationMinutes int,
	interval domain.Interval,
	day dayContext,
) (bool, error) {
	rules, err := uc.scheduleRepo.ListRulesFor(ctx, companyID, domain.ResourceInstructor, &instructorID, day.dayOfWeek)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list instructor id=%d rules: %v", instructorID, err)
		return false, fmt.Errorf("%w: failed to list instructor rules: %v", ErrInternal, err)
	}

	if len(rules) > 0 && !isWithinOpenWindows(rules, startTime, durationMinutes) {
		return false, nil
	}

	blackouts, err := uc.scheduleRepo.ListTimeOff(ctx, companyID, domain.ResourceInstructor, &instructorID, day.dayStart, day.dayEnd)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list instructor id=%d time off: %v", instructorID, err)
		return false, fmt.Errorf("%w: failed to list instructor time off: %v", ErrInternal, err)
	}

	return !overlapsBlackout(interval, blackouts), nil
}

// pickVehicle находит первый свободный грузовик
func (uc *UseCase) pickVehicle(
	ctx context.Context,
	companyID int64,
	interval domain.Interval,
	sessions []*domain.TrainingSession,
	buffer time.Duration,
) (*domain.Vehicle, error) {
	vehicles, err := uc.resourceRepo.ListVehicles(ctx, companyID, true)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list vehicles: %v", err)
		return nil, fmt.Errorf("%w: failed to list vehicles: %v", ErrInternal, err)
	}

	for _, vehicle := range vehicles {
		if sessionClaimsVehicle(sessions, vehicle.ID, interval, buffer) {
			continue
		}
		return vehicle, nil
	}

	uc.logger.Warn("CreateBooking: no free vehicle for company id=%d", companyID)
	return nil, ErrNoVehicleAvailable
}

func sessionClaimsInstructor(sessions []*domain.TrainingSession, instructorID int64, interval domain.Interval, buffer time.Duration) bool {
	for _, session := range sessions {
		if !session.ClaimsInstructor(instructorID) {
			continue
		}
		if interval.OverlapsBuffered(session.Interval(), buffer) {
			return true
		}
	}
	return false
}

func sessionClaimsVehicle(sessions []*domain.TrainingSession, vehicleID int64, interval domain.Interval, buffer time.Duration) bool {
	for _, session := range sessions {
		if !session.ClaimsVehicle(vehicleID) {
			continue
		}
		if interval.OverlapsBuffered(session.Interval(), buffer) {
			return true
		}
	}
	return false
}
