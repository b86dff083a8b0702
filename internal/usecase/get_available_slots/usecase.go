package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	configStorage "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/config"
	resourceStorage "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/resource"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/ptr"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/timezone"
)

// UseCase use case для получения доступных слотов для бронирования
// Read path: результат носит рекомендательный характер и перепроверяется
// при создании бронирования, так как состояние может измениться между
// генерацией слотов и отправкой заявки
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	scheduleRepo ScheduleRepository
	resourceRepo ResourceRepository
	sessionRepo  SessionRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	scheduleRepo ScheduleRepository,
	resourceRepo ResourceRepository,
	sessionRepo SessionRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		scheduleRepo: scheduleRepo,
		resourceRepo: resourceRepo,
		sessionRepo:  sessionRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, company=%d, module=%d, date=%s",
		req.UserID, req.CompanyID, req.ModuleID, req.Date)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем модуль
	module, err := uc.resourceRepo.GetModule(ctx, req.CompanyID, req.ModuleID)
	if err != nil {
		if errors.Is(err, resourceStorage.ErrModuleNotFound) {
			uc.logger.Warn("GetAvailableSlots: module id=%d not found in company id=%d", req.ModuleID, req.CompanyID)
			return nil, ErrModuleNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get module id=%d: %v", req.ModuleID, err)
		return nil, fmt.Errorf("%w: failed to get module: %v", ErrInternal, err)
	}

	// Неактивный модуль виден только привилегированным вызовам
	if !module.Active && !req.IsAdmin {
		uc.logger.Warn("GetAvailableSlots: module id=%d is inactive", req.ModuleID)
		return nil, ErrModuleNotFound
	}

	// 4. Получаем конфигурацию с учетом иерархии
	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.CompanyID, ptr.Ptr(req.ModuleID))
	if err != nil && !errors.Is(err, configStorage.ErrConfigNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}

	// Если конфигурация не найдена, используем дефолтные значения
	if config == nil {
		config = &domain.CompanyBookingConfig{
			SlotGranularityMinutes: domain.DefaultSlotGranularityMinutes,
			BufferMinutes:          domain.DefaultBufferMinutes,
			MinNoticeMinutes:       domain.DefaultMinNoticeMinutes,
			AdvanceBookingDays:     domain.DefaultAdvanceBookingDays,
			Timezone:               domain.DefaultTimezone,
		}
		uc.logger.Info("GetAvailableSlots: using default config for company=%d, module=%d", req.CompanyID, req.ModuleID)
	}

	// 5. Загружаем бизнесовый часовой пояс компании
	zone, err := timezone.Load(config.Timezone)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: unknown timezone %q, falling back to default: %v", config.Timezone, err)
		zone, err = timezone.Load(domain.DefaultTimezone)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load timezone: %v", ErrInternal, err)
		}
	}

	// 6. Разбираем дату в бизнесовом поясе
	date, err := zone.ParseDate(req.Date)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: invalid date %q: %v", req.Date, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	// 7. Валидация даты с учетом конфигурации
	if err := validateDate(zone, date, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 8. Резолвим рабочие окна на день недели из правил расписания
	dayOfWeek := int(zone.Weekday(date))
	rules, err := uc.scheduleRepo.ListRulesFor(ctx, req.CompanyID, domain.ResourceCompany, nil, dayOfWeek)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list availability rules: %v", err)
		return nil, fmt.Errorf("%w: failed to list availability rules: %v", ErrInternal, err)
	}

	windows := resolveOpenWindows(rules)
	if len(windows) == 0 {
		// День полностью закрыт: нет правил на этот день недели
		uc.logger.Info("GetAvailableSlots: company=%d is closed on %s", req.CompanyID, req.Date)
		return uc.emptyResponse(req, date, zone), nil
	}

	// 9. Генерируем кандидатов внутри рабочих окон
	starts, err := enumerateStarts(windows, module.DurationMinutes, config.SlotGranularityMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to enumerate slot starts: %v", ErrInternal, err)
	}

	candidates, err := buildCandidates(zone, date, starts, module.DurationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build slot candidates: %v", ErrInternal, err)
	}

	// 10. Фильтр минимального нотиса (привилегированные вызовы пропускают)
	if !req.IsAdmin {
		candidates = filterByNotice(candidates, now, config.MinNoticeDuration())
	}

	// 11. Вычитаем блэкауты (без буфера, строго по границам)
	dayStart, dayEnd := zone.DayWindow(date)
	blackouts, err := uc.scheduleRepo.ListTimeOff(ctx, req.CompanyID, domain.ResourceCompany, nil, dayStart, dayEnd)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list time off: %v", err)
		return nil, fmt.Errorf("%w: failed to list time off: %v", ErrInternal, err)
	}
	candidates = filterByBlackouts(candidates, blackouts)

	// 12. Вычисляем доступность каждого кандидата
	var slots []Slot
	if module.IsShared() {
		slots, err = uc.sharedSlots(ctx, req, module, candidates, config, date, dayOfWeek, dayStart, dayEnd)
	} else {
		slots, err = uc.companySlots(ctx, req, module, candidates, config, dayStart, dayEnd)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for company=%d, module=%d, date=%s",
		len(slots), req.CompanyID, req.ModuleID, req.Date)

	return &Response{
		Date:      date,
		CompanyID: req.CompanyID,
		ModuleID:  req.ModuleID,
		Timezone:  zone.Name(),
		Slots:     slots,
	}, nil
}

// companySlots доступность для простого варианта: эксклюзивный ресурс - компания,
// считаем пересечения с блокирующими бронированиями с учетом буфера
// Окно выборки расширено на буфер: бронирование соседних суток, чей буфер
// переваливает за местную полночь, тоже блокирует кандидатов
func (uc *UseCase) companySlots(
	ctx context.Context,
	req *Request,
	module *domain.Module,
	candidates []candidate,
	config *domain.CompanyBookingConfig,
	dayStart, dayEnd time.Time,
) ([]Slot, error) {
	windowStart := dayStart.Add(-config.BufferDuration())
	windowEnd := dayEnd.Add(config.BufferDuration())
	bookings, err := uc.bookingRepo.GetWithFilter(ctx, domain.BookingsFilter{
		CompanyID:   req.CompanyID,
		WindowStart: &windowStart,
		WindowEnd:   &windowEnd,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return calculateCompanySpots(candidates, bookings, config.BufferDuration(), module.Capacity), nil
}

// sharedSlots доступность для модулей с учебными сессиями: места определяются
// заполненностью существующей сессии либо наличием свободного инструктора и грузовика
func (uc *UseCase) sharedSlots(
	ctx context.Context,
	req *Request,
	module *domain.Module,
	candidates []candidate,
	config *domain.CompanyBookingConfig,
	date time.Time,
	dayOfWeek int,
	dayStart, dayEnd time.Time,
) ([]Slot, error) {
	sessions, err := uc.sessionRepo.ListForDate(ctx, req.CompanyID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	instructors, err := uc.resourceRepo.ListInstructors(ctx, req.CompanyID, true)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list instructors: %v", err)
		return nil, fmt.Errorf("%w: failed to list instructors: %v", ErrInternal, err)
	}

	// Личные расписания инструкторов: свои правила на этот день недели
	// и персональные блэкауты. Инструктор без своих правил наследует окно компании
	schedules := make(map[int64]instructorSchedule, len(instructors))
	for _, instructor := range instructors {
		rules, err := uc.scheduleRepo.ListRulesFor(ctx, req.CompanyID, domain.ResourceInstructor, &instructor.ID, dayOfWeek)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get instructor rules: %v", err)
			return nil, fmt.Errorf("%w: failed to get instructor rules: %v", ErrInternal, err)
		}
		timeOff, err := uc.scheduleRepo.ListTimeOff(ctx, req.CompanyID, domain.ResourceInstructor, &instructor.ID, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get instructor time off: %v", err)
			return nil, fmt.Errorf("%w: failed to get instructor time off: %v", ErrInternal, err)
		}
		schedules[instructor.ID] = instructorSchedule{rules: rules, timeOff: timeOff}
	}

	var vehicles []*domain.Vehicle
	if module.RequiresVehicle {
		vehicles, err = uc.resourceRepo.ListVehicles(ctx, req.CompanyID, true)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to list vehicles: %v", err)
			return nil, fmt.Errorf("%w: failed to list vehicles: %v", ErrInternal, err)
		}
	}

	return calculateSharedSpots(candidates, module, sessions, instructors, schedules, vehicles, config.BufferDuration()), nil
}

func (uc *UseCase) emptyResponse(req *Request, date time.Time, zone timezone.Zone) *Response {
	return &Response{
		Date:      date,
		CompanyID: req.CompanyID,
		ModuleID:  req.ModuleID,
		Timezone:  zone.Name(),
		Slots:     []Slot{},
	}
}
