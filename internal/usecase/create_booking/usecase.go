package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	configStorage "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/config"
	resourceStorage "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/resource"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/payments"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/policy"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/ptr"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/timezone"
)

// UseCase use case для создания бронирования
// Авторитетный write-path: все проверки доступности повторяются здесь над
// актуальным состоянием, внутри сериализуемой транзакции - слоты, показанные
// клиенту ранее, к этому моменту могли устареть
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	scheduleRepo ScheduleRepository
	resourceRepo ResourceRepository
	sessionRepo  SessionRepository
	outboxRepo   OutboxRepository
	payments     PaymentClient
	txManager    TransactionManager
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
	outboxRepo OutboxRepository,
	paymentClient PaymentClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		scheduleRepo: scheduleRepo,
		resourceRepo: resourceRepo,
		sessionRepo:  sessionRepo,
		outboxRepo:   outboxRepo,
		payments:     paymentClient,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Платеж авторизуется до транзакции; если транзакция не прошла, холд
// отменяется компенсирующим действием - платежный провайдер и хранилище
// это разные внешние системы, общего отката у них нет
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, company=%d, module=%d, date=%s, time=%s",
		req.UserID, req.CompanyID, req.ModuleID, req.Date, req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем модуль
	module, err := uc.resourceRepo.GetModule(ctx, req.CompanyID, req.ModuleID)
	if err != nil {
		if errors.Is(err, resourceStorage.ErrModuleNotFound) {
			uc.logger.Warn("CreateBooking: module id=%d not found in company id=%d", req.ModuleID, req.CompanyID)
			return nil, ErrModuleNotFound
		}
		uc.logger.Error("CreateBooking: failed to get module id=%d: %v", req.ModuleID, err)
		return nil, fmt.Errorf("%w: failed to get module: %v", ErrInternal, err)
	}

	if !module.Active && !req.IsAdmin {
		uc.logger.Warn("CreateBooking: module id=%d is inactive", req.ModuleID)
		return nil, ErrModuleNotFound
	}

	// 4. Авторизуем платеж до записи в хранилище
	paymentStatus, paymentRef, err := uc.authorizePayment(ctx, req, module)
	if err != nil {
		return nil, err
	}

	var result *domain.Booking

	// 5. Все проверки и запись - в одной сериализуемой транзакции
	txErr := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Конфигурация с учетом иерархии
		config, err := uc.configRepo.GetConfigWithHierarchy(txCtx, req.CompanyID, ptr.Ptr(req.ModuleID))
		if err != nil && !errors.Is(err, configStorage.ErrConfigNotFound) {
			uc.logger.Error("CreateBooking: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}

		if config == nil {
			config = &domain.CompanyBookingConfig{
				SlotGranularityMinutes: domain.DefaultSlotGranularityMinutes,
				BufferMinutes:          domain.DefaultBufferMinutes,
				MinNoticeMinutes:       domain.DefaultMinNoticeMinutes,
				AdvanceBookingDays:     domain.DefaultAdvanceBookingDays,
				Timezone:               domain.DefaultTimezone,
			}
			uc.logger.Info("CreateBooking: using default config for company=%d, module=%d", req.CompanyID, req.ModuleID)
		}

		zone, err := timezone.Load(config.Timezone)
		if err != nil {
			uc.logger.Error("CreateBooking: unknown timezone %q, falling back to default: %v", config.Timezone, err)
			zone, err = timezone.Load(domain.DefaultTimezone)
			if err != nil {
				return fmt.Errorf("%w: failed to load timezone: %v", ErrInternal, err)
			}
		}

		// 5.2. Дата и абсолютный интервал кандидата
		date, err := zone.ParseDate(req.Date)
		if err != nil {
			uc.logger.Warn("CreateBooking: invalid date %q: %v", req.Date, err)
			return fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}

		if err := validateDate(zone, date, now, config.AdvanceBookingDays); err != nil {
			uc.logger.Warn("CreateBooking: date validation failed: %v", err)
			return err
		}

		startInstant, err := zone.ToInstant(date, req.StartTime)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		interval, err := domain.NewInterval(startInstant, startInstant.Add(time.Duration(module.DurationMinutes)*time.Minute))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		// 5.3. Проверка 1: интервал внутри рабочего окна
		dayOfWeek := int(zone.Weekday(date))
		rules, err := uc.scheduleRepo.ListRulesFor(txCtx, req.CompanyID, domain.ResourceCompany, nil, dayOfWeek)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list availability rules: %v", err)
			return fmt.Errorf("%w: failed to list availability rules: %v", ErrInternal, err)
		}

		if !isWithinOpenWindows(rules, req.StartTime, module.DurationMinutes) {
			uc.logger.Warn("CreateBooking: slot %s is outside availability", req.StartTime)
			return ErrOutsideAvailability
		}

		// 5.4. Проверка 2: блэкауты (без буфера)
		dayStart, dayEnd := zone.DayWindow(date)
		blackouts, err := uc.scheduleRepo.ListTimeOff(txCtx, req.CompanyID, domain.ResourceCompany, nil, dayStart, dayEnd)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list time off: %v", err)
			return fmt.Errorf("%w: failed to list time off: %v", ErrInternal, err)
		}

		if overlapsBlackout(interval, blackouts) {
			uc.logger.Warn("CreateBooking: slot %s conflicts with blackout", req.StartTime)
			return ErrBlackoutConflict
		}

		// 5.5. Проверка 3: занятость слота (простой вариант; для модулей с сессиями
		// эксклюзивность держат инструктор и грузовик, проверяется аллокатором)
		// Окно выборки расширено на буфер: бронирование соседних суток, чей
		// буфер переваливает за местную полночь, тоже участвует в проверке
		if !module.IsShared() {
			windowStart := dayStart.Add(-config.BufferDuration())
			windowEnd := dayEnd.Add(config.BufferDuration())
			bookings, err := uc.bookingRepo.GetWithFilter(txCtx, domain.BookingsFilter{
				CompanyID:   req.CompanyID,
				WindowStart: &windowStart,
				WindowEnd:   &windowEnd,
			})
			if err != nil {
				uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
				return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
			}

			overlapping := countBufferedOverlaps(interval, bookings, config.BufferDuration())
			if overlapping >= module.Capacity {
				uc.logger.Warn("CreateBooking: slot %s taken, %d/%d spots", req.StartTime, overlapping, module.Capacity)
				return ErrSlotTaken
			}
		}

		// 5.6. Проверка 4: дубликат заявителя
		userBookings, err := uc.bookingRepo.ListOverlappingForUser(txCtx, req.UserID, interval.Start, interval.End)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list user bookings: %v", err)
			return fmt.Errorf("%w: failed to list user bookings: %v", ErrInternal, err)
		}

		if dup := policy.FindDuplicate(userBookings, interval, req.UserID); dup != nil {
			uc.logger.Warn("CreateBooking: user id=%d already holds overlapping booking id=%d", req.UserID, dup.ID)
			return ErrDuplicateRequest
		}

		// 5.7. Проверка 5: минимальный нотис против текущего времени,
		// а не момента, когда клиент запрашивал слоты
		if !req.IsAdmin && !policy.IsAdvanceNoticeSatisfied(now, interval.Start, config.MinNoticeDuration()) {
			uc.logger.Warn("CreateBooking: slot %s violates %d-minute notice", req.StartTime, config.MinNoticeMinutes)
			return ErrTooSoon
		}

		// 5.8. Аллокатор: join-vs-create для модулей с учебными сессиями
		var alloc *allocation
		if module.IsShared() {
			alloc, err = uc.allocate(txCtx, module, date, req.StartTime, interval, config.BufferDuration(),
				dayContext{dayOfWeek: dayOfWeek, dayStart: dayStart, dayEnd: dayEnd})
			if err != nil {
				return err
			}
		}

		// 5.9. Создаем бронирование
		status := domain.StatusRequested
		if config.AutoConfirm || req.IsAdmin {
			status = domain.StatusConfirmed
		}

		booking := &domain.Booking{
			CompanyID:       req.CompanyID,
			UserID:          req.UserID,
			ModuleID:        req.ModuleID,
			BookingDate:     date,
			StartTime:       req.StartTime,
			DurationMinutes: module.DurationMinutes,
			StartsAt:        interval.Start,
			EndsAt:          interval.End,
			Status:          status,
			PaymentStatus:   paymentStatus,
			PaymentRef:      paymentRef,
			AmountCents:     module.PriceCents,
			ModuleName:      module.Name,
			Notes:           req.Notes,
		}

		if alloc != nil {
			booking.SessionID = &alloc.session.ID
			booking.InstructorID = &alloc.session.InstructorID
			booking.VehicleID = alloc.session.VehicleID
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 5.10. Событие жизненного цикла пишется в outbox той же транзакцией
		if err := uc.publishCreated(txCtx, created); err != nil {
			return err
		}

		result = created
		return nil
	})

	if txErr != nil {
		// Компенсация: бронирование не записано, холд средств снимается
		uc.voidPaymentHold(ctx, req, paymentStatus, paymentRef)
		return nil, txErr
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s", result.ID, result.Status)

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		CompanyID:       result.CompanyID,
		ModuleID:        result.ModuleID,
		SessionID:       result.SessionID,
		InstructorID:    result.InstructorID,
		VehicleID:       result.VehicleID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		StartsAt:        result.StartsAt,
		EndsAt:          result.EndsAt,
		Status:          string(result.Status),
		PaymentStatus:   string(result.PaymentStatus),
		AmountCents:     result.AmountCents,
		ModuleName:      result.ModuleName,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// authorizePayment авторизует холд средств или сохраняет платежный метод
// для отложенного списания. При выключенном провайдере бронирование
// создается с оплатой на месте
func (uc *UseCase) authorizePayment(ctx context.Context, req *Request, module *domain.Module) (domain.PaymentStatus, *string, error) {
	if !uc.payments.Enabled() || module.PriceCents == 0 {
		return domain.PaymentUnpaid, nil, nil
	}

	idempotencyKey := uuid.NewString()

	if req.PayNow {
		hold, err := uc.payments.Authorize(ctx, module.PriceCents, "usd", idempotencyKey)
		if err != nil {
			if errors.Is(err, payments.ErrPaymentDeclined) {
				uc.logger.Warn("CreateBooking: payment declined for user id=%d: %v", req.UserID, err)
				return "", nil, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
			}
			uc.logger.Error("CreateBooking: payment authorization failed: %v", err)
			return "", nil, fmt.Errorf("%w: payment authorization failed: %v", ErrInternal, err)
		}
		return domain.PaymentAuthorized, &hold.PaymentRef, nil
	}

	setupRef, err := uc.payments.SetupDeferred(ctx, idempotencyKey)
	if err != nil {
		uc.logger.Error("CreateBooking: payment setup failed: %v", err)
		return "", nil, fmt.Errorf("%w: payment setup failed: %v", ErrInternal, err)
	}
	return domain.PaymentDeferred, &setupRef, nil
}

// voidPaymentHold отменяет холд средств после неудачной транзакции
// Ошибка отмены логируется, но не скрывает исходный конфликт
func (uc *UseCase) voidPaymentHold(ctx context.Context, req *Request, status domain.PaymentStatus, ref *string) {
	if status != domain.PaymentAuthorized || ref == nil {
		return
	}

	if err := uc.payments.Void(ctx, *ref); err != nil {
		uc.logger.Error("CreateBooking: failed to void payment hold %s for user id=%d: %v", *ref, req.UserID, err)
		return
	}

	uc.logger.Info("CreateBooking: voided payment hold %s after failed booking", *ref)
}

// publishCreated записывает событие создания бронирования в outbox
func (uc *UseCase) publishCreated(ctx context.Context, booking *domain.Booking) error {
	payload, err := json.Marshal(map[string]interface{}{
		"booking_id":    booking.ID,
		"company_id":    booking.CompanyID,
		"user_id":       booking.UserID,
		"module_id":     booking.ModuleID,
		"session_id":    booking.SessionID,
		"instructor_id": booking.InstructorID,
		"vehicle_id":    booking.VehicleID,
		"starts_at":     booking.StartsAt.Format(time.RFC3339),
		"ends_at":       booking.EndsAt.Format(time.RFC3339),
		"status":        string(booking.Status),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event payload: %v", ErrInternal, err)
	}

	if _, err := uc.outboxRepo.Insert(ctx, "booking.created", strconv.FormatInt(booking.ID, 10), payload); err != nil {
		uc.logger.Error("CreateBooking: failed to insert outbox event: %v", err)
		return fmt.Errorf("%w: failed to insert outbox event: %v", ErrInternal, err)
	}

	return nil
}
