package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/ptr"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// --- fakes ---

type fakeBookingRepo struct {
	bookings   []*domain.Booking
	lastFilter domain.BookingsFilter
}

func (f *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.lastFilter = filter
	if filter.WindowStart == nil || filter.WindowEnd == nil {
		return f.bookings, nil
	}
	result := make([]*domain.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		if b.EndsAt.After(*filter.WindowStart) && b.StartsAt.Before(*filter.WindowEnd) {
			result = append(result, b)
		}
	}
	return result, nil
}

type fakeConfigRepo struct {
	config *domain.CompanyBookingConfig
}

func (f *fakeConfigRepo) GetConfigWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.CompanyBookingConfig, error) {
	return f.config, nil
}

type fakeScheduleRepo struct {
	rules           []*domain.AvailabilityRule
	timeOff         []*domain.TimeOff
	instructorRules map[int64][]*domain.AvailabilityRule
	instructorOff   map[int64][]*domain.TimeOff
}

func (f *fakeScheduleRepo) ListRulesFor(_ context.Context, _ int64, resourceType domain.ResourceType, resourceID *int64, _ int) ([]*domain.AvailabilityRule, error) {
	if resourceType == domain.ResourceInstructor && resourceID != nil {
		return f.instructorRules[*resourceID], nil
	}
	return f.rules, nil
}

func (f *fakeScheduleRepo) ListTimeOff(_ context.Context, _ int64, resourceType domain.ResourceType, resourceID *int64, _, _ time.Time) ([]*domain.TimeOff, error) {
	if resourceType == domain.ResourceInstructor && resourceID != nil {
		return f.instructorOff[*resourceID], nil
	}
	return f.timeOff, nil
}

type fakeResourceRepo struct {
	module      *domain.Module
	instructors []*domain.Instructor
	vehicles    []*domain.Vehicle
}

func (f *fakeResourceRepo) GetModule(_ context.Context, _, _ int64) (*domain.Module, error) {
	return f.module, nil
}

func (f *fakeResourceRepo) ListInstructors(_ context.Context, _ int64, _ bool) ([]*domain.Instructor, error) {
	return f.instructors, nil
}

func (f *fakeResourceRepo) ListVehicles(_ context.Context, _ int64, _ bool) ([]*domain.Vehicle, error) {
	return f.vehicles, nil
}

type fakeSessionRepo struct {
	sessions []*domain.TrainingSession
}

func (f *fakeSessionRepo) ListForDate(_ context.Context, _ int64, _ time.Time) ([]*domain.TrainingSession, error) {
	return f.sessions, nil
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- helpers ---

func utcConfig(buffer, granularity, notice int) *domain.CompanyBookingConfig {
	return &domain.CompanyBookingConfig{
		SlotGranularityMinutes: granularity,
		BufferMinutes:          buffer,
		MinNoticeMinutes:       notice,
		AdvanceBookingDays:     0,
		Timezone:               "UTC",
	}
}

func companyRule(open, close types.TimeString) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		CompanyID:    1,
		ResourceType: domain.ResourceCompany,
		DayOfWeek:    4,
		OpenTime:     open,
		CloseTime:    close,
		Active:       true,
	}
}

func simpleModule() *domain.Module {
	return &domain.Module{
		ID:              10,
		CompanyID:       1,
		DurationMinutes: 30,
		Capacity:        1,
		Active:          true,
	}
}

func utcBooking(userID int64, start, end time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		CompanyID: 1,
		UserID:    userID,
		ModuleID:  10,
		StartsAt:  start,
		EndsAt:    end,
		Status:    status,
	}
}

func newTestUseCase(
	bookingRepo *fakeBookingRepo,
	configRepo *fakeConfigRepo,
	scheduleRepo *fakeScheduleRepo,
	resourceRepo *fakeResourceRepo,
	sessionRepo *fakeSessionRepo,
	now time.Time,
) *UseCase {
	uc := NewUseCase(bookingRepo, configRepo, scheduleRepo, resourceRepo, sessionRepo, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: now}
	return uc
}

func slotByTime(t *testing.T, slots []Slot, start types.TimeString) Slot {
	t.Helper()
	for _, s := range slots {
		if s.StartTime == start {
			return s
		}
	}
	t.Fatalf("slot %s not found", start)
	return Slot{}
}

// --- tests ---

// Бронирование 14:00-14:30 с буфером 15 минут блокирует слоты, начинающиеся
// раньше 14:45; слот 15:00 свободен
func TestExecute_BufferedOverlapSubtraction(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	date := "2026-09-10"

	existing := utcBooking(
		99,
		time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC),
		domain.StatusConfirmed,
	)

	uc := newTestUseCase(
		&fakeBookingRepo{bookings: []*domain.Booking{existing}},
		&fakeConfigRepo{config: utcConfig(15, 30, 0)},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("14:00", "16:00")}},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: date})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)

	// 14:00 пересекается напрямую, 14:30 попадает в буфер (до 14:45)
	assert.Equal(t, 0, slotByTime(t, resp.Slots, "14:00").AvailableSpots)
	assert.Equal(t, 0, slotByTime(t, resp.Slots, "14:30").AvailableSpots)
	assert.Equal(t, 1, slotByTime(t, resp.Slots, "15:00").AvailableSpots)
	assert.Equal(t, 1, slotByTime(t, resp.Slots, "15:30").AvailableSpots)
}

// Отмененное бронирование не занимает слот
func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	cancelled := utcBooking(
		99,
		time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 14, 30, 0, 0, time.UTC),
		domain.StatusCancelledByUser,
	)

	uc := newTestUseCase(
		&fakeBookingRepo{bookings: []*domain.Booking{cancelled}},
		&fakeConfigRepo{config: utcConfig(15, 30, 0)},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("14:00", "15:00")}},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: "2026-09-10"})
	require.NoError(t, err)
	assert.Equal(t, 1, slotByTime(t, resp.Slots, "14:00").AvailableSpots)
}

// Блэкаут 09:00-10:00: слот, начинающийся ровно в 10:00, доступен
// (полуоткрытые интервалы не пересекаются на границе)
func TestExecute_BlackoutExactBoundary(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	blackout := &domain.TimeOff{
		CompanyID:    1,
		ResourceType: domain.ResourceCompany,
		StartsAt:     time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:       time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
	}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(15, 30, 0)},
		&fakeScheduleRepo{
			rules:   []*domain.AvailabilityRule{companyRule("09:00", "11:00")},
			timeOff: []*domain.TimeOff{blackout},
		},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: "2026-09-10"})
	require.NoError(t, err)

	starts := make([]types.TimeString, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.StartTime)
	}
	assert.Equal(t, []types.TimeString{"10:00", "10:30"}, starts)
}

// Слот, начинающийся ровно в now + minNotice, проходит фильтр нотиса;
// более ранние отбрасываются
func TestExecute_AdvanceNoticeBoundary(t *testing.T) {
	// Сегодняшний день, 08:00: при нотисе 120 минут доступны слоты с 10:00
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(0, 30, 120)},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("09:00", "11:00")}},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: "2026-09-10"})
	require.NoError(t, err)

	starts := make([]types.TimeString, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.StartTime)
	}
	assert.Equal(t, []types.TimeString{"10:00", "10:30"}, starts)
}

// Привилегированный вызов пропускает фильтр нотиса
func TestExecute_AdminBypassesNotice(t *testing.T) {
	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(0, 30, 120)},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("09:00", "11:00")}},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: "2026-09-10", IsAdmin: true})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 4)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
}

// День без правил расписания полностью закрыт: пустой список, не ошибка
func TestExecute_ClosedDayReturnsEmpty(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(15, 30, 0)},
		&fakeScheduleRepo{},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: "2026-09-10"})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

// Два вызова без изменений состояния дают идентичный результат
func TestExecute_IdempotentRead(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(15, 30, 0)},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("09:00", "12:00")}},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		now,
	)

	req := &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: "2026-09-10"}
	first, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExecute_PastDateRejected(t *testing.T) {
	now := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(15, 30, 0)},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("09:00", "12:00")}},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: "2026-09-09"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	config := utcConfig(15, 30, 0)
	config.AdvanceBookingDays = 7

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: config},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("09:00", "12:00")}},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		now,
	)

	_, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: "2026-09-10"})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(15, 30, 0)},
		&fakeScheduleRepo{},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		time.Now(),
	)

	_, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 0, ModuleID: 10, Date: "2026-09-10"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: "10.09.2026"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

// Сессия с 1 занятым местом из 2 дает 1 свободное место на своем слоте;
// слот без сессии и без свободного инструктора недоступен
func TestExecute_SharedModuleSessionSpots(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	module := &domain.Module{
		ID:                 20,
		CompanyID:          1,
		DurationMinutes:    60,
		Capacity:           2,
		RequiresInstructor: true,
		Active:             true,
	}

	session := &domain.TrainingSession{
		ID:           1,
		CompanyID:    1,
		ModuleID:     20,
		InstructorID: 5,
		Capacity:     2,
		SeatsTaken:   1,
		Status:       domain.SessionOpen,
		StartsAt:     time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:       time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
	}

	// Единственный инструктор занят сессией 09:00-10:00
	instructor := &domain.Instructor{ID: 5, CompanyID: 1, ModuleIDs: []int64{20}, Active: true}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(0, 60, 0)},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("09:00", "12:00")}},
		&fakeResourceRepo{module: module, instructors: []*domain.Instructor{instructor}},
		&fakeSessionRepo{sessions: []*domain.TrainingSession{session}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 20, Date: "2026-09-10"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	// 09:00 - присоединение к существующей сессии, осталось 1 место
	assert.Equal(t, 1, slotByTime(t, resp.Slots, "09:00").AvailableSpots)
	// 10:00 и 11:00 - инструктор свободен, новая сессия на полную вместимость
	assert.Equal(t, 2, slotByTime(t, resp.Slots, "10:00").AvailableSpots)
	assert.Equal(t, 2, slotByTime(t, resp.Slots, "11:00").AvailableSpots)
}

// Полная сессия закрыта для присоединения
func TestExecute_SharedModuleFullSession(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	module := &domain.Module{
		ID:                 20,
		CompanyID:          1,
		DurationMinutes:    60,
		Capacity:           2,
		RequiresInstructor: true,
		Active:             true,
	}

	session := &domain.TrainingSession{
		ID:           1,
		CompanyID:    1,
		ModuleID:     20,
		InstructorID: 5,
		Capacity:     2,
		SeatsTaken:   2,
		Status:       domain.SessionFull,
		StartsAt:     time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:       time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
	}

	instructor := &domain.Instructor{ID: 5, CompanyID: 1, ModuleIDs: []int64{20}, Active: true}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(0, 60, 0)},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("09:00", "10:00")}},
		&fakeResourceRepo{module: module, instructors: []*domain.Instructor{instructor}},
		&fakeSessionRepo{sessions: []*domain.TrainingSession{session}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 20, Date: "2026-09-10"})
	require.NoError(t, err)
	assert.Equal(t, 0, slotByTime(t, resp.Slots, "09:00").AvailableSpots)
}

// Модулю нужен грузовик: без свободного грузовика слот недоступен,
// даже если инструктор свободен
func TestExecute_SharedModuleNoVehicle(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	module := &domain.Module{
		ID:                 20,
		CompanyID:          1,
		DurationMinutes:    60,
		Capacity:           2,
		RequiresInstructor: true,
		RequiresVehicle:    true,
		Active:             true,
	}

	// Единственный грузовик занят чужой сессией 09:00-10:00
	otherSession := &domain.TrainingSession{
		ID:           2,
		CompanyID:    1,
		ModuleID:     21,
		InstructorID: 6,
		VehicleID:    ptr.Ptr(int64(3)),
		Capacity:     2,
		SeatsTaken:   1,
		Status:       domain.SessionOpen,
		StartsAt:     time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		EndsAt:       time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
	}

	instructor := &domain.Instructor{ID: 5, CompanyID: 1, ModuleIDs: []int64{20}, Active: true}
	vehicle := &domain.Vehicle{ID: 3, CompanyID: 1, Active: true}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(0, 60, 0)},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("09:00", "11:00")}},
		&fakeResourceRepo{
			module:      module,
			instructors: []*domain.Instructor{instructor},
			vehicles:    []*domain.Vehicle{vehicle},
		},
		&fakeSessionRepo{sessions: []*domain.TrainingSession{otherSession}},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 20, Date: "2026-09-10"})
	require.NoError(t, err)

	// 09:00 - грузовик занят, 10:00 - свободен
	assert.Equal(t, 0, slotByTime(t, resp.Slots, "09:00").AvailableSpots)
	assert.Equal(t, 2, slotByTime(t, resp.Slots, "10:00").AvailableSpots)
}

// Личное правило инструктора уже окна компании: слоты вне его смены недоступны
func TestExecute_InstructorOwnScheduleLimitsSlots(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	module := &domain.Module{
		ID:                 20,
		CompanyID:          1,
		DurationMinutes:    60,
		Capacity:           2,
		RequiresInstructor: true,
		Active:             true,
	}

	// Единственный инструктор работает только 09:00-10:00
	instructor := &domain.Instructor{ID: 5, CompanyID: 1, ModuleIDs: []int64{20}, Active: true}
	ownRule := &domain.AvailabilityRule{
		CompanyID:    1,
		ResourceType: domain.ResourceInstructor,
		ResourceID:   ptr.Ptr(int64(5)),
		DayOfWeek:    4,
		OpenTime:     "09:00",
		CloseTime:    "10:00",
		Active:       true,
	}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(0, 60, 0)},
		&fakeScheduleRepo{
			rules:           []*domain.AvailabilityRule{companyRule("09:00", "12:00")},
			instructorRules: map[int64][]*domain.AvailabilityRule{5: {ownRule}},
		},
		&fakeResourceRepo{module: module, instructors: []*domain.Instructor{instructor}},
		&fakeSessionRepo{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 20, Date: "2026-09-10"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)

	assert.Equal(t, 2, slotByTime(t, resp.Slots, "09:00").AvailableSpots)
	assert.Equal(t, 0, slotByTime(t, resp.Slots, "10:00").AvailableSpots)
	assert.Equal(t, 0, slotByTime(t, resp.Slots, "11:00").AvailableSpots)
}

// Персональный блэкаут инструктора исключает его слоты, остальные доступны
func TestExecute_InstructorTimeOffExcluded(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	module := &domain.Module{
		ID:                 20,
		CompanyID:          1,
		DurationMinutes:    60,
		Capacity:           2,
		RequiresInstructor: true,
		Active:             true,
	}

	instructor := &domain.Instructor{ID: 5, CompanyID: 1, ModuleIDs: []int64{20}, Active: true}
	personalOff := &domain.TimeOff{
		CompanyID:    1,
		ResourceType: domain.ResourceInstructor,
		ResourceID:   ptr.Ptr(int64(5)),
		StartsAt:     time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
		EndsAt:       time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC),
	}

	uc := newTestUseCase(
		&fakeBookingRepo{},
		&fakeConfigRepo{config: utcConfig(0, 60, 0)},
		&fakeScheduleRepo{
			rules:         []*domain.AvailabilityRule{companyRule("09:00", "12:00")},
			instructorOff: map[int64][]*domain.TimeOff{5: {personalOff}},
		},
		&fakeResourceRepo{module: module, instructors: []*domain.Instructor{instructor}},
		&fakeSessionRepo{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 20, Date: "2026-09-10"})
	require.NoError(t, err)

	assert.Equal(t, 2, slotByTime(t, resp.Slots, "09:00").AvailableSpots)
	assert.Equal(t, 0, slotByTime(t, resp.Slots, "10:00").AvailableSpots)
	assert.Equal(t, 2, slotByTime(t, resp.Slots, "11:00").AvailableSpots)
}

// Бронирование вчерашних суток, чей буфер переваливает за местную полночь,
// блокирует слот 00:00; окно выборки бронирований расширено на буфер
func TestExecute_PrevDayBufferBlocksMidnightSlot(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	// Вчерашнее бронирование заканчивается в 23:50, буфер 15 минут
	// дотягивается до 00:05 следующих суток
	lateNight := utcBooking(
		99,
		time.Date(2026, 9, 9, 23, 20, 0, 0, time.UTC),
		time.Date(2026, 9, 9, 23, 50, 0, 0, time.UTC),
		domain.StatusConfirmed,
	)

	bookingRepo := &fakeBookingRepo{bookings: []*domain.Booking{lateNight}}
	uc := newTestUseCase(
		bookingRepo,
		&fakeConfigRepo{config: utcConfig(15, 30, 0)},
		&fakeScheduleRepo{rules: []*domain.AvailabilityRule{companyRule("00:00", "01:00")}},
		&fakeResourceRepo{module: simpleModule()},
		&fakeSessionRepo{},
		now,
	)

	resp, err := uc.Execute(context.Background(), &Request{UserID: 1, CompanyID: 1, ModuleID: 10, Date: "2026-09-10"})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)

	assert.Equal(t, 0, slotByTime(t, resp.Slots, "00:00").AvailableSpots)
	assert.Equal(t, 1, slotByTime(t, resp.Slots, "00:30").AvailableSpots)

	// Выборка шла по абсолютному окну, расширенному на буфер
	require.NotNil(t, bookingRepo.lastFilter.WindowStart)
	require.NotNil(t, bookingRepo.lastFilter.WindowEnd)
	assert.Equal(t, time.Date(2026, 9, 9, 23, 45, 0, 0, time.UTC), *bookingRepo.lastFilter.WindowStart)
	assert.Equal(t, time.Date(2026, 9, 11, 0, 15, 0, 0, time.UTC), *bookingRepo.lastFilter.WindowEnd)
}
