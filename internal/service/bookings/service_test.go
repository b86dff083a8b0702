package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	bookingStorage "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/booking"
	identityClient "github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/identity"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/bookings/models"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/ptr"
)

// --- fakes ---

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking

	// статус, в который строка уходит между чтением сервиса и транзакцией -
	// моделирует конкурентный переход
	driftTo *domain.BookingStatus

	cancelled       []int64
	cancelledStatus domain.BookingStatus
	cancelReason    string
	updatedStatus   *domain.BookingStatus
	paymentStatus   *domain.PaymentStatus
}

func (f *fakeBookingRepo) applyDrift(b *domain.Booking) {
	if f.driftTo != nil {
		b.Status = *f.driftTo
		f.driftTo = nil
	}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingStorage.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) GetWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	var result []*domain.Booking
	for _, b := range f.bookings {
		if b.CompanyID == filter.CompanyID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, from, to domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingStorage.ErrStatusConflict
	}
	f.applyDrift(b)
	if b.Status != from {
		return bookingStorage.ErrStatusConflict
	}
	b.Status = to
	f.updatedStatus = &to
	return nil
}

func (f *fakeBookingRepo) UpdatePayment(_ context.Context, id int64, status domain.PaymentStatus, _ *string) error {
	f.paymentStatus = &status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason string) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingStorage.ErrStatusConflict
	}
	f.applyDrift(b)
	if !b.CanBeCancelled() {
		return bookingStorage.ErrStatusConflict
	}
	b.Status = status
	f.cancelled = append(f.cancelled, id)
	f.cancelledStatus = status
	f.cancelReason = reason
	return nil
}

type fakeSessionRepo struct {
	released []int64
}

func (f *fakeSessionRepo) ReleaseSeat(_ context.Context, sessionID int64) error {
	f.released = append(f.released, sessionID)
	return nil
}

type fakeOutboxRepo struct {
	topics []string
}

func (f *fakeOutboxRepo) Insert(_ context.Context, topic, _ string, _ []byte) (string, error) {
	f.topics = append(f.topics, topic)
	return "ev-1", nil
}

type fakeIdentity struct {
	users map[int64]*identityClient.User
}

func (f *fakeIdentity) GetUser(_ context.Context, userID int64) (*identityClient.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, identityClient.ErrUserNotFound
	}
	return u, nil
}

type fakePayments struct {
	enabled  bool
	voided   []string
	captured []string
}

func (f *fakePayments) Enabled() bool { return f.enabled }

func (f *fakePayments) Void(_ context.Context, paymentRef string) error {
	f.voided = append(f.voided, paymentRef)
	return nil
}

func (f *fakePayments) Capture(_ context.Context, paymentRef string) error {
	f.captured = append(f.captured, paymentRef)
	return nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- fixture ---

type fixture struct {
	svc      *Service
	bookings *fakeBookingRepo
	sessions *fakeSessionRepo
	outbox   *fakeOutboxRepo
	payments *fakePayments
}

func newFixture(bookings ...*domain.Booking) *fixture {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}

	sessions := &fakeSessionRepo{}
	outbox := &fakeOutboxRepo{}
	payments := &fakePayments{enabled: true}
	identity := &fakeIdentity{users: map[int64]*identityClient.User{
		1:   {ID: 1, Role: identityClient.RoleUser},
		50:  {ID: 50, Role: identityClient.RoleStaff, CompanyID: ptr.Ptr[int64](10)},
		99:  {ID: 99, Role: identityClient.RoleAdmin},
		666: {ID: 666, Role: identityClient.RoleUser},
	}}

	svc := NewService(repo, sessions, outbox, identity, payments, &fakeTxManager{}, nopLogger{})
	return &fixture{svc: svc, bookings: repo, sessions: sessions, outbox: outbox, payments: payments}
}

func testBooking(id int64, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		CompanyID:       10,
		UserID:          1,
		ModuleID:        20,
		BookingDate:     time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		DurationMinutes: 60,
		StartsAt:        time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
		EndsAt:          time.Date(2026, 9, 10, 11, 0, 0, 0, time.UTC),
		Status:          status,
		PaymentStatus:   domain.PaymentUnpaid,
		ModuleName:      "Basic Control Skills",
	}
}

// --- tests ---

func TestGetByID(t *testing.T) {
	t.Run("owner sees own booking", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusConfirmed))

		resp, err := f.svc.GetByID(context.Background(), 100, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(100), resp.ID)
	})

	t.Run("staff of company sees booking", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusConfirmed))

		_, err := f.svc.GetByID(context.Background(), 100, 50)
		require.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusConfirmed))

		_, err := f.svc.GetByID(context.Background(), 100, 666)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.GetByID(context.Background(), 100, 1)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestCancel(t *testing.T) {
	t.Run("owner cancel uses cancelled_by_user", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusConfirmed))

		err := f.svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{
			UserID:             1,
			CancellationReason: "plans changed",
		})
		require.NoError(t, err)

		assert.Equal(t, []int64{100}, f.bookings.cancelled)
		assert.Equal(t, domain.StatusCancelledByUser, f.bookings.cancelledStatus)
		assert.Equal(t, "plans changed", f.bookings.cancelReason)
		assert.Equal(t, []string{"booking.cancelled"}, f.outbox.topics)
	})

	t.Run("staff cancel uses cancelled_by_company", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusRequested))

		err := f.svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 50})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelledByCompany, f.bookings.cancelledStatus)
	})

	t.Run("admin cancels any booking", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusRequested))

		err := f.svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 99})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelledByCompany, f.bookings.cancelledStatus)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusConfirmed))

		err := f.svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 666})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Empty(t, f.bookings.cancelled)
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusCompleted))

		err := f.svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 1})
		assert.ErrorIs(t, err, ErrCannotCancel)
	})

	t.Run("seat released when booking belongs to session", func(t *testing.T) {
		b := testBooking(100, domain.StatusConfirmed)
		b.SessionID = ptr.Ptr[int64](7)
		f := newFixture(b)

		err := f.svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 1})
		require.NoError(t, err)
		assert.Equal(t, []int64{7}, f.sessions.released)
	})

	t.Run("authorized hold is voided after cancel", func(t *testing.T) {
		b := testBooking(100, domain.StatusConfirmed)
		b.PaymentStatus = domain.PaymentAuthorized
		b.PaymentRef = ptr.Ptr("pi_hold_1")
		f := newFixture(b)

		err := f.svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 1})
		require.NoError(t, err)

		assert.Equal(t, []string{"pi_hold_1"}, f.payments.voided)
		require.NotNil(t, f.bookings.paymentStatus)
		assert.Equal(t, domain.PaymentVoided, *f.bookings.paymentStatus)
	})

	t.Run("unpaid booking does not touch payments", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusConfirmed))

		err := f.svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 1})
		require.NoError(t, err)
		assert.Empty(t, f.payments.voided)
	})

	// Строка ушла в cancelled между чтением и транзакцией: повторная отмена
	// не проходит, место в сессии не освобождается второй раз
	t.Run("concurrent cancel does not release seat twice", func(t *testing.T) {
		b := testBooking(100, domain.StatusConfirmed)
		b.SessionID = ptr.Ptr[int64](7)
		f := newFixture(b)
		f.bookings.driftTo = ptr.Ptr(domain.StatusCancelledByUser)

		err := f.svc.Cancel(context.Background(), 100, &models.CancelBookingRequest{UserID: 1})
		assert.ErrorIs(t, err, ErrCannotCancel)
		assert.Empty(t, f.sessions.released)
		assert.Empty(t, f.outbox.topics)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("staff confirms requested booking", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusRequested))

		err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{
			UserID: 50,
			Status: "confirmed",
		})
		require.NoError(t, err)

		require.NotNil(t, f.bookings.updatedStatus)
		assert.Equal(t, domain.StatusConfirmed, *f.bookings.updatedStatus)
		assert.Equal(t, []string{"booking.confirmed"}, f.outbox.topics)
	})

	t.Run("non-confirm transition publishes status_changed", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusConfirmed))

		err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{
			UserID: 50,
			Status: "arrived",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"booking.status_changed"}, f.outbox.topics)
	})

	t.Run("regular user is denied", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusRequested))

		err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{
			UserID: 1,
			Status: "confirmed",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("invalid transition is rejected", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusRequested))

		err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{
			UserID: 50,
			Status: "completed",
		})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancellation statuses must go through Cancel", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusRequested))

		err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{
			UserID: 50,
			Status: "cancelled_by_company",
		})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusRequested))

		err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{
			UserID: 50,
			Status: "teleported",
		})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("completed booking captures authorized hold", func(t *testing.T) {
		b := testBooking(100, domain.StatusArrived)
		b.PaymentStatus = domain.PaymentAuthorized
		b.PaymentRef = ptr.Ptr("pi_hold_2")
		f := newFixture(b)

		err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{
			UserID: 50,
			Status: "completed",
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"pi_hold_2"}, f.payments.captured)
		require.NotNil(t, f.bookings.paymentStatus)
		assert.Equal(t, domain.PaymentCaptured, *f.bookings.paymentStatus)
	})

	// Строка ушла из проверенного статуса между чтением и транзакцией:
	// переход не перезаписывает конкурентную отмену
	t.Run("concurrent transition does not overwrite cancellation", func(t *testing.T) {
		f := newFixture(testBooking(100, domain.StatusConfirmed))
		f.bookings.driftTo = ptr.Ptr(domain.StatusCancelledByUser)

		err := f.svc.UpdateStatus(context.Background(), 100, &models.UpdateStatusRequest{
			UserID: 50,
			Status: "arrived",
		})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Equal(t, domain.StatusCancelledByUser, f.bookings.bookings[100].Status)
		assert.Empty(t, f.outbox.topics)
	})
}

func TestGetUserBookings(t *testing.T) {
	confirmed := testBooking(100, domain.StatusConfirmed)
	cancelled := testBooking(101, domain.StatusCancelledByUser)
	f := newFixture(confirmed, cancelled)

	t.Run("all bookings without filter", func(t *testing.T) {
		resp, err := f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 1})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 2)
	})

	t.Run("status filter applies", func(t *testing.T) {
		resp, err := f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
			UserID: 1,
			Status: ptr.Ptr("confirmed"),
		})
		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, int64(100), resp.Bookings[0].ID)
	})

	t.Run("invalid status filter is rejected", func(t *testing.T) {
		_, err := f.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
			UserID: 1,
			Status: ptr.Ptr("bogus"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestGetCompanyBookings(t *testing.T) {
	f := newFixture(testBooking(100, domain.StatusConfirmed))

	t.Run("staff sees company bookings", func(t *testing.T) {
		resp, err := f.svc.GetCompanyBookings(context.Background(), &models.GetCompanyBookingsRequest{
			UserID:    50,
			CompanyID: 10,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 1)
	})

	t.Run("regular user is denied", func(t *testing.T) {
		_, err := f.svc.GetCompanyBookings(context.Background(), &models.GetCompanyBookingsRequest{
			UserID:    1,
			CompanyID: 10,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}
