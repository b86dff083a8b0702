package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	bookingRepo "github.com/wavyvi00/cdltrainingbooking-sub000/internal/infra/storage/booking"
	identityClient "github.com/wavyvi00/cdltrainingbooking-sub000/internal/integrations/identity"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями: чтение, отмена,
// административные переходы статусов
type Service struct {
	bookingRepo BookingRepository
	sessionRepo SessionRepository
	outboxRepo  OutboxRepository
	identity    IdentityClient
	payments    PaymentClient
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	sessionRepo SessionRepository,
	outboxRepo OutboxRepository,
	identity IdentityClient,
	payments PaymentClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		sessionRepo: sessionRepo,
		outboxRepo:  outboxRepo,
		identity:    identity,
		payments:    payments,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит только своё бронирование; staff и admin - любое
// бронирование своей компании
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkBookingAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetCompanyBookings получает бронирования компании с гибкой фильтрацией
// Поддерживает фильтры по модулю, инструктору, грузовику, периоду и статусу
// Доступно только staff и admin компании
func (s *Service) GetCompanyBookings(ctx context.Context, req *models.GetCompanyBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCompanyBookings: fetching bookings for company=%d, user=%d", req.CompanyID, req.UserID)

	if err := s.checkStaffAccess(ctx, req.CompanyID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCompanyBookings: invalid filter for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCompanyBookings: repository error for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: GetCompanyBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCompanyBookings: fetched %d bookings for company=%d", len(bookings), req.CompanyID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё бронирование (cancelled_by_user),
// staff и admin - любое бронирование компании (cancelled_by_company).
// Отмена, освобождение места в сессии и событие outbox - одна транзакция
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	// Статус отмены зависит от того, кто отменяет
	var cancelStatus domain.BookingStatus
	if booking.UserID == req.UserID {
		cancelStatus = domain.StatusCancelledByUser
	} else {
		if err := s.checkStaffAccess(ctx, booking.CompanyID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}
		cancelStatus = domain.StatusCancelledByCompany
	}

	txErr := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Статусный предикат внутри UPDATE: конкурентная отмена или переход,
		// случившийся после чтения выше, дает 0 строк вместо повторной отмены
		if err := s.bookingRepo.Cancel(txCtx, bookingID, cancelStatus, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				s.logger.Warn("Cancel: booking id=%d status changed concurrently", bookingID)
				return ErrCannotCancel
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		// Освобождаем место в учебной сессии той же транзакцией,
		// иначе счетчик мест разойдется с фактическими бронированиями
		if booking.SessionID != nil {
			if err := s.sessionRepo.ReleaseSeat(txCtx, *booking.SessionID); err != nil {
				s.logger.Error("Cancel: failed to release seat in session id=%d: %v", *booking.SessionID, err)
				return fmt.Errorf("%w: Cancel - failed to release seat: %v", ErrInternal, err)
			}
		}

		return s.publishLifecycleEvent(txCtx, "booking.cancelled", booking, cancelStatus)
	})
	if txErr != nil {
		return txErr
	}

	// Холд средств снимается после коммита: платежный провайдер не участвует
	// в транзакции хранилища, ошибка отмены холда не откатывает отмену
	s.releasePaymentHold(ctx, booking)

	s.logger.Info("Cancel: cancelled booking id=%d with status=%s", bookingID, cancelStatus)
	return nil
}

// UpdateStatus выполняет административный переход статуса бронирования
// Отмены сюда не входят - они идут через Cancel
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	if newStatus == domain.StatusCancelledByUser || newStatus == domain.StatusCancelledByCompany {
		s.logger.Warn("UpdateStatus: cancellation status=%s must go through Cancel", newStatus)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.checkStaffAccess(ctx, booking.CompanyID, req.UserID); err != nil {
		return err
	}

	if !domain.CanTransition(booking.Status, newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking id=%d",
			booking.Status, newStatus, bookingID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
	}

	topic := "booking.status_changed"
	if newStatus == domain.StatusConfirmed {
		topic = "booking.confirmed"
	}

	txErr := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Переход проверен по прочитанному статусу; UPDATE требует, чтобы
		// строка все еще была в нем - иначе переход устарел
		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, booking.Status, newStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrStatusConflict) {
				s.logger.Warn("UpdateStatus: booking id=%d left status=%s concurrently", bookingID, booking.Status)
				return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		return s.publishLifecycleEvent(txCtx, topic, booking, newStatus)
	})
	if txErr != nil {
		return txErr
	}

	// Завершенное занятие списывает авторизованный холд
	if newStatus == domain.StatusCompleted {
		s.capturePaymentHold(ctx, booking)
	}

	s.logger.Info("UpdateStatus: updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// Платежные компенсации

// releasePaymentHold снимает холд средств отмененного бронирования
// Ошибка логируется и не прерывает отмену
func (s *Service) releasePaymentHold(ctx context.Context, booking *domain.Booking) {
	if !s.payments.Enabled() || booking.PaymentStatus != domain.PaymentAuthorized || booking.PaymentRef == nil {
		return
	}

	if err := s.payments.Void(ctx, *booking.PaymentRef); err != nil {
		s.logger.Error("Cancel: failed to void payment hold %s for booking id=%d: %v",
			*booking.PaymentRef, booking.ID, err)
		return
	}

	if err := s.bookingRepo.UpdatePayment(ctx, booking.ID, domain.PaymentVoided, booking.PaymentRef); err != nil {
		s.logger.Error("Cancel: failed to record voided payment for booking id=%d: %v", booking.ID, err)
		return
	}

	s.logger.Info("Cancel: voided payment hold %s for booking id=%d", *booking.PaymentRef, booking.ID)
}

// capturePaymentHold списывает холд средств завершенного бронирования
func (s *Service) capturePaymentHold(ctx context.Context, booking *domain.Booking) {
	if !s.payments.Enabled() || booking.PaymentStatus != domain.PaymentAuthorized || booking.PaymentRef == nil {
		return
	}

	if err := s.payments.Capture(ctx, *booking.PaymentRef); err != nil {
		s.logger.Error("UpdateStatus: failed to capture payment %s for booking id=%d: %v",
			*booking.PaymentRef, booking.ID, err)
		return
	}

	if err := s.bookingRepo.UpdatePayment(ctx, booking.ID, domain.PaymentCaptured, booking.PaymentRef); err != nil {
		s.logger.Error("UpdateStatus: failed to record captured payment for booking id=%d: %v", booking.ID, err)
		return
	}

	s.logger.Info("UpdateStatus: captured payment %s for booking id=%d", *booking.PaymentRef, booking.ID)
}

// publishLifecycleEvent записывает событие жизненного цикла в outbox
func (s *Service) publishLifecycleEvent(ctx context.Context, topic string, booking *domain.Booking, status domain.BookingStatus) error {
	payload, err := json.Marshal(map[string]interface{}{
		"booking_id": booking.ID,
		"company_id": booking.CompanyID,
		"user_id":    booking.UserID,
		"module_id":  booking.ModuleID,
		"session_id": booking.SessionID,
		"starts_at":  booking.StartsAt.Format(time.RFC3339),
		"ends_at":    booking.EndsAt.Format(time.RFC3339),
		"status":     string(status),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event payload: %v", ErrInternal, err)
	}

	if _, err := s.outboxRepo.Insert(ctx, topic, strconv.FormatInt(booking.ID, 10), payload); err != nil {
		s.logger.Error("publishLifecycleEvent: failed to insert outbox event for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to insert outbox event: %v", ErrInternal, err)
	}

	return nil
}

// Вспомогательные методы

// checkBookingAccess проверяет, что пользователь имеет доступ к бронированию
func (s *Service) checkBookingAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.UserID == userID {
		return nil
	}

	if err := s.checkStaffAccess(ctx, booking.CompanyID, userID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// checkStaffAccess проверяет через identity-сервис, что пользователь
// является staff указанной компании или admin
func (s *Service) checkStaffAccess(ctx context.Context, companyID int64, userID int64) error {
	user, err := s.identity.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, identityClient.ErrUserNotFound) {
			s.logger.Warn("checkStaffAccess: user id=%d not found", userID)
			return ErrAccessDenied
		}
		s.logger.Error("checkStaffAccess: failed to get user id=%d: %v", userID, err)
		return fmt.Errorf("%w: checkStaffAccess - failed to get user: %v", ErrInternal, err)
	}

	if user.IsAdmin() || user.IsStaffOf(companyID) {
		return nil
	}

	s.logger.Warn("checkStaffAccess: user=%d has no staff access to company=%d", userID, companyID)
	return ErrAccessDenied
}
