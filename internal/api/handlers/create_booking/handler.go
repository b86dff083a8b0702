package create_booking

import (
	"errors"
	"net/http"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/middleware"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	createBooking "github.com/wavyvi00/cdltrainingbooking-sub000/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidTime         = "некорректный формат времени начала, ожидается HH:MM"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgModuleNotFound      = "модуль не найден"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgDateTooFar          = "дата бронирования слишком далеко в будущем"
	msgInvalidInput        = "некорректные параметры бронирования"
	msgOutsideAvailability = "слот вне рабочего окна компании"
	msgBlackoutConflict    = "слот попадает в период недоступности"
	msgSlotTaken           = "выбранный временной слот занят"
	msgDuplicateRequest    = "у вас уже есть пересекающееся бронирование"
	msgTooSoon             = "слишком поздно для бронирования этого слота"
	msgNoInstructor        = "нет свободного инструктора на этот слот"
	msgNoVehicle           = "нет свободного грузовика на этот слот"
	msgSessionFull         = "учебная сессия заполнена"
	msgPaymentDeclined     = "платеж отклонен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid start time %q: %v", req.StartTime, err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		// Конфликты несут машиночитаемую причину: 409 - слот занят другими,
		// 422 - запрос сам по себе не проходит политику
		switch {
		case errors.Is(err, createBooking.ErrOutsideAvailability):
			h.logger.Warn("POST /bookings - Outside availability: user_id=%d, company_id=%d", userID, req.CompanyID)
			handlers.RespondUnprocessable(w, string(domain.ConflictOutsideAvailability), msgOutsideAvailability)

		case errors.Is(err, createBooking.ErrBlackoutConflict):
			h.logger.Warn("POST /bookings - Blackout conflict: user_id=%d, company_id=%d", userID, req.CompanyID)
			handlers.RespondUnprocessable(w, string(domain.ConflictBlackout), msgBlackoutConflict)

		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: user_id=%d, company_id=%d", userID, req.CompanyID)
			handlers.RespondConflict(w, string(domain.ConflictSlotTaken), msgSlotTaken)

		case errors.Is(err, createBooking.ErrDuplicateRequest):
			h.logger.Warn("POST /bookings - Duplicate request: user_id=%d, company_id=%d", userID, req.CompanyID)
			handlers.RespondConflict(w, string(domain.ConflictDuplicateRequest), msgDuplicateRequest)

		case errors.Is(err, createBooking.ErrTooSoon):
			h.logger.Warn("POST /bookings - Too soon: user_id=%d, company_id=%d", userID, req.CompanyID)
			handlers.RespondUnprocessable(w, string(domain.ConflictTooSoon), msgTooSoon)

		case errors.Is(err, createBooking.ErrNoInstructorAvailable):
			h.logger.Warn("POST /bookings - No instructor available: user_id=%d, company_id=%d", userID, req.CompanyID)
			handlers.RespondConflict(w, string(domain.ConflictNoInstructorAvailable), msgNoInstructor)

		case errors.Is(err, createBooking.ErrNoVehicleAvailable):
			h.logger.Warn("POST /bookings - No vehicle available: user_id=%d, company_id=%d", userID, req.CompanyID)
			handlers.RespondConflict(w, string(domain.ConflictNoVehicleAvailable), msgNoVehicle)

		case errors.Is(err, createBooking.ErrSessionFull):
			h.logger.Warn("POST /bookings - Session full: user_id=%d, company_id=%d", userID, req.CompanyID)
			handlers.RespondConflict(w, string(domain.ConflictSessionFull), msgSessionFull)

		case errors.Is(err, createBooking.ErrModuleNotFound):
			h.logger.Warn("POST /bookings - Module not found: company_id=%d, module_id=%d", req.CompanyID, req.ModuleID)
			handlers.RespondNotFound(w, msgModuleNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: user_id=%d, date=%s", userID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: user_id=%d, date=%s", userID, req.BookingDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d: %v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrPaymentDeclined):
			h.logger.Warn("POST /bookings - Payment declined: user_id=%d, company_id=%d", userID, req.CompanyID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentDeclined)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, company_id=%d, error=%v",
				userID, req.CompanyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, user_id=%d, company_id=%d, status=%s",
		result.ID, userID, req.CompanyID, result.Status)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
