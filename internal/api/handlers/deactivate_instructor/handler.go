package deactivate_instructor

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/middleware"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule"
)

const (
	msgInvalidCompanyID    = "некорректный ID компании"
	msgInvalidInstructorID = "некорректный ID инструктора"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgForbidden           = "доступ запрещен"
	msgInstructorNotFound  = "инструктор не найден"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/companies/{companyId}/instructors/{instructorId}/deactivate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /instructors/{id}/deactivate - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	instructorID, err := strconv.ParseInt(vars["instructorId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /instructors/{id}/deactivate - Invalid instructor ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInstructorID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /instructors/{id}/deactivate - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeactivateInstructor(r.Context(), instructorID, companyID, userID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PATCH /instructors/{id}/deactivate - Access denied: company_id=%d, user_id=%d",
				companyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInstructorNotFound):
			h.logger.Warn("PATCH /instructors/{id}/deactivate - Instructor not found: instructor_id=%d", instructorID)
			handlers.RespondNotFound(w, msgInstructorNotFound)

		default:
			h.logger.Error("PATCH /instructors/{id}/deactivate - Failed to deactivate instructor: instructor_id=%d, error=%v",
				instructorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /instructors/{id}/deactivate - Instructor deactivated: instructor_id=%d, company_id=%d",
		instructorID, companyID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
