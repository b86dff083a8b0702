package create_time_off

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/middleware"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule/models"
)

const (
	msgInvalidCompanyID   = "некорректный ID компании"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidTimeOff     = "некорректные параметры блэкаута"
)

// CreateTimeOffRequest HTTP request model
type CreateTimeOffRequest struct {
	ResourceType string    `json:"resourceType"`
	ResourceID   *int64    `json:"resourceId,omitempty"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	Reason       *string   `json:"reason,omitempty"`
}

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

// Handle POST /api/v1/companies/{companyId}/time-off
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /companies/{id}/time-off - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /companies/{id}/time-off - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateTimeOffRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /companies/{id}/time-off - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateTimeOff(r.Context(), &models.CreateTimeOffRequest{
		UserID:       userID,
		CompanyID:    companyID,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		Reason:       req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /companies/{id}/time-off - Access denied: company_id=%d, user_id=%d",
				companyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /companies/{id}/time-off - Invalid time off: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeOff)

		default:
			h.logger.Error("POST /companies/{id}/time-off - Failed to create time off: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /companies/{id}/time-off - Time off created: company_id=%d, time_off_id=%d",
		companyID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
