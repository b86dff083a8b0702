package create_availability_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/middleware"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule/models"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

const (
	msgInvalidCompanyID   = "некорректный ID компании"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidRule        = "некорректные параметры правила"
)

// CreateRuleRequest HTTP request model
type CreateRuleRequest struct {
	ResourceType string `json:"resourceType"`
	ResourceID   *int64 `json:"resourceId,omitempty"`
	DayOfWeek    int    `json:"dayOfWeek"`
	OpenTime     string `json:"openTime"`
	CloseTime    string `json:"closeTime"`
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

// Handle POST /api/v1/companies/{companyId}/availability-rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /companies/{id}/availability-rules - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /companies/{id}/availability-rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /companies/{id}/availability-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateRule(r.Context(), &models.CreateRuleRequest{
		UserID:       userID,
		CompanyID:    companyID,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		DayOfWeek:    req.DayOfWeek,
		OpenTime:     types.TimeString(req.OpenTime),
		CloseTime:    types.TimeString(req.CloseTime),
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /companies/{id}/availability-rules - Access denied: company_id=%d, user_id=%d",
				companyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /companies/{id}/availability-rules - Invalid rule: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		default:
			h.logger.Error("POST /companies/{id}/availability-rules - Failed to create rule: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /companies/{id}/availability-rules - Rule created: company_id=%d, rule_id=%d",
		companyID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
