package create_instructor

import (
	"errors"
	"net/http"
	"strconv"

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
	msgInvalidInstructor  = "некорректные данные инструктора"
	msgModuleNotFound     = "модуль не найден"
)

// CreateInstructorRequest HTTP request model
type CreateInstructorRequest struct {
	Name      string  `json:"name"`
	ModuleIDs []int64 `json:"moduleIds"`
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

// Handle POST /api/v1/companies/{companyId}/instructors
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /companies/{id}/instructors - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /companies/{id}/instructors - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateInstructorRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /companies/{id}/instructors - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateInstructor(r.Context(), &models.CreateInstructorRequest{
		UserID:    userID,
		CompanyID: companyID,
		Name:      req.Name,
		ModuleIDs: req.ModuleIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /companies/{id}/instructors - Access denied: company_id=%d, user_id=%d",
				companyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrModuleNotFound):
			h.logger.Warn("POST /companies/{id}/instructors - Module not found: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondNotFound(w, msgModuleNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /companies/{id}/instructors - Invalid instructor: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondBadRequest(w, msgInvalidInstructor)

		default:
			h.logger.Error("POST /companies/{id}/instructors - Failed to create instructor: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /companies/{id}/instructors - Instructor created: company_id=%d, instructor_id=%d",
		companyID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
