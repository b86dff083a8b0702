package create_vehicle

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
	msgInvalidVehicle     = "некорректные данные грузовика"
)

// CreateVehicleRequest HTTP request model
type CreateVehicleRequest struct {
	Name         string `json:"name"`
	LicensePlate string `json:"licensePlate"`
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

// Handle POST /api/v1/companies/{companyId}/vehicles
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /companies/{id}/vehicles - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /companies/{id}/vehicles - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateVehicleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /companies/{id}/vehicles - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateVehicle(r.Context(), &models.CreateVehicleRequest{
		UserID:       userID,
		CompanyID:    companyID,
		Name:         req.Name,
		LicensePlate: req.LicensePlate,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /companies/{id}/vehicles - Access denied: company_id=%d, user_id=%d",
				companyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /companies/{id}/vehicles - Invalid vehicle: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondBadRequest(w, msgInvalidVehicle)

		default:
			h.logger.Error("POST /companies/{id}/vehicles - Failed to create vehicle: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /companies/{id}/vehicles - Vehicle created: company_id=%d, vehicle_id=%d",
		companyID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
