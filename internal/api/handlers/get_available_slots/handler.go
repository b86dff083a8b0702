package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/api/handlers"
	getAvailableSlots "github.com/wavyvi00/cdltrainingbooking-sub000/internal/usecase/get_available_slots"
)

const (
	msgInvalidCompanyID = "некорректный ID компании"
	msgInvalidModuleID  = "некорректный ID модуля"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateTooFar       = "дата слишком далеко в будущем"
	msgModuleNotFound   = "модуль не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/modules/{moduleId}/available-slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/modules/{id}/available-slots - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	moduleID, err := strconv.ParseInt(vars["moduleId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/modules/{id}/available-slots - Invalid module ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidModuleID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /companies/{id}/modules/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	// Публичный маршрут: вызов непривилегированный, нотис-фильтр всегда активен
	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		CompanyID: companyID,
		ModuleID:  moduleID,
		Date:      dateStr,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrModuleNotFound):
			h.logger.Warn("GET /companies/{id}/modules/{id}/available-slots - Module not found: company_id=%d, module_id=%d",
				companyID, moduleID)
			handlers.RespondNotFound(w, msgModuleNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /companies/{id}/modules/{id}/available-slots - Invalid date %q: company_id=%d", dateStr, companyID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /companies/{id}/modules/{id}/available-slots - Date too far in future: company_id=%d, date=%s",
				companyID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /companies/{id}/modules/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /companies/{id}/modules/{id}/available-slots - Failed to get slots: company_id=%d, module_id=%d, error=%v",
				companyID, moduleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /companies/{id}/modules/{id}/available-slots - Slots retrieved: company_id=%d, module_id=%d, slots_count=%d",
		companyID, moduleID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
