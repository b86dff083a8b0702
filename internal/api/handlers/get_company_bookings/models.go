package get_company_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/bookings/models"
)

// ParseQuery собирает запрос сервиса из query параметров
// Поддерживаются фильтры: moduleId, instructorId, vehicleId,
// startDate, endDate, status, includeInactive
func ParseQuery(query url.Values, companyID, userID int64) (*models.GetCompanyBookingsRequest, error) {
	req := &models.GetCompanyBookingsRequest{
		UserID:    userID,
		CompanyID: companyID,
	}

	if raw := query.Get("moduleId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ModuleID = &id
	}

	if raw := query.Get("instructorId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.InstructorID = &id
	}

	if raw := query.Get("vehicleId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		req.VehicleID = &id
	}

	if raw := query.Get("startDate"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.StartDate = &date
	}

	if raw := query.Get("endDate"); raw != "" {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.EndDate = &date
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeInactive"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = include
	}

	return req, nil
}
