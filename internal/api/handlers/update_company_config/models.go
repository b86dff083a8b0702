package update_company_config

import (
	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/service/schedule/models"
)

// UpsertConfigRequest HTTP request model
type UpsertConfigRequest struct {
	ModuleID               *int64 `json:"moduleId,omitempty"`
	SlotGranularityMinutes int    `json:"slotGranularityMinutes"`
	BufferMinutes          int    `json:"bufferMinutes"`
	MinNoticeMinutes       int    `json:"minNoticeMinutes"`
	AdvanceBookingDays     int    `json:"advanceBookingDays"`
	AutoConfirm            bool   `json:"autoConfirm"`
	Timezone               string `json:"timezone"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpsertConfigRequest) ToServiceRequest(companyID, userID int64) *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:                 userID,
		CompanyID:              companyID,
		ModuleID:               r.ModuleID,
		SlotGranularityMinutes: r.SlotGranularityMinutes,
		BufferMinutes:          r.BufferMinutes,
		MinNoticeMinutes:       r.MinNoticeMinutes,
		AdvanceBookingDays:     r.AdvanceBookingDays,
		AutoConfirm:            r.AutoConfirm,
		Timezone:               r.Timezone,
	}
}
