package models

import (
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/internal/domain"
	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// Request модели

// UpsertConfigRequest запрос на создание или обновление конфигурации политики
type UpsertConfigRequest struct {
	UserID                 int64  `json:"userId"`
	CompanyID              int64  `json:"companyId"`
	ModuleID               *int64 `json:"moduleId,omitempty"` // NULL = для всех модулей компании
	SlotGranularityMinutes int    `json:"slotGranularityMinutes"`
	BufferMinutes          int    `json:"bufferMinutes"`
	MinNoticeMinutes       int    `json:"minNoticeMinutes"`
	AdvanceBookingDays     int    `json:"advanceBookingDays"` // 0 = без ограничений
	AutoConfirm            bool   `json:"autoConfirm"`
	Timezone               string `json:"timezone"`
}

// ToDomainConfig конвертирует запрос в domain модель
func (r *UpsertConfigRequest) ToDomainConfig() *domain.CompanyBookingConfig {
	return &domain.CompanyBookingConfig{
		CompanyID:              r.CompanyID,
		ModuleID:               r.ModuleID,
		SlotGranularityMinutes: r.SlotGranularityMinutes,
		BufferMinutes:          r.BufferMinutes,
		MinNoticeMinutes:       r.MinNoticeMinutes,
		AdvanceBookingDays:     r.AdvanceBookingDays,
		AutoConfirm:            r.AutoConfirm,
		Timezone:               r.Timezone,
	}
}

// CreateRuleRequest запрос на создание правила расписания
type CreateRuleRequest struct {
	UserID       int64            `json:"userId"`
	CompanyID    int64            `json:"companyId"`
	ResourceType string           `json:"resourceType"` // company | instructor
	ResourceID   *int64           `json:"resourceId,omitempty"`
	DayOfWeek    int              `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	OpenTime     types.TimeString `json:"openTime"`
	CloseTime    types.TimeString `json:"closeTime"`
}

// CreateTimeOffRequest запрос на создание блэкаута
type CreateTimeOffRequest struct {
	UserID       int64     `json:"userId"`
	CompanyID    int64     `json:"companyId"`
	ResourceType string    `json:"resourceType"`
	ResourceID   *int64    `json:"resourceId,omitempty"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	Reason       *string   `json:"reason,omitempty"`
}

// CreateInstructorRequest запрос на создание инструктора
type CreateInstructorRequest struct {
	UserID    int64   `json:"userId"`
	CompanyID int64   `json:"companyId"`
	Name      string  `json:"name"`
	ModuleIDs []int64 `json:"moduleIds"`
}

// CreateVehicleRequest запрос на создание учебного грузовика
type CreateVehicleRequest struct {
	UserID       int64  `json:"userId"`
	CompanyID    int64  `json:"companyId"`
	Name         string `json:"name"`
	LicensePlate string `json:"licensePlate"`
}

// Response модели

// ConfigResponse ответ с данными конфигурации политики бронирования
type ConfigResponse struct {
	ID                     int64     `json:"id"`
	CompanyID              int64     `json:"companyId"`
	ModuleID               *int64    `json:"moduleId,omitempty"`
	SlotGranularityMinutes int       `json:"slotGranularityMinutes"`
	BufferMinutes          int       `json:"bufferMinutes"`
	MinNoticeMinutes       int       `json:"minNoticeMinutes"`
	AdvanceBookingDays     int       `json:"advanceBookingDays"`
	AutoConfirm            bool      `json:"autoConfirm"`
	Timezone               string    `json:"timezone"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// ConfigListResponse ответ со списком конфигураций
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// RuleResponse ответ с данными правила расписания
type RuleResponse struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"companyId"`
	ResourceType string `json:"resourceType"`
	ResourceID   *int64 `json:"resourceId,omitempty"`
	DayOfWeek    int    `json:"dayOfWeek"`
	OpenTime     string `json:"openTime"`
	CloseTime    string `json:"closeTime"`
	Active       bool   `json:"active"`
}

// RuleListResponse ответ со списком правил расписания
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// TimeOffResponse ответ с данными блэкаута
type TimeOffResponse struct {
	ID           int64     `json:"id"`
	CompanyID    int64     `json:"companyId"`
	ResourceType string    `json:"resourceType"`
	ResourceID   *int64    `json:"resourceId,omitempty"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
	Reason       *string   `json:"reason,omitempty"`
}

// InstructorResponse ответ с данными инструктора
type InstructorResponse struct {
	ID        int64   `json:"id"`
	CompanyID int64   `json:"companyId"`
	Name      string  `json:"name"`
	ModuleIDs []int64 `json:"moduleIds"`
	Active    bool    `json:"active"`
}

// InstructorListResponse ответ со списком инструкторов
type InstructorListResponse struct {
	Instructors []InstructorResponse `json:"instructors"`
}

// VehicleResponse ответ с данными учебного грузовика
type VehicleResponse struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"companyId"`
	Name         string `json:"name"`
	LicensePlate string `json:"licensePlate"`
	Active       bool   `json:"active"`
}

// VehicleListResponse ответ со списком грузовиков
type VehicleListResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.CompanyBookingConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                     c.ID,
		CompanyID:              c.CompanyID,
		ModuleID:               c.ModuleID,
		SlotGranularityMinutes: c.SlotGranularityMinutes,
		BufferMinutes:          c.BufferMinutes,
		MinNoticeMinutes:       c.MinNoticeMinutes,
		AdvanceBookingDays:     c.AdvanceBookingDays,
		AutoConfirm:            c.AutoConfirm,
		Timezone:               c.Timezone,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.CompanyBookingConfig) *ConfigListResponse {
	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, 0, len(configs)),
	}

	for _, config := range configs {
		if configResp := FromDomainConfig(config); configResp != nil {
			resp.Configs = append(resp.Configs, *configResp)
		}
	}

	return resp
}

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.AvailabilityRule) *RuleResponse {
	if r == nil {
		return nil
	}

	return &RuleResponse{
		ID:           r.ID,
		CompanyID:    r.CompanyID,
		ResourceType: string(r.ResourceType),
		ResourceID:   r.ResourceID,
		DayOfWeek:    r.DayOfWeek,
		OpenTime:     r.OpenTime.String(),
		CloseTime:    r.CloseTime.String(),
		Active:       r.Active,
	}
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.AvailabilityRule) *RuleListResponse {
	resp := &RuleListResponse{
		Rules: make([]RuleResponse, 0, len(rules)),
	}

	for _, rule := range rules {
		if ruleResp := FromDomainRule(rule); ruleResp != nil {
			resp.Rules = append(resp.Rules, *ruleResp)
		}
	}

	return resp
}

// FromDomainTimeOff конвертирует domain модель в DTO
func FromDomainTimeOff(t *domain.TimeOff) *TimeOffResponse {
	if t == nil {
		return nil
	}

	return &TimeOffResponse{
		ID:           t.ID,
		CompanyID:    t.CompanyID,
		ResourceType: string(t.ResourceType),
		ResourceID:   t.ResourceID,
		StartsAt:     t.StartsAt,
		EndsAt:       t.EndsAt,
		Reason:       t.Reason,
	}
}

// FromDomainInstructor конвертирует domain модель в DTO
func FromDomainInstructor(i *domain.Instructor) *InstructorResponse {
	if i == nil {
		return nil
	}

	return &InstructorResponse{
		ID:        i.ID,
		CompanyID: i.CompanyID,
		Name:      i.Name,
		ModuleIDs: i.ModuleIDs,
		Active:    i.Active,
	}
}

// FromDomainInstructorList конвертирует список domain моделей в DTO
func FromDomainInstructorList(instructors []*domain.Instructor) *InstructorListResponse {
	resp := &InstructorListResponse{
		Instructors: make([]InstructorResponse, 0, len(instructors)),
	}

	for _, instructor := range instructors {
		if instructorResp := FromDomainInstructor(instructor); instructorResp != nil {
			resp.Instructors = append(resp.Instructors, *instructorResp)
		}
	}

	return resp
}

// FromDomainVehicle конвертирует domain модель в DTO
func FromDomainVehicle(v *domain.Vehicle) *VehicleResponse {
	if v == nil {
		return nil
	}

	return &VehicleResponse{
		ID:           v.ID,
		CompanyID:    v.CompanyID,
		Name:         v.Name,
		LicensePlate: v.LicensePlate,
		Active:       v.Active,
	}
}

// FromDomainVehicleList конвертирует список domain моделей в DTO
func FromDomainVehicleList(vehicles []*domain.Vehicle) *VehicleListResponse {
	resp := &VehicleListResponse{
		Vehicles: make([]VehicleResponse, 0, len(vehicles)),
	}

	for _, vehicle := range vehicles {
		if vehicleResp := FromDomainVehicle(vehicle); vehicleResp != nil {
			resp.Vehicles = append(resp.Vehicles, *vehicleResp)
		}
	}

	return resp
}
