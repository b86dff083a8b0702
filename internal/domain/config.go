package domain

import "time"

// CompanyBookingConfig booking policy parameters of a company
// Supports hierarchical configuration:
// 1. Module-specific (company_id, module_id)
// 2. Company-wide (company_id, NULL)
// Обе продуктовые линейки используют одну и ту же политику с разными параметрами
// (буфер 15 минут / без буфера, нотис 12 часов / 24 часа)
type CompanyBookingConfig struct {
	ID                     int64
	CompanyID              int64
	ModuleID               *int64 // NULL = конфигурация для всех модулей компании
	SlotGranularityMinutes int    // шаг генерации слотов
	BufferMinutes          int    // минимальный зазор вокруг существующих бронирований
	MinNoticeMinutes       int    // минимальное время до начала слота
	AdvanceBookingDays     int    // 0 = unlimited
	AutoConfirm            bool   // сразу confirmed вместо requested
	Timezone               string // бизнесовый пояс компании (IANA)
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsGlobalConfig returns true if this is a company-wide configuration
func (c *CompanyBookingConfig) IsGlobalConfig() bool {
	return c.ModuleID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *CompanyBookingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// BufferDuration возвращает буфер как time.Duration
func (c *CompanyBookingConfig) BufferDuration() time.Duration {
	return time.Duration(c.BufferMinutes) * time.Minute
}

// MinNoticeDuration возвращает минимальный нотис как time.Duration
func (c *CompanyBookingConfig) MinNoticeDuration() time.Duration {
	return time.Duration(c.MinNoticeMinutes) * time.Minute
}
