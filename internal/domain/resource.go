package domain

import "time"

// Instructor преподаватель с набором модулей, которые он может вести
// Деактивация исключает инструктора из будущего распределения,
// но не трогает уже созданные бронирования и сессии
type Instructor struct {
	ID        int64
	CompanyID int64
	Name      string
	ModuleIDs []int64 // какие модули может вести
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTeach проверяет, что инструктор может вести модуль
func (i *Instructor) CanTeach(moduleID int64) bool {
	for _, id := range i.ModuleIDs {
		if id == moduleID {
			return true
		}
	}
	return false
}

// Vehicle учебный грузовик
type Vehicle struct {
	ID           int64
	CompanyID    int64
	Name         string
	LicensePlate string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Module бронируемая услуга: учебный модуль CDL или услуга барбершопа
// Модуль без инструктора и с capacity 1 - простой вариант,
// коллизии считаются по компании как по эксклюзивному ресурсу
type Module struct {
	ID                 int64
	CompanyID          int64
	Name               string
	DurationMinutes    int
	Capacity           int // вместимость сессии; 1 = индивидуальная запись
	RequiresInstructor bool
	RequiresVehicle    bool
	PriceCents         int64
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsShared returns true if bookings of this module share capacity-bounded sessions
func (m *Module) IsShared() bool {
	return m.RequiresInstructor
}
