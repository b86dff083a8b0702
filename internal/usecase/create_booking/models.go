package create_booking

import (
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID    int64            // ID заявителя (из identity-сервиса)
	CompanyID int64            // ID компании
	ModuleID  int64            // ID модуля
	Date      string           // Дата в формате YYYY-MM-DD в бизнесовом поясе компании
	StartTime types.TimeString // Локальное время начала слота (например, "10:00")
	Notes     *string          // Дополнительные заметки (опционально)
	PayNow    bool             // Авторизовать холд средств при создании
	IsAdmin   bool             // Привилегированный вызов: пропускает нотис и неактивные модули
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID           int64  // ID созданного бронирования
	UserID       int64  // ID заявителя
	CompanyID    int64  // ID компании
	ModuleID     int64  // ID модуля
	SessionID    *int64 // ID учебной сессии (только для модулей с инструктором)
	InstructorID *int64 // ID назначенного инструктора
	VehicleID    *int64 // ID назначенного грузовика

	BookingDate     time.Time        // Локальная дата бронирования
	StartTime       types.TimeString // Локальное время начала
	DurationMinutes int              // Длительность в минутах
	StartsAt        time.Time        // Абсолютный момент начала (UTC)
	EndsAt          time.Time        // Абсолютный момент конца (UTC)

	Status        string  // Статус бронирования
	PaymentStatus string  // Статус оплаты
	AmountCents   int64   // Сумма в минорных единицах валюты
	ModuleName    string  // Название модуля (денормализация)
	Notes         *string // Заметки

	CreatedAt time.Time
	UpdatedAt time.Time
}
