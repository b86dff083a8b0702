package get_available_slots

import (
	"time"

	"github.com/wavyvi00/cdltrainingbooking-sub000/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID    int64  // ID пользователя (для логирования, не влияет на результат)
	CompanyID int64  // ID компании
	ModuleID  int64  // ID модуля (услуги)
	Date      string // Дата в формате YYYY-MM-DD, интерпретируется в бизнесовом поясе компании
	IsAdmin   bool   // Привилегированный вызов: пропускает фильтр нотиса и неактивные модули
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date      time.Time // Локальная дата, на которую запрашивались слоты
	CompanyID int64     // ID компании
	ModuleID  int64     // ID модуля
	Timezone  string    // Бизнесовый часовой пояс, в котором заданы времена слотов
	Slots     []Slot    // Список слотов по возрастанию времени начала
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString // Локальное время начала слота (например, "10:00")
	DurationMinutes int              // Длительность слота в минутах
	AvailableSpots  int              // Количество свободных мест
	TotalSpots      int              // Общее количество мест
}
