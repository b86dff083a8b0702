package create_booking

import "errors"

// Конфликты - закрытое перечисление: вызывающая сторона должна различать
// причины отказа, а не получать обобщенную ошибку
var (
	// ErrOutsideAvailability возвращается, когда интервал не попадает ни в одно рабочее окно
	ErrOutsideAvailability = errors.New("create_booking: outside availability")

	// ErrBlackoutConflict возвращается при пересечении с блэкаутом
	ErrBlackoutConflict = errors.New("create_booking: blackout conflict")

	// ErrSlotTaken возвращается, когда слот занят другим бронированием (с учетом буфера)
	ErrSlotTaken = errors.New("create_booking: slot is taken")

	// ErrDuplicateRequest возвращается, когда заявитель уже держит пересекающееся бронирование
	ErrDuplicateRequest = errors.New("create_booking: duplicate request")

	// ErrTooSoon возвращается при нарушении минимального времени до начала
	ErrTooSoon = errors.New("create_booking: too soon")

	// ErrNoInstructorAvailable возвращается, когда нет свободного инструктора с нужной компетенцией
	ErrNoInstructorAvailable = errors.New("create_booking: no instructor available")

	// ErrNoVehicleAvailable возвращается, когда нет свободного грузовика
	ErrNoVehicleAvailable = errors.New("create_booking: no vehicle available")

	// ErrSessionFull возвращается, когда в учебной сессии не осталось мест
	ErrSessionFull = errors.New("create_booking: session is full")
)

var (
	// ErrModuleNotFound возвращается, когда модуль не найден или неактивен
	ErrModuleNotFound = errors.New("create_booking: module not found")

	// ErrInvalidDate возвращается при некорректной или прошедшей дате
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrPaymentDeclined возвращается, когда платежный провайдер отклонил авторизацию
	ErrPaymentDeclined = errors.New("create_booking: payment declined")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
