package schedule

import "errors"

var (
	// ErrConfigNotFound возвращается, когда конфигурация не найдена
	ErrConfigNotFound = errors.New("booking config not found")

	// ErrRuleNotFound возвращается, когда правило расписания не найдено
	ErrRuleNotFound = errors.New("availability rule not found")

	// ErrInstructorNotFound возвращается, когда инструктор не найден
	ErrInstructorNotFound = errors.New("instructor not found")

	// ErrVehicleNotFound возвращается, когда грузовик не найден
	ErrVehicleNotFound = errors.New("vehicle not found")

	// ErrModuleNotFound возвращается, когда модуль не найден
	ErrModuleNotFound = errors.New("module not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
