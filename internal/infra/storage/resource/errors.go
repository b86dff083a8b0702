package resource

import "errors"

var (
	// ErrInstructorNotFound возвращается, когда инструктор не найден
	ErrInstructorNotFound = errors.New("resource.repository: instructor not found")

	// ErrVehicleNotFound возвращается, когда грузовик не найден
	ErrVehicleNotFound = errors.New("resource.repository: vehicle not found")

	// ErrModuleNotFound возвращается, когда модуль не найден
	ErrModuleNotFound = errors.New("resource.repository: module not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("resource.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("resource.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("resource.repository: failed to scan row")
)
