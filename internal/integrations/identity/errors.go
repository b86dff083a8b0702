package identity

import "errors"

var (
	// ErrUserNotFound возвращается, когда пользователь не найден в identity-сервисе
	ErrUserNotFound = errors.New("user not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identity client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("identity client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что identity-сервис недоступен и запрос обрабатывается
	// с ролью по умолчанию
	ErrServiceDegraded = errors.New("identity service unavailable: graceful degradation applied")
)
