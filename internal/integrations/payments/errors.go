package payments

import "errors"

var (
	// ErrPaymentDeclined возвращается, когда платежный провайдер отклонил авторизацию
	ErrPaymentDeclined = errors.New("payment authorization declined")

	// ErrInternal возвращается при внутренних ошибках платежного клиента
	ErrInternal = errors.New("payments client: internal error")

	// ErrNotConfigured возвращается при попытке авторизации платежа
	// на выключенном платежном клиенте
	ErrNotConfigured = errors.New("payments client: not configured")
)
