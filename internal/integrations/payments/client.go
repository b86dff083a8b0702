package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/setupintent"
)

// Logger интерфейс логгера, используемый клиентом
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Hold результат успешной авторизации: холд средств без списания.
// Списание выполняется после оказания услуги, отмена холда - при откате бронирования
type Hold struct {
	PaymentRef string
	Status     string
}

// Client клиент платежного провайдера (Stripe).
// При enabled=false все операции превращаются в no-op: бронирование работает
// в режиме оплаты на месте
type Client struct {
	enabled bool
	log     Logger
}

// NewClient создает новый экземпляр платежного клиента.
// Секретный ключ устанавливается глобально для stripe-go
func NewClient(enabled bool, secretKey string, log Logger) *Client {
	if enabled {
		stripe.Key = secretKey
	}
	return &Client{
		enabled: enabled,
		log:     log,
	}
}

// Enabled сообщает, настроен ли платежный провайдер
func (c *Client) Enabled() bool {
	return c.enabled
}

// Authorize создает холд средств (manual capture) под бронирование.
// idempotencyKey защищает от двойной авторизации при ретраях
func (c *Client) Authorize(ctx context.Context, amountCents int64, currency, idempotencyKey string) (*Hold, error) {
	if !c.enabled {
		return nil, ErrNotConfigured
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
	}
	params.IdempotencyKey = stripe.String(idempotencyKey)
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Type == stripe.ErrorTypeCard {
			c.log.Info("Payment authorization declined: %s", stripeErr.Code)
			return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, stripeErr.Code)
		}
		return nil, fmt.Errorf("%w: failed to create payment intent: %v", ErrInternal, err)
	}

	return &Hold{
		PaymentRef: intent.ID,
		Status:     string(intent.Status),
	}, nil
}

// Capture списывает ранее захолдированные средства
func (c *Client) Capture(ctx context.Context, paymentRef string) error {
	if !c.enabled {
		return ErrNotConfigured
	}

	params := &stripe.PaymentIntentCaptureParams{}
	params.Context = ctx

	if _, err := paymentintent.Capture(paymentRef, params); err != nil {
		return fmt.Errorf("%w: failed to capture payment intent %s: %v", ErrInternal, paymentRef, err)
	}

	return nil
}

// Void отменяет холд средств. Компенсирующее действие: вызывается, когда
// бронирование не удалось зафиксировать после успешной авторизации
func (c *Client) Void(ctx context.Context, paymentRef string) error {
	if !c.enabled {
		return ErrNotConfigured
	}

	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := paymentintent.Cancel(paymentRef, params); err != nil {
		return fmt.Errorf("%w: failed to cancel payment intent %s: %v", ErrInternal, paymentRef, err)
	}

	return nil
}

// SetupDeferred сохраняет платежный метод для будущего списания (оплата после услуги)
func (c *Client) SetupDeferred(ctx context.Context, idempotencyKey string) (string, error) {
	if !c.enabled {
		return "", ErrNotConfigured
	}

	params := &stripe.SetupIntentParams{
		Usage: stripe.String(string(stripe.SetupIntentUsageOffSession)),
	}
	params.IdempotencyKey = stripe.String(idempotencyKey)
	params.Context = ctx

	intent, err := setupintent.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create setup intent: %v", ErrInternal, err)
	}

	return intent.ID, nil
}
