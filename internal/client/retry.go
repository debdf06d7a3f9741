package client

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/nhlong2701/takeAwayBill/internal/token"
)

// Параметры повторов по умолчанию
const (
	DefaultRetryAttempts  = 3
	DefaultRetryBaseDelay = time.Second
)

// RetryPolicy - политика повторов сетевых запросов: ограниченное число
// попыток с экспоненциальной задержкой (базовая задержка удваивается
// после каждой попытки). Повторяются только временные сбои.
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
}

func NewRetryPolicy(attempts int, baseDelay time.Duration) RetryPolicy {
	if attempts < 1 {
		attempts = DefaultRetryAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultRetryBaseDelay
	}
	return RetryPolicy{Attempts: attempts, BaseDelay: baseDelay}
}

// Do выполняет операцию с повторами по политике. Невременная ошибка
// возвращается сразу, без дополнительных попыток.
func (p RetryPolicy) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(p.Attempts-1), retry.NewExponential(p.BaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := operation(ctx)
		if err != nil && IsTransient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// IsTransient определяет, стоит ли повторять запрос после ошибки.
// Временными считаются ответы 5xx, таймауты и обрывы соединения.
// Ошибки авторизации и лимита запросов повторами не решаются.
func IsTransient(err error) bool {
	var authErr *token.AuthError
	if errors.As(err, &authErr) {
		return false
	}
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status >= http.StatusInternalServerError
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, syscall.ECONNRESET)
}
