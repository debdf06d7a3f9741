package client

import (
	"fmt"
	"net/http"
	"time"
)

// StatusError - ответ API со статусом, отличным от 200
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// APIError - ошибка запроса к API заказов после исчерпания повторов
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// PartialFetchError - часть страниц параллельной выборки не получена.
// Успешно полученные заказы остаются у вызывающего, ошибка содержит
// номера неудачных страниц из общего числа страниц и их причины.
type PartialFetchError struct {
	Pages []int
	Total int
	Errs  []error
}

func (e *PartialFetchError) Error() string {
	return fmt.Sprintf("partial fetch: failed pages %v of %d", e.Pages, e.Total)
}

// RateLimitError - превышен лимит запросов к API
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return "rate limit exceeded"
}

func NewRateLimitError(headers http.Header) *RateLimitError {
	return &RateLimitError{
		RetryAfter: ParseRetryAfter(headers),
	}
}
