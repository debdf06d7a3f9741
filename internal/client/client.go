package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nhlong2701/takeAwayBill/internal/config"
	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/metrics"
	"github.com/nhlong2701/takeAwayBill/internal/token"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenSource - поставщик access-токенов для авторизации запросов.
// Refresh вызывается после ответа 401: закэшированный токен отозван.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

// OrdersAPI - контракт клиента API заказов Takeaway.com
type OrdersAPI interface {
	GetOrdersPage(ctx context.Context, year int, dayOfYear int, page int) (*OrdersPageResponse, error)
	GetLiveOrders(ctx context.Context) ([]LiveOrderResponse, error)
}

// Client выполняет авторизованные запросы к API заказов. Токен берётся
// у TokenSource непосредственно перед каждым запросом и не кэшируется
// внутри клиента.
type Client struct {
	portalURL  string
	liveURL    string
	httpClient HTTPClient
	tokens     TokenSource
	retry      RetryPolicy
	limiter    *RateLimiter
}

func NewClient(cfg config.TakeawayConfig, httpClient HTTPClient, tokens TokenSource) *Client {
	return &Client{
		portalURL:  cfg.PortalURL,
		liveURL:    cfg.LiveURL,
		httpClient: httpClient,
		tokens:     tokens,
		retry:      NewRetryPolicy(cfg.RetryAttempts, cfg.RetryBaseDelay),
		limiter:    NewRateLimiter(),
	}
}

// getJSON выполняет GET запрос с повторами по политике клиента и
// декодирует JSON ответа. После исчерпания повторов возвращает APIError.
// Ответ 429 дополнительно блокирует исходящие запросы на Retry-After.
func (c *Client) getJSON(ctx context.Context, op string, url string, out interface{}) error {
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		return c.doAuthorized(ctx, url, out)
	})
	if err != nil {
		var rateErr *RateLimitError
		if errors.As(err, &rateErr) {
			logger.Warn("Too many requests, blocking outgoing calls for", rateErr.RetryAfter)
			c.limiter.BlockFor(rateErr.RetryAfter)
		}
		metrics.PlatformRequestsFailedTotal.Inc()
		return &APIError{Op: op, Err: err}
	}
	return nil
}

// doAuthorized выполняет один авторизованный запрос. Ответ 401 приводит
// ровно к одному принудительному обмену токена и одному повтору запроса,
// повторный 401 возвращается как ошибка авторизации.
func (c *Client) doAuthorized(ctx context.Context, url string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	accessToken, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	err = c.doRequest(ctx, url, accessToken, out)
	if !isUnauthorized(err) {
		return err
	}

	logger.Warn("Access token rejected, forcing refresh")
	accessToken, err = c.tokens.Refresh(ctx)
	if err != nil {
		return err
	}

	err = c.doRequest(ctx, url, accessToken, out)
	if isUnauthorized(err) {
		return &token.AuthError{
			Status: http.StatusUnauthorized,
			Body:   "access token rejected after forced refresh",
		}
	}
	return err
}

func (c *Client) doRequest(ctx context.Context, url string, accessToken string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	metrics.PlatformRequestsTotal.Inc()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return HandleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func HandleErrorResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return NewRateLimitError(resp.Header)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Status: resp.StatusCode, Body: string(body)}
	}
}

func isUnauthorized(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == http.StatusUnauthorized
}
