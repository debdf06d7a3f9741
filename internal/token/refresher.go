package token

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/metrics"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	ErrNoRefreshToken   = errors.New("no refresh token configured")
	ErrEmptyAccessToken = errors.New("token response missing access token")
)

// AuthError - ошибка обмена refresh-токена: провайдер отклонил учётные
// данные либо вернул некорректный ответ. Восстановление невозможно без
// получения нового refresh-токена вне сервиса.
type AuthError struct {
	Status int
	Body   string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("token refresh failed: %s", e.Err.Error())
	}
	return fmt.Sprintf("token refresh failed: status %d: %s", e.Status, e.Body)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// tokenResponse - модель ответа OAuth2 провайдера на обмен refresh-токена
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Refresher выполняет обмен refresh-токена на access-токен через OAuth2
// endpoint провайдера и обновляет хранилище. Провайдер может вернуть новый
// refresh-токен (ротация), тогда прежний заменяется в хранилище.
type Refresher struct {
	authURL      string
	clientID     string
	clientSecret string
	httpClient   HTTPClient
	store        *Store
}

// NewRefresher создаёт обменник токенов поверх переданного HTTP-клиента.
func NewRefresher(authURL string, clientID string, clientSecret string, httpClient HTTPClient, store *Store) *Refresher {
	return &Refresher{
		authURL:      authURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		store:        store,
	}
}

// Refresh выполняет один обмен refresh-токена. Текущий refresh-токен
// читается из хранилища на каждый вызов: после ротации повторный обмен
// обязан использовать новое значение. При неудаче хранилище не меняется.
func (r *Refresher) Refresh(ctx context.Context) (Credential, error) {
	credential, err := r.refresh(ctx)
	if err != nil {
		metrics.TokenRefreshFailuresTotal.Inc()
		return Credential{}, err
	}
	metrics.TokenRefreshesTotal.Inc()
	return credential, nil
}

func (r *Refresher) refresh(ctx context.Context) (Credential, error) {
	current := r.store.Get()
	if current.RefreshToken == "" {
		return Credential{}, &AuthError{Err: ErrNoRefreshToken}
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", r.clientID)
	if r.clientSecret != "" {
		form.Set("client_secret", r.clientSecret)
	}
	form.Set("refresh_token", current.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Credential{}, &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Credential{}, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Warn("Token refresh rejected", "status", resp.StatusCode)
		return Credential{}, &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Credential{}, &AuthError{Err: fmt.Errorf("decode token response: %w", err)}
	}
	if payload.AccessToken == "" {
		return Credential{}, &AuthError{Err: ErrEmptyAccessToken}
	}

	expiresAt := decodeExpiry(payload.AccessToken, payload.ExpiresIn)

	// ротация refresh-токена провайдером
	if payload.RefreshToken != "" && payload.RefreshToken != current.RefreshToken {
		logger.Info("Refresh token rotated by provider")
		r.store.SetRefreshToken(payload.RefreshToken)
	}
	r.store.Set(payload.AccessToken, expiresAt)

	return r.store.Get(), nil
}

// decodeExpiry извлекает время истечения из exp-клейма access-токена.
// Подпись не проверяется: токен получен напрямую от провайдера. Если клейм
// отсутствует, срок считается от текущего времени и expires_in.
func decodeExpiry(accessToken string, expiresIn int64) time.Time {
	if tok, err := jwt.ParseInsecure([]byte(accessToken)); err == nil {
		if exp := tok.Expiration(); !exp.IsZero() {
			return exp
		}
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}
