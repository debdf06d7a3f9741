package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/token"
)

// PlatformTokens - контракт управления access-токеном платформы
type PlatformTokens interface {
	Refresh(ctx context.Context) (string, error)
	Credential() token.Credential
}

// RefreshTokenHandler — принудительное обновление access-токена платформы.
// В ответе возвращается срок действия нового токена.
func RefreshTokenHandler(tokens PlatformTokens) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := tokens.Refresh(r.Context()); err != nil {
			logger.Error("Forced token refresh failed:", zap.Error(err))
			http.Error(w, "Platform authorization failed, check refresh token", http.StatusBadGateway)
			return
		}
		expiresAt := tokens.Credential().ExpiresAt
		logger.Info("Access token refreshed by request, expires:", expiresAt.Format(time.RFC3339))

		response := struct {
			ExpiresAt time.Time `json:"expiresAt"`
		}{ExpiresAt: expiresAt}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error("Failed to encode JSON response:", zap.Error(err))
		}
	})
}
