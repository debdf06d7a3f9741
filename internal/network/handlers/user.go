package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/models"
	"github.com/nhlong2701/takeAwayBill/internal/services"
)

// LoginHandler — аутентификация пользователя панели
func LoginHandler(s services.SessionsService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// получение данных о пользователе
		var user models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			logger.Error("Failed to decode request", err)
			http.Error(w, "Invalid request format", http.StatusBadRequest)
			return
		}
		// аутентификация
		authenticated, err := s.Authenticate(r.Context(), user)
		if err != nil {
			logger.Error("Error authenticate user", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}
		// проверка авторизации
		if !authenticated {
			logger.Warn("Authentication failed", user.Login)
			http.Error(w, "Invalid login/password", http.StatusUnauthorized)
			return
		}
		// генерация токена
		token, err := s.GenerateJWT(user.Login)
		if err != nil {
			logger.Error("Failed to generate token", err)
			http.Error(w, "Server error", http.StatusInternalServerError)
			return
		}

		// пользователь прошел авторизацию
		logger.Info("User authenticated", user.Login)
		w.Header().Set("Authorization", "Bearer "+token)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(models.LoginResponse{Token: token}); err != nil {
			logger.Error("Failed to encode JSON response:", err)
		}
	})
}
