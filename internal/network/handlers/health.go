package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nhlong2701/takeAwayBill/internal/logger"
)

// HealthHandler — проверка работоспособности сервиса
func HealthHandler() http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			logger.Error("Failed to write response:", zap.Error(err))
		}
	})
}
