package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/models"
	"github.com/nhlong2701/takeAwayBill/internal/services"
)

// LiveHandler — текущий снимок активных заказов с табло
func LiveHandler(board *services.LiveBoard) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orders, counts, updated := board.Snapshot()

		response := models.LiveResponse{Orders: orders, StatusCounts: counts}
		if !updated.IsZero() {
			response.UpdatedAt = updated.Format(time.RFC3339)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error("Failed to encode JSON response:", zap.Error(err))
		}
	})
}

// RefreshLiveHandler — немедленный опрос активных заказов, минуя период
// фонового воркера. Успешный опрос обновляет табло.
func RefreshLiveHandler(s services.OrdersService, board *services.LiveBoard) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orders, err := s.FetchLive(r.Context())
		if err != nil {
			writeFetchError(w, err)
			return
		}
		board.Apply(orders)

		snapshot, counts, updated := board.Snapshot()
		response := models.LiveResponse{
			UpdatedAt:    updated.Format(time.RFC3339),
			StatusCounts: counts,
			Orders:       snapshot,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error("Failed to encode JSON response:", zap.Error(err))
		}
	})
}
