package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nhlong2701/takeAwayBill/internal/client"
	"github.com/nhlong2701/takeAwayBill/internal/helpers"
	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/models"
	"github.com/nhlong2701/takeAwayBill/internal/services"
	"github.com/nhlong2701/takeAwayBill/internal/token"
	"github.com/nhlong2701/takeAwayBill/internal/validators"
)

// HistoryHandler — история заказов за выбранную дату. Если часть страниц
// выборки не получена, собранные заказы возвращаются со статусом 206 и
// списком неудачных страниц.
func HistoryHandler(s services.OrdersService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// получение данных о пользователе
		username, err := helpers.GetUsername(r.Context())
		if err != nil {
			logger.Warn("Failed to get username:", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		date, column, direction, ok := historyParams(w, r)
		if !ok {
			return
		}

		logger.Info("History request", "user", username, "date", date.Format(validators.DateLayout))

		orders, err := s.FetchHistorical(r.Context(), date, column, direction)

		var partialErr *client.PartialFetchError
		partial := errors.As(err, &partialErr)
		if err != nil && !partial {
			writeFetchError(w, err)
			return
		}

		response := models.HistoryResponse{
			Date:    date.Format(validators.DateLayout),
			Summary: services.Summarize(orders),
			Orders:  orders,
		}
		status := http.StatusOK
		if partial {
			logger.Warn("Partial history fetch", "failed_pages", partialErr.Pages)
			response.FailedPages = partialErr.Pages
			status = http.StatusPartialContent
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error("Failed to encode JSON response:", zap.Error(err))
		}
	})
}

// ExportHandler — выгрузка истории заказов за дату в CSV. При частичной
// выборке выгружаются собранные заказы.
func ExportHandler(s services.OrdersService) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		date, column, direction, ok := historyParams(w, r)
		if !ok {
			return
		}

		orders, err := s.FetchHistorical(r.Context(), date, column, direction)
		var partialErr *client.PartialFetchError
		if err != nil && !errors.As(err, &partialErr) {
			writeFetchError(w, err)
			return
		}

		filename := fmt.Sprintf("orders_%s.csv", date.Format(validators.DateLayout))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		if err := services.WriteCSV(w, orders); err != nil {
			logger.Error("Failed to write CSV response:", zap.Error(err))
		}
	})
}

// historyParams разбирает и проверяет параметры запроса истории заказов
func historyParams(w http.ResponseWriter, r *http.Request) (time.Time, string, string, bool) {
	query := r.URL.Query()

	date, err := validators.ParseDate(query.Get("date"))
	if err != nil {
		logger.Warn("Invalid date parameter", query.Get("date"))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return time.Time{}, "", "", false
	}

	column := query.Get("sort")
	if column == "" {
		column = models.SortByCreatedAt
	}
	if !validators.CheckSortColumn(column) {
		logger.Warn("Invalid sort column", column)
		http.Error(w, "Invalid sort column", http.StatusBadRequest)
		return time.Time{}, "", "", false
	}

	direction := query.Get("direction")
	if direction == "" {
		direction = models.SortAsc
	}
	if !validators.CheckSortDirection(direction) {
		logger.Warn("Invalid sort direction", direction)
		http.Error(w, "Invalid sort direction", http.StatusBadRequest)
		return time.Time{}, "", "", false
	}

	return date, column, direction, true
}

// writeFetchError преобразует ошибку получения заказов в HTTP-ответ
func writeFetchError(w http.ResponseWriter, err error) {
	var authErr *token.AuthError
	if errors.As(err, &authErr) {
		logger.Error("Platform authorization failed:", zap.Error(err))
		http.Error(w, "Platform authorization failed, check refresh token", http.StatusBadGateway)
		return
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		logger.Error("Platform request failed:", zap.Error(err))
		http.Error(w, "Platform temporarily unavailable, try again later", http.StatusBadGateway)
		return
	}
	logger.Error("Failed to fetch orders:", zap.Error(err))
	http.Error(w, "Server Error", http.StatusInternalServerError)
}
