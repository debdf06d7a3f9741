package services

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"

	"github.com/nhlong2701/takeAwayBill/internal/models"
)

// CSVDateLayout - формат времени заказа в выгрузке
const CSVDateLayout = "2006-01-02 15:04:05"

// Summarize считает сводные показатели дня по списку заказов
func Summarize(orders []models.HistoricalOrder) models.OrdersSummary {
	summary := models.OrdersSummary{
		TotalOrders: len(orders),
		Revenue:     decimal.Zero,
	}
	for _, order := range orders {
		summary.Revenue = summary.Revenue.Add(order.Price)
		if order.PaidOnline {
			summary.PaidOnline++
		} else {
			summary.PaidCash++
		}
	}
	return summary
}

// WriteCSV выгружает заказы в CSV с заголовком. Порядок колонок
// повторяет таблицу истории заказов панели.
func WriteCSV(w io.Writer, orders []models.HistoricalOrder) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"createdAt", "orderCode", "postcode", "price", "paidOnline"}); err != nil {
		return err
	}
	for _, order := range orders {
		// оплата онлайн кодируется в выгрузке как 1/0
		paidOnline := "0"
		if order.PaidOnline {
			paidOnline = "1"
		}
		record := []string{
			order.CreatedAt.Format(CSVDateLayout),
			order.OrderCode,
			order.Postcode,
			order.Price.String(),
			paidOnline,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
