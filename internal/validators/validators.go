package validators

import (
	"fmt"
	"time"

	"github.com/nhlong2701/takeAwayBill/internal/models"
)

// DateLayout - формат даты в запросах панели
const DateLayout = "2006-01-02"

// ParseDate разбирает дату из параметров запроса панели
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return date, nil
}

// CheckSortColumn проверяет имя колонки сортировки истории заказов
func CheckSortColumn(column string) bool {
	switch column {
	case models.SortByOrderCode,
		models.SortByCreatedAt,
		models.SortByPostcode,
		models.SortByPrice,
		models.SortByPaidOnline:
		return true
	}
	return false
}

// CheckSortDirection проверяет направление сортировки
func CheckSortDirection(direction string) bool {
	return direction == models.SortAsc || direction == models.SortDesc
}
