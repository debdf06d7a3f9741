package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nhlong2701/takeAwayBill/internal/client"
	"github.com/nhlong2701/takeAwayBill/internal/config"
	"github.com/nhlong2701/takeAwayBill/internal/fetch"
	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/models"
)

// PortalDateLayout - формат даты заказа в ответе портала
const PortalDateLayout = "02-01-2006 15:04:05"

var (
	ErrUnknownSortColumn    = errors.New("unknown sort column")
	ErrUnknownSortDirection = errors.New("unknown sort direction")
)

// OrdersService - контракт сервиса заказов для обработчиков и воркера
type OrdersService interface {
	FetchHistorical(ctx context.Context, date time.Time, sortColumn string, sortDirection string) ([]models.HistoricalOrder, error)
	FetchLive(ctx context.Context) ([]models.LiveOrder, error)
}

// Orders - сервис получения заказов из API платформы
type Orders struct {
	API         client.OrdersAPI
	Location    *time.Location
	Concurrency int
}

// Создание сервиса
func NewOrders(cfg config.TakeawayConfig, api client.OrdersAPI) *Orders {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("Unknown timezone, using UTC:", cfg.Timezone)
		location = time.UTC
	}
	return &Orders{
		API:         api,
		Location:    location,
		Concurrency: cfg.FetchConcurrency,
	}
}

// FetchHistorical получает все заказы за дату. Первая страница даёт общее
// число страниц выборки, остальные запрашиваются параллельно. Если часть
// страниц не получена, собранные заказы возвращаются вместе с
// PartialFetchError с номерами неудачных страниц.
func (s *Orders) FetchHistorical(ctx context.Context, date time.Time, sortColumn string, sortDirection string) ([]models.HistoricalOrder, error) {
	year, dayOfYear := portalPeriod(date)

	logger.Info("Fetching orders", "year", year, "day", dayOfYear)

	first, err := s.API.GetOrdersPage(ctx, year, dayOfYear, 1)
	if err != nil {
		return nil, err
	}

	pages := [][]client.PortalOrder{first.Data.Orders}
	totalPages := first.Meta.TotalPages

	var failedPages []int
	var failedErrs []error
	if totalPages > 1 {
		requests := make([]fetch.Request, 0, totalPages-1)
		for page := 2; page <= totalPages; page++ {
			requests = append(requests, page)
		}
		results := fetch.All(ctx, requests, s.Concurrency, func(ctx context.Context, request fetch.Request) (interface{}, error) {
			return s.API.GetOrdersPage(ctx, year, dayOfYear, request.(int))
		})
		for i, result := range results {
			page := i + 2
			if result.Err != nil {
				logger.Warn("Failed to fetch orders page", "page", page, "error", result.Err)
				failedPages = append(failedPages, page)
				failedErrs = append(failedErrs, result.Err)
				continue
			}
			response := result.Value.(*client.OrdersPageResponse)
			pages = append(pages, response.Data.Orders)
		}
	}

	orders, err := s.normalizeHistorical(pages, date)
	if err != nil {
		return nil, err
	}

	if err := SortOrders(orders, sortColumn, sortDirection); err != nil {
		return nil, err
	}

	logger.Info("Retrieved orders", "count", len(orders))

	if len(failedPages) > 0 {
		return orders, &client.PartialFetchError{Pages: failedPages, Total: totalPages, Errs: failedErrs}
	}
	return orders, nil
}

// FetchLive получает активные заказы, отсортированные от новых к старым
func (s *Orders) FetchLive(ctx context.Context) ([]models.LiveOrder, error) {
	responses, err := s.API.GetLiveOrders(ctx)
	if err != nil {
		return nil, err
	}

	orders := make([]models.LiveOrder, 0, len(responses))
	for _, response := range responses {
		orders = append(orders, normalizeLive(response))
	}

	// время размещения приходит строкой единого формата,
	// лексикографический порядок совпадает с хронологическим
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].PlacedDate > orders[j].PlacedDate
	})

	logger.Info("Retrieved live orders", "count", len(orders))
	return orders, nil
}

// portalPeriod вычисляет параметры выборки портала для даты: номер дня в
// году и год. Портал относит воскресенье к году следующего дня, номер дня
// при этом считается от исходной даты.
func portalPeriod(date time.Time) (int, int) {
	dayOfYear := date.YearDay()
	if date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, 1)
	}
	return date.Year(), dayOfYear
}

// normalizeHistorical преобразует страницы портала в модель панели.
// Выборка дня года может содержать пограничные заказы соседних суток,
// они отбрасываются по числу месяца запрошенной даты.
func (s *Orders) normalizeHistorical(pages [][]client.PortalOrder, date time.Time) ([]models.HistoricalOrder, error) {
	orders := make([]models.HistoricalOrder, 0)
	for _, page := range pages {
		for _, row := range page {
			order, err := s.normalizeOrder(row)
			if err != nil {
				return nil, fmt.Errorf("order %q: %w", row.Code, err)
			}
			if order.CreatedAt.Day() != date.Day() {
				continue
			}
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (s *Orders) normalizeOrder(row client.PortalOrder) (models.HistoricalOrder, error) {
	// сумма приходит строкой с запятой в качестве десятичного разделителя
	price, err := decimal.NewFromString(strings.ReplaceAll(row.Amount, ",", "."))
	if err != nil {
		return models.HistoricalOrder{}, fmt.Errorf("parse amount %q: %w", row.Amount, err)
	}

	createdAt, err := time.ParseInLocation(PortalDateLayout, row.Date, s.Location)
	if err != nil {
		return models.HistoricalOrder{}, fmt.Errorf("parse date %q: %w", row.Date, err)
	}

	return models.HistoricalOrder{
		OrderCode:  row.Code,
		CreatedAt:  createdAt,
		Postcode:   row.City,
		Price:      price,
		PaidOnline: row.PaidOnline != nil && *row.PaidOnline,
	}, nil
}

func normalizeLive(response client.LiveOrderResponse) models.LiveOrder {
	products := make([]models.LiveProduct, 0, len(response.Products))
	for _, product := range response.Products {
		specifications := make([]models.LiveSpecification, 0, len(product.Specifications))
		for _, specification := range product.Specifications {
			specifications = append(specifications, models.LiveSpecification{
				Name:        specification.Name,
				TotalAmount: specification.TotalAmount.Decimal,
			})
		}
		products = append(products, models.LiveProduct{
			Quantity:       product.Quantity,
			Name:           product.Name,
			Code:           product.Code,
			TotalAmount:    product.TotalAmount.Decimal,
			Specifications: specifications,
		})
	}

	var extra string
	if len(response.Customer.Extra) > 0 {
		extra = response.Customer.Extra[0]
	}

	return models.LiveOrder{
		OrderCode:       response.PublicReference,
		Status:          response.Status,
		PlacedDate:      response.PlacedDate,
		RequestedTime:   response.RequestedTime,
		PaymentType:     response.PaymentType,
		Subtotal:        response.Subtotal.Decimal,
		DeliveryFee:     response.DeliveryFee.Decimal,
		RestaurantTotal: response.RestaurantTotal.Decimal,
		CustomerTotal:   response.CustomerTotal.Decimal,
		Customer: models.LiveCustomer{
			FullName:     response.Customer.FullName,
			Street:       response.Customer.Street,
			StreetNumber: response.Customer.StreetNumber,
			Postcode:     response.Customer.Postcode,
			City:         response.Customer.City,
			Extra:        extra,
			PhoneNumber:  response.Customer.PhoneNumber,
		},
		Products: products,
	}
}

// SortOrders устойчиво сортирует заказы по выбранной колонке. Заказы с
// равными значениями упорядочиваются по коду заказа по возрастанию
// независимо от направления сортировки.
func SortOrders(orders []models.HistoricalOrder, column string, direction string) error {
	if column == "" {
		column = models.SortByCreatedAt
	}
	if direction == "" {
		direction = models.SortAsc
	}
	if direction != models.SortAsc && direction != models.SortDesc {
		return fmt.Errorf("%w: %s", ErrUnknownSortDirection, direction)
	}

	compare, err := orderComparer(column)
	if err != nil {
		return err
	}

	descending := direction == models.SortDesc
	sort.SliceStable(orders, func(i, j int) bool {
		result := compare(orders[i], orders[j])
		if descending {
			result = -result
		}
		if result == 0 {
			return orders[i].OrderCode < orders[j].OrderCode
		}
		return result < 0
	})
	return nil
}

// orderComparer возвращает функцию сравнения заказов по колонке
func orderComparer(column string) (func(a, b models.HistoricalOrder) int, error) {
	switch column {
	case models.SortByOrderCode:
		return func(a, b models.HistoricalOrder) int {
			return strings.Compare(a.OrderCode, b.OrderCode)
		}, nil
	case models.SortByCreatedAt:
		return func(a, b models.HistoricalOrder) int {
			switch {
			case a.CreatedAt.Before(b.CreatedAt):
				return -1
			case a.CreatedAt.After(b.CreatedAt):
				return 1
			}
			return 0
		}, nil
	case models.SortByPostcode:
		return func(a, b models.HistoricalOrder) int {
			return strings.Compare(a.Postcode, b.Postcode)
		}, nil
	case models.SortByPrice:
		return func(a, b models.HistoricalOrder) int {
			return a.Price.Cmp(b.Price)
		}, nil
	case models.SortByPaidOnline:
		return func(a, b models.HistoricalOrder) int {
			switch {
			case !a.PaidOnline && b.PaidOnline:
				return -1
			case a.PaidOnline && !b.PaidOnline:
				return 1
			}
			return 0
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSortColumn, column)
}
