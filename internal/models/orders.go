package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Направления сортировки истории заказов
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Колонки сортировки истории заказов
const (
	SortByOrderCode  = "orderCode"
	SortByCreatedAt  = "createdAt"
	SortByPostcode   = "postcode"
	SortByPrice      = "price"
	SortByPaidOnline = "paidOnline"
)

// HistoricalOrder - модель завершённого заказа за прошедший день
type HistoricalOrder struct {
	OrderCode  string          `json:"orderCode"`
	CreatedAt  time.Time       `json:"createdAt"`
	Postcode   string          `json:"postcode"`
	Price      decimal.Decimal `json:"price"`
	PaidOnline bool            `json:"paidOnline"`
}

// LiveCustomer - модель данных клиента активного заказа
type LiveCustomer struct {
	FullName     string `json:"fullName"`
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Extra        string `json:"extra"`
	PhoneNumber  string `json:"phoneNumber"`
}

// LiveSpecification - модель дополнения к позиции активного заказа
type LiveSpecification struct {
	Name        string          `json:"name"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// LiveProduct - модель позиции активного заказа
type LiveProduct struct {
	Quantity       int                 `json:"quantity"`
	Name           string              `json:"name"`
	Code           string              `json:"code"`
	TotalAmount    decimal.Decimal     `json:"totalAmount"`
	Specifications []LiveSpecification `json:"specifications,omitempty"`
}

// LiveOrder - модель активного заказа. Заказ с тем же кодом может приходить
// повторно с обновлённым статусом, потребитель заменяет запись по ключу.
type LiveOrder struct {
	OrderCode       string          `json:"orderCode"`
	Status          string          `json:"status"`
	PlacedDate      string          `json:"placedDate"`
	RequestedTime   string          `json:"requestedTime"`
	PaymentType     string          `json:"paymentType"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	RestaurantTotal decimal.Decimal `json:"restaurantTotal"`
	CustomerTotal   decimal.Decimal `json:"customerTotal"`
	Customer        LiveCustomer    `json:"customer"`
	Products        []LiveProduct   `json:"products"`
}

// OrdersSummary - модель сводных показателей за выбранный день
type OrdersSummary struct {
	TotalOrders int             `json:"totalOrders"`
	PaidOnline  int             `json:"paidOnline"`
	PaidCash    int             `json:"paidCash"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// HistoryResponse - модель ответа панели на запрос истории заказов
type HistoryResponse struct {
	Date        string            `json:"date"`
	Summary     OrdersSummary     `json:"summary"`
	Orders      []HistoricalOrder `json:"orders"`
	FailedPages []int             `json:"failedPages,omitempty"`
}

// LiveResponse - модель ответа панели на запрос активных заказов
type LiveResponse struct {
	UpdatedAt    string         `json:"updatedAt,omitempty"`
	StatusCounts map[string]int `json:"statusCounts"`
	Orders       []LiveOrder    `json:"orders"`
}
