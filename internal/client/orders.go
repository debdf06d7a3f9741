package client

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// PortalOrder - заказ из ответа портала, как его отдаёт API.
// Сумма приходит строкой с запятой в качестве десятичного разделителя,
// признак онлайн-оплаты может отсутствовать.
type PortalOrder struct {
	Code       string `json:"code"`
	City       string `json:"city"`
	Amount     string `json:"amount"`
	PaidOnline *bool  `json:"paid_online"`
	Date       string `json:"date"`
}

type PageMeta struct {
	TotalPages int `json:"total_pages"`
}

type PageData struct {
	Orders []PortalOrder `json:"orders"`
}

// OrdersPageResponse - модель ответа портала на запрос страницы заказов.
// Портал может вернуть 200 с описанием ошибки в теле.
type OrdersPageResponse struct {
	Meta             PageMeta `json:"meta"`
	Data             PageData `json:"data"`
	Error            string   `json:"error,omitempty"`
	ErrorDescription string   `json:"error_description,omitempty"`
}

// LiveCustomerResponse - данные клиента активного заказа
type LiveCustomerResponse struct {
	FullName     string   `json:"full_name"`
	Street       string   `json:"street"`
	StreetNumber string   `json:"street_number"`
	Postcode     string   `json:"postcode"`
	City         string   `json:"city"`
	Extra        []string `json:"extra"`
	PhoneNumber  string   `json:"phone_number"`
}

// LiveSpecificationResponse - дополнение к позиции активного заказа
type LiveSpecificationResponse struct {
	Name        string              `json:"name"`
	TotalAmount decimal.NullDecimal `json:"total_amount"`
}

// LiveProductResponse - позиция активного заказа
type LiveProductResponse struct {
	Quantity       int                         `json:"quantity"`
	Name           string                      `json:"name"`
	Code           string                      `json:"code"`
	TotalAmount    decimal.NullDecimal         `json:"total_amount"`
	Specifications []LiveSpecificationResponse `json:"specifications"`
}

// LiveOrderResponse - модель активного заказа из ответа API
type LiveOrderResponse struct {
	PublicReference string                `json:"public_reference"`
	Status          string                `json:"status"`
	PlacedDate      string                `json:"placed_date"`
	RequestedTime   string                `json:"requested_time"`
	PaymentType     string                `json:"payment_type"`
	Subtotal        decimal.NullDecimal   `json:"subtotal"`
	DeliveryFee     decimal.NullDecimal   `json:"delivery_fee"`
	RestaurantTotal decimal.NullDecimal   `json:"restaurant_total"`
	CustomerTotal   decimal.NullDecimal   `json:"customer_total"`
	Customer        LiveCustomerResponse  `json:"customer"`
	Products        []LiveProductResponse `json:"products"`
}

// GetOrdersPage получает одну страницу заказов портала за день года.
// Ответ содержит общее число страниц выборки в Meta.
func (c *Client) GetOrdersPage(ctx context.Context, year int, dayOfYear int, page int) (*OrdersPageResponse, error) {
	url := fmt.Sprintf("%s/api/restaurant/orders?period_type=day&year=%d&number=%d&page=%d",
		c.portalURL, year, dayOfYear, page)

	var result OrdersPageResponse
	if err := c.getJSON(ctx, "orders page", url, &result); err != nil {
		return nil, err
	}

	if result.Error != "" {
		message := result.ErrorDescription
		if message == "" {
			message = result.Error
		}
		return nil, &APIError{Op: "orders page", Err: fmt.Errorf("portal rejected request: %s", message)}
	}

	return &result, nil
}

// GetLiveOrders получает список активных заказов
func (c *Client) GetLiveOrders(ctx context.Context) ([]LiveOrderResponse, error) {
	url := c.liveURL + "/api/orders"

	var result []LiveOrderResponse
	if err := c.getJSON(ctx, "live orders", url, &result); err != nil {
		return nil, err
	}
	return result, nil
}
