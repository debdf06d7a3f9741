package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/nhlong2701/takeAwayBill/internal/client"
	"github.com/nhlong2701/takeAwayBill/internal/client/mocks"
	"github.com/nhlong2701/takeAwayBill/internal/config"
	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/models"
)

func portalPage(totalPages int, orders ...client.PortalOrder) *client.OrdersPageResponse {
	return &client.OrdersPageResponse{
		Meta: client.PageMeta{TotalPages: totalPages},
		Data: client.PageData{Orders: orders},
	}
}

func orderCodes(orders []models.HistoricalOrder) []string {
	codes := make([]string, 0, len(orders))
	for _, order := range orders {
		codes = append(codes, order.OrderCode)
	}
	return codes
}

func TestOrderService_FetchHistorical(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockAPI := mocks.NewMockOrdersAPI(ctrl)

	config := config.DefaultConfig()
	if err := logger.Initialize(config.Server.LogLevel); err != nil {
		logger.Panic(err)
	}
	defer logger.Sync()

	service := NewOrders(config.Takeaway, mockAPI)

	online := true
	// понедельник, 71-й день года
	date := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		TestName             string
		SortColumn           string
		SortDirection        string
		SetupMocks           func()
		ExpectedError        error
		ExpectedPartialPages []int
		ExpectedTotalPages   int
		ExpectedCodes        []string
	}{
		{
			TestName: "Success. Single page #1",
			SetupMocks: func() {
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 1).Return(portalPage(1,
					client.PortalOrder{Code: "a1", City: "10115", Amount: "12,50", PaidOnline: &online, Date: "11-03-2024 12:30:00"},
					client.PortalOrder{Code: "a2", City: "10117", Amount: "8,00", Date: "11-03-2024 13:00:00"},
				), nil)
			},
			ExpectedCodes: []string{"a1", "a2"},
		},
		{
			TestName:      "Success. Price desc with code tie-break #2",
			SortColumn:    models.SortByPrice,
			SortDirection: models.SortDesc,
			SetupMocks: func() {
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 1).Return(portalPage(1,
					client.PortalOrder{Code: "a", City: "10115", Amount: "5,00", Date: "11-03-2024 12:00:00"},
					client.PortalOrder{Code: "b", City: "10115", Amount: "20,00", Date: "11-03-2024 12:00:00"},
					client.PortalOrder{Code: "c", City: "10115", Amount: "20,00", Date: "11-03-2024 12:00:00"},
					client.PortalOrder{Code: "d", City: "10115", Amount: "1,00", Date: "11-03-2024 12:00:00"},
				), nil)
			},
			ExpectedCodes: []string{"b", "c", "a", "d"},
		},
		{
			TestName: "Success. Pages concatenated in order #3",
			SetupMocks: func() {
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 1).Return(portalPage(3,
					client.PortalOrder{Code: "a1", City: "10115", Amount: "10,00", Date: "11-03-2024 10:00:00"},
				), nil)
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 2).Return(portalPage(3,
					client.PortalOrder{Code: "b1", City: "10115", Amount: "11,00", Date: "11-03-2024 11:00:00"},
				), nil)
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 3).Return(portalPage(3,
					client.PortalOrder{Code: "c1", City: "10115", Amount: "12,00", Date: "11-03-2024 12:00:00"},
				), nil)
			},
			ExpectedCodes: []string{"a1", "b1", "c1"},
		},
		{
			TestName: "Success. Partial result with failed page #4",
			SetupMocks: func() {
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 1).Return(portalPage(3,
					client.PortalOrder{Code: "a1", City: "10115", Amount: "10,00", Date: "11-03-2024 10:00:00"},
				), nil)
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 2).Return(nil,
					&client.APIError{Op: "orders page", Err: &client.StatusError{Status: http.StatusInternalServerError, Body: "backend error"}})
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 3).Return(portalPage(3,
					client.PortalOrder{Code: "c1", City: "10115", Amount: "12,00", Date: "11-03-2024 12:00:00"},
				), nil)
			},
			ExpectedPartialPages: []int{2},
			ExpectedTotalPages:   3,
			ExpectedCodes:        []string{"a1", "c1"},
		},
		{
			TestName: "Success. Neighbor day orders dropped #5",
			SetupMocks: func() {
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 1).Return(portalPage(1,
					client.PortalOrder{Code: "a1", City: "10115", Amount: "12,50", Date: "11-03-2024 00:10:00"},
					client.PortalOrder{Code: "z9", City: "10115", Amount: "7,00", Date: "10-03-2024 23:55:00"},
				), nil)
			},
			ExpectedCodes: []string{"a1"},
		},
		{
			TestName: "Error. First page failure #6",
			SetupMocks: func() {
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 1).Return(nil,
					&client.APIError{Op: "orders page", Err: &client.StatusError{Status: http.StatusInternalServerError, Body: "backend error"}})
			},
			ExpectedError: errors.New("unexpected status 500"),
		},
		{
			TestName: "Error. Invalid amount #7",
			SetupMocks: func() {
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 1).Return(portalPage(1,
					client.PortalOrder{Code: "a1", City: "10115", Amount: "abc", Date: "11-03-2024 12:30:00"},
				), nil)
			},
			ExpectedError: errors.New(`order "a1": parse amount`),
		},
		{
			TestName:   "Error. Unknown sort column #8",
			SortColumn: "weird",
			SetupMocks: func() {
				mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 1).Return(portalPage(1,
					client.PortalOrder{Code: "a1", City: "10115", Amount: "12,50", Date: "11-03-2024 12:30:00"},
				), nil)
			},
			ExpectedError: ErrUnknownSortColumn,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			tc.SetupMocks()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			orders, err := service.FetchHistorical(ctx, date, tc.SortColumn, tc.SortDirection)

			if tc.ExpectedPartialPages != nil {
				var partialErr *client.PartialFetchError
				if !errors.As(err, &partialErr) {
					t.Fatalf("Expected partial fetch error, got: '%v'", err)
				}
				if diff := cmp.Diff(tc.ExpectedPartialPages, partialErr.Pages); len(diff) != 0 {
					t.Errorf("expected failed pages mismatch:\n %s", diff)
				}
				if partialErr.Total != tc.ExpectedTotalPages {
					t.Errorf("Expected total pages: %d, got: %d", tc.ExpectedTotalPages, partialErr.Total)
				}
			} else if tc.ExpectedError != nil {
				if err == nil {
					t.Fatalf("Expected error, got none")
				}
				if !strings.Contains(err.Error(), tc.ExpectedError.Error()) {
					t.Errorf("Expected error containing: '%v', got: '%v'", tc.ExpectedError.Error(), err.Error())
				}
				return
			} else if err != nil {
				t.Fatalf("Expected no error, got: '%v'", err)
			}

			diff := cmp.Diff(tc.ExpectedCodes, orderCodes(orders))
			if len(diff) != 0 {
				t.Errorf("expected order codes mismatch:\n %s", diff)
			}
		})
	}
}

func TestOrderService_FetchHistorical_Normalization(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockAPI := mocks.NewMockOrdersAPI(ctrl)

	config := config.DefaultConfig()
	if err := logger.Initialize(config.Server.LogLevel); err != nil {
		logger.Panic(err)
	}

	service := NewOrders(config.Takeaway, mockAPI)

	date := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	mockAPI.EXPECT().GetOrdersPage(gomock.Any(), 2024, 71, 1).Return(portalPage(1,
		client.PortalOrder{Code: "a1", City: "10115", Amount: "12,50", Date: "11-03-2024 18:30:00"},
	), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	orders, err := service.FetchHistorical(ctx, date, "", "")
	if err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	if len(orders) != 1 {
		t.Fatalf("Expected 1 order, got: %d", len(orders))
	}

	order := orders[0]
	if !order.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Expected price 12.5, got: '%v'", order.Price)
	}
	if order.PaidOnline {
		t.Errorf("Expected missing paid_online to mean cash")
	}
	if order.Postcode != "10115" {
		t.Errorf("Expected postcode '10115', got: '%s'", order.Postcode)
	}
	if order.CreatedAt.Day() != 11 || order.CreatedAt.Hour() != 18 || order.CreatedAt.Minute() != 30 {
		t.Errorf("Expected order time 11th 18:30, got: '%v'", order.CreatedAt)
	}
}

func TestOrderService_PortalPeriod(t *testing.T) {
	testCases := []struct {
		TestName          string
		Date              time.Time
		ExpectedYear      int
		ExpectedDayOfYear int
	}{
		{
			TestName:          "Monday keeps own year #1",
			Date:              time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
			ExpectedYear:      2024,
			ExpectedDayOfYear: 71,
		},
		{
			TestName:          "Sunday uses next day year #2",
			Date:              time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			ExpectedYear:      2024,
			ExpectedDayOfYear: 70,
		},
		{
			TestName:          "Sunday on year boundary #3",
			Date:              time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			ExpectedYear:      2024,
			ExpectedDayOfYear: 365,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			year, dayOfYear := portalPeriod(tc.Date)
			if year != tc.ExpectedYear {
				t.Errorf("Expected year: %d, got: %d", tc.ExpectedYear, year)
			}
			if dayOfYear != tc.ExpectedDayOfYear {
				t.Errorf("Expected day of year: %d, got: %d", tc.ExpectedDayOfYear, dayOfYear)
			}
		})
	}
}

func TestOrderService_FetchLive(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockAPI := mocks.NewMockOrdersAPI(ctrl)

	config := config.DefaultConfig()
	if err := logger.Initialize(config.Server.LogLevel); err != nil {
		logger.Panic(err)
	}

	service := NewOrders(config.Takeaway, mockAPI)

	mockAPI.EXPECT().GetLiveOrders(gomock.Any()).Return([]client.LiveOrderResponse{
		{
			PublicReference: "o-1",
			Status:          "confirmed",
			PlacedDate:      "2024-03-10 18:00:00",
			PaymentType:     "cash",
			Subtotal:        decimal.NullDecimal{Decimal: decimal.RequireFromString("21.8"), Valid: true},
			Customer:        client.LiveCustomerResponse{FullName: "Jan Novak", Extra: []string{}},
		},
		{
			PublicReference: "o-2",
			Status:          "kitchen",
			PlacedDate:      "2024-03-10 19:30:00",
			PaymentType:     "online",
			Subtotal:        decimal.NullDecimal{Decimal: decimal.RequireFromString("14.2"), Valid: true},
			Customer:        client.LiveCustomerResponse{FullName: "Eva Krause", Extra: []string{"2nd floor"}},
			Products: []client.LiveProductResponse{
				{Quantity: 1, Name: "Pizza Margherita", Code: "P1",
					TotalAmount: decimal.NullDecimal{Decimal: decimal.RequireFromString("9.5"), Valid: true},
					Specifications: []client.LiveSpecificationResponse{
						{Name: "extra cheese", TotalAmount: decimal.NullDecimal{Decimal: decimal.RequireFromString("2.0"), Valid: true}},
					}},
			},
		},
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	orders, err := service.FetchLive(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: '%v'", err)
	}
	if len(orders) != 2 {
		t.Fatalf("Expected 2 orders, got: %d", len(orders))
	}

	// от новых к старым
	if orders[0].OrderCode != "o-2" || orders[1].OrderCode != "o-1" {
		t.Errorf("Expected orders sorted by placed date desc, got: '%v'", orderCodesLive(orders))
	}
	if orders[0].Customer.Extra != "2nd floor" {
		t.Errorf("Expected customer extra '2nd floor', got: '%s'", orders[0].Customer.Extra)
	}
	if orders[1].Customer.Extra != "" {
		t.Errorf("Expected empty customer extra, got: '%s'", orders[1].Customer.Extra)
	}
	if !orders[0].DeliveryFee.IsZero() {
		t.Errorf("Expected zero delivery fee for null value, got: '%v'", orders[0].DeliveryFee)
	}
	if len(orders[0].Products) != 1 || len(orders[0].Products[0].Specifications) != 1 {
		t.Errorf("Expected normalized products, got: '%v'", orders[0].Products)
	}
}

func orderCodesLive(orders []models.LiveOrder) []string {
	codes := make([]string, 0, len(orders))
	for _, order := range orders {
		codes = append(codes, order.OrderCode)
	}
	return codes
}

func TestSortOrders(t *testing.T) {
	fixture := func() []models.HistoricalOrder {
		return []models.HistoricalOrder{
			{OrderCode: "b", Postcode: "10117", Price: decimal.RequireFromString("20"), PaidOnline: true},
			{OrderCode: "a", Postcode: "10115", Price: decimal.RequireFromString("5"), PaidOnline: false},
			{OrderCode: "c", Postcode: "10115", Price: decimal.RequireFromString("20"), PaidOnline: false},
		}
	}

	testCases := []struct {
		TestName      string
		Column        string
		Direction     string
		ExpectedCodes []string
		ExpectedError error
	}{
		{
			TestName:      "Order code asc #1",
			Column:        models.SortByOrderCode,
			Direction:     models.SortAsc,
			ExpectedCodes: []string{"a", "b", "c"},
		},
		{
			TestName:      "Postcode asc with code tie-break #2",
			Column:        models.SortByPostcode,
			Direction:     models.SortAsc,
			ExpectedCodes: []string{"a", "c", "b"},
		},
		{
			TestName:      "Paid online desc #3",
			Column:        models.SortByPaidOnline,
			Direction:     models.SortDesc,
			ExpectedCodes: []string{"b", "a", "c"},
		},
		{
			TestName:      "Error. Unknown column #4",
			Column:        "weird",
			Direction:     models.SortAsc,
			ExpectedError: ErrUnknownSortColumn,
		},
		{
			TestName:      "Error. Unknown direction #5",
			Column:        models.SortByPrice,
			Direction:     "sideways",
			ExpectedError: ErrUnknownSortDirection,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			orders := fixture()

			err := SortOrders(orders, tc.Column, tc.Direction)

			if tc.ExpectedError != nil {
				if !errors.Is(err, tc.ExpectedError) {
					t.Errorf("Expected error: '%v', got: '%v'", tc.ExpectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: '%v'", err)
			}
			diff := cmp.Diff(tc.ExpectedCodes, orderCodes(orders))
			if len(diff) != 0 {
				t.Errorf("expected order codes mismatch:\n %s", diff)
			}
		})
	}
}
