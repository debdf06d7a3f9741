package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/nhlong2701/takeAwayBill/internal/logger"
	"github.com/nhlong2701/takeAwayBill/internal/metrics"
	"github.com/nhlong2701/takeAwayBill/internal/models"
	"github.com/nhlong2701/takeAwayBill/internal/services"
)

// DefaultPollInterval - период опроса активных заказов по умолчанию
const DefaultPollInterval = 30 * time.Second

func InitCircuitBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "live-orders-api",
		Timeout: 30 * time.Second, // через 30 сек пробуем подключиться
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 5 попыток достучатся до сервиса
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("Circuit breaker state changed:", name, from, "->", to)
		},
	})
}

// LiveWorker - фоновый воркер опроса активных заказов. Каждый успешный
// опрос заменяет снимок на табло.
type LiveWorker struct {
	Orders       services.OrdersService
	Board        *services.LiveBoard
	Breaker      *gobreaker.CircuitBreaker
	WaitGroup    sync.WaitGroup
	QuitChan     chan struct{}
	PollInterval time.Duration
}

// NewLiveWorker - конструктор воркера опроса активных заказов
func NewLiveWorker(orders services.OrdersService, board *services.LiveBoard, pollInterval time.Duration) *LiveWorker {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &LiveWorker{
		Orders:       orders,
		Board:        board,
		Breaker:      InitCircuitBreaker(),
		QuitChan:     make(chan struct{}),
		PollInterval: pollInterval,
	}
}

// Start - запускает воркер в фоне
func (w *LiveWorker) Start(ctx context.Context) {
	w.WaitGroup.Add(1)
	go w.Run(ctx)
}

// Stop - корректно останавливает воркер
func (w *LiveWorker) Stop() {
	close(w.QuitChan)
	w.WaitGroup.Wait()
}

// Run - основная рабочая логика
func (w *LiveWorker) Run(ctx context.Context) {
	defer w.WaitGroup.Done()

	// первый опрос сразу при старте, далее по тикеру
	w.Poll(ctx)

	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.QuitChan:
			logger.Info("LiveWorker signal stop")
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll - один опрос активных заказов
func (w *LiveWorker) Poll(ctx context.Context) {
	if w.Breaker.State() == gobreaker.StateOpen {
		logger.Warn(w.Breaker.Name(), "unavailable. Waiting...")
		return
	}

	result, err := w.Breaker.Execute(func() (interface{}, error) {
		return w.Orders.FetchLive(ctx)
	})
	if err != nil {
		metrics.LivePollFailuresTotal.Inc()
		logger.Error("Error polling live orders", err)
		return
	}

	orders := result.([]models.LiveOrder)
	w.Board.Apply(orders)
	metrics.LiveOrdersActive.Set(float64(len(orders)))
}
