package services

import (
	"sort"
	"sync"
	"time"

	"github.com/nhlong2701/takeAwayBill/internal/models"
)

// LiveBoard - потокобезопасный снимок активных заказов, обновляемый фоновым
// опросом. Заказы хранятся по коду: повторное появление заказа с тем же
// кодом заменяет прежнюю запись, а не добавляет новую.
type LiveBoard struct {
	mu      sync.RWMutex
	orders  map[string]models.LiveOrder
	updated time.Time
}

// Создание табло активных заказов
func NewLiveBoard() *LiveBoard {
	return &LiveBoard{orders: make(map[string]models.LiveOrder)}
}

// Apply заменяет снимок свежим списком заказов опроса
func (b *LiveBoard) Apply(orders []models.LiveOrder) {
	next := make(map[string]models.LiveOrder, len(orders))
	for _, order := range orders {
		next[order.OrderCode] = order
	}

	b.mu.Lock()
	b.orders = next
	b.updated = time.Now()
	b.mu.Unlock()
}

// Snapshot возвращает текущие заказы от новых к старым, число заказов по
// статусам и время последнего обновления. Нулевое время означает, что
// опрос ещё не выполнялся.
func (b *LiveBoard) Snapshot() ([]models.LiveOrder, map[string]int, time.Time) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	orders := make([]models.LiveOrder, 0, len(b.orders))
	counts := make(map[string]int, len(b.orders))
	for _, order := range b.orders {
		orders = append(orders, order)
		counts[order.Status]++
	}
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].PlacedDate == orders[j].PlacedDate {
			return orders[i].OrderCode < orders[j].OrderCode
		}
		return orders[i].PlacedDate > orders[j].PlacedDate
	})
	return orders, counts, b.updated
}
