package services

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nhlong2701/takeAwayBill/internal/models"
)

func TestLiveBoard_Apply(t *testing.T) {
	t.Run("LiveBoard_DuplicateCodeReplaced", func(t *testing.T) {
		board := NewLiveBoard()

		board.Apply([]models.LiveOrder{
			{OrderCode: "o-1", Status: "confirmed", PlacedDate: "2024-03-10 18:00:00"},
			{OrderCode: "o-1", Status: "kitchen", PlacedDate: "2024-03-10 18:00:00"},
		})

		orders, _, _ := board.Snapshot()
		if len(orders) != 1 {
			t.Fatalf("Expected single order for duplicate code, got: %d", len(orders))
		}
		if orders[0].Status != "kitchen" {
			t.Errorf("Expected latest status 'kitchen', got: '%s'", orders[0].Status)
		}
	})
	t.Run("LiveBoard_SnapshotReplaced", func(t *testing.T) {
		board := NewLiveBoard()

		board.Apply([]models.LiveOrder{
			{OrderCode: "o-1", Status: "confirmed", PlacedDate: "2024-03-10 18:00:00"},
			{OrderCode: "o-2", Status: "kitchen", PlacedDate: "2024-03-10 19:30:00"},
		})
		board.Apply([]models.LiveOrder{
			{OrderCode: "o-1", Status: "delivery", PlacedDate: "2024-03-10 18:00:00"},
		})

		orders, _, _ := board.Snapshot()
		if len(orders) != 1 {
			t.Fatalf("Expected completed orders to leave the board, got: %d", len(orders))
		}
		if orders[0].OrderCode != "o-1" || orders[0].Status != "delivery" {
			t.Errorf("Expected updated order 'o-1', got: '%v'", orders[0])
		}
	})
}

func TestLiveBoard_SnapshotOrder(t *testing.T) {
	board := NewLiveBoard()

	board.Apply([]models.LiveOrder{
		{OrderCode: "o-3", PlacedDate: "2024-03-10 18:00:00"},
		{OrderCode: "o-2", PlacedDate: "2024-03-10 19:30:00"},
		{OrderCode: "o-1", PlacedDate: "2024-03-10 19:30:00"},
	})

	orders, _, _ := board.Snapshot()

	codes := make([]string, 0, len(orders))
	for _, order := range orders {
		codes = append(codes, order.OrderCode)
	}
	// от новых к старым, при равном времени по коду
	expected := []string{"o-1", "o-2", "o-3"}
	if diff := cmp.Diff(expected, codes); len(diff) != 0 {
		t.Errorf("expected order codes mismatch:\n %s", diff)
	}
}

func TestLiveBoard_StatusCounts(t *testing.T) {
	board := NewLiveBoard()

	if _, counts, _ := board.Snapshot(); len(counts) != 0 {
		t.Errorf("Expected no status counts on empty board, got: '%v'", counts)
	}

	board.Apply([]models.LiveOrder{
		{OrderCode: "o-1", Status: "confirmed", PlacedDate: "2024-03-10 18:00:00"},
		{OrderCode: "o-2", Status: "kitchen", PlacedDate: "2024-03-10 18:30:00"},
		{OrderCode: "o-3", Status: "confirmed", PlacedDate: "2024-03-10 19:00:00"},
	})

	_, counts, _ := board.Snapshot()
	expected := map[string]int{"confirmed": 2, "kitchen": 1}
	if diff := cmp.Diff(expected, counts); len(diff) != 0 {
		t.Errorf("expected status counts mismatch:\n %s", diff)
	}
}

func TestLiveBoard_UpdatedTime(t *testing.T) {
	board := NewLiveBoard()

	if _, _, updated := board.Snapshot(); !updated.IsZero() {
		t.Errorf("Expected zero time before first poll, got: '%v'", updated)
	}

	before := time.Now()
	board.Apply([]models.LiveOrder{{OrderCode: "o-1", PlacedDate: "2024-03-10 18:00:00"}})

	if _, _, updated := board.Snapshot(); updated.Before(before) {
		t.Errorf("Expected update time after apply, got: '%v'", updated)
	}
}
