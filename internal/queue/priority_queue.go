package queue

import (
	"context"
	"fmt"

	"github.com/retentionhub/churn-console/internal/domain"
)

// PriorityQueue holds operator decisions awaiting delivery upstream, one
// buffered channel per work queue priority.
//
//	High:   500   approvals on high-confidence saves; should drain immediately
//	Medium: 2 000
//	Low:    2 000
//
// Dequeue uses a double select so High is always served first while Medium
// and Low compete fairly when High is empty.
type PriorityQueue struct {
	high   chan Item
	medium chan Item
	low    chan Item
}

func New() *PriorityQueue {
	return NewWithCapacity(500, 2000, 2000)
}

// NewWithCapacity sizes each tier explicitly.
func NewWithCapacity(high, medium, low int) *PriorityQueue {
	return &PriorityQueue{
		high:   make(chan Item, high),
		medium: make(chan Item, medium),
		low:    make(chan Item, low),
	}
}

// Enqueue places an item on its priority tier without blocking.
// A full tier returns ErrQueueFull.
func (q *PriorityQueue) Enqueue(item Item) error {
	var ch chan Item
	switch item.Priority {
	case domain.PriorityHigh:
		ch = q.high
	case domain.PriorityMedium:
		ch = q.medium
	case domain.PriorityLow:
		ch = q.low
	default:
		return fmt.Errorf("unknown priority %q", item.Priority)
	}

	select {
	case ch <- item:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Dequeue blocks until an item is available or ctx is cancelled.
// Returns (Item{}, false) on cancellation.
func (q *PriorityQueue) Dequeue(ctx context.Context) (Item, bool) {
	select {
	case item := <-q.high:
		return item, true
	default:
	}

	select {
	case item := <-q.high:
		return item, true
	case item := <-q.medium:
		return item, true
	case item := <-q.low:
		return item, true
	case <-ctx.Done():
		return Item{}, false
	}
}

// Depths returns the number of items waiting in each tier.
func (q *PriorityQueue) Depths() (high, medium, low int) {
	return len(q.high), len(q.medium), len(q.low)
}
