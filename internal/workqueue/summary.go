package workqueue

import (
	"time"

	"github.com/retentionhub/churn-console/internal/domain"
)

const (
	DefaultHighValueThreshold = 100.0
	DefaultStaleAfter         = 60 * time.Minute
)

// Thresholds parameterise BuildSummary.
type Thresholds struct {
	// HighValue is exclusive: an item counts when potentialValue > HighValue.
	HighValue float64
	// StaleAfter is inclusive: an item counts when its age >= StaleAfter.
	StaleAfter time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{HighValue: DefaultHighValueThreshold, StaleAfter: DefaultStaleAfter}
}

// BuildSummary aggregates items in a single pass. Missing potential values
// count as zero. Items with an unknown age count as stale but do not
// contribute to OldestPendingAge.
func BuildSummary(items []*domain.WorkQueueItem, now time.Time, th Thresholds) domain.Summary {
	var (
		s      domain.Summary
		oldest int64 = -1
	)
	staleMs := th.StaleAfter.Milliseconds()

	s.PendingApprovals = len(items)
	for _, item := range items {
		var value float64
		if item.PotentialValue != nil {
			value = *item.PotentialValue
		}
		if value > th.HighValue {
			s.HighValueCount++
		}
		s.TotalValueAtRisk += value

		ms, ok := AgeMs(item.CreatedAt, now)
		if !ok {
			s.StaleCount++
			continue
		}
		if ms >= staleMs {
			s.StaleCount++
		}
		if ms > oldest {
			oldest = ms
		}
	}

	if oldest >= 0 {
		age := formatClock(oldest)
		s.OldestPendingAge = &age
	}
	return s
}
