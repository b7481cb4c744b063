package workqueue

import (
	"slices"

	"github.com/retentionhub/churn-console/internal/domain"
)

// SortByDefault returns a new slice ordered by priority (High first) and
// then by createdAt (oldest first). Items with an unknown createdAt follow
// the dated items of the same priority. The sort is stable and items is not
// modified.
func SortByDefault(items []*domain.WorkQueueItem) []*domain.WorkQueueItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, compareDefault)
	return sorted
}

func compareDefault(a, b *domain.WorkQueueItem) int {
	if ra, rb := ItemRank(a), ItemRank(b); ra != rb {
		return rb - ra
	}
	az, bz := a.CreatedAt.IsZero(), b.CreatedAt.IsZero()
	switch {
	case az && bz:
		return 0
	case az:
		return 1
	case bz:
		return -1
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}
