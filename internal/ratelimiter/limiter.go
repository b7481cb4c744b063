package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/retentionhub/churn-console/internal/domain"
)

// ActionLimiters holds one token bucket per action kind, so a flood of
// dismissals cannot starve approvals of upstream capacity.
// Burst equals the rate; nothing is saved up beyond one second's worth.
type ActionLimiters struct {
	limiters map[domain.ActionKind]*rate.Limiter
}

// New creates ActionLimiters allowing ratePerSec upstream calls per kind.
func New(ratePerSec int) *ActionLimiters {
	r := rate.Limit(ratePerSec)
	return &ActionLimiters{
		limiters: map[domain.ActionKind]*rate.Limiter{
			domain.ActionApprove: rate.NewLimiter(r, ratePerSec),
			domain.ActionSnooze:  rate.NewLimiter(r, ratePerSec),
			domain.ActionDismiss: rate.NewLimiter(r, ratePerSec),
		},
	}
}

// Wait blocks until the kind's limiter grants a token. Unknown kinds are
// not limited. The error is non-nil only if ctx ends while waiting.
func (l *ActionLimiters) Wait(ctx context.Context, kind domain.ActionKind) error {
	lim, ok := l.limiters[kind]
	if !ok {
		return ctx.Err()
	}
	return lim.Wait(ctx)
}
