package workqueue

import (
	"time"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/format"
)

// Display controls how monetary values are rendered in derived views.
type Display struct {
	Currency string
	Locale   string
}

// ItemView is an item together with every field the dashboard derives from it.
type ItemView struct {
	Item               *domain.WorkQueueItem `json:"item"`
	Priority           domain.Priority       `json:"priority"`
	AgeSeverity        domain.AgeSeverity    `json:"age_severity"`
	RelativeAge        string                `json:"relative_age"`
	Style              Style                 `json:"style"`
	PotentialValueText string                `json:"potential_value_text"`
	CreatedAtText      string                `json:"created_at_text"`
	Activity           format.Activity       `json:"activity"`
}

// SummaryView is the summary plus its formatted value at risk.
type SummaryView struct {
	domain.Summary
	TotalValueAtRiskText string `json:"total_value_at_risk_text"`
}

// Engine binds the derivation functions to a clock, thresholds and display
// settings.
type Engine struct {
	now        func() time.Time
	thresholds Thresholds
	display    Display
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithThresholds(th Thresholds) Option {
	return func(e *Engine) { e.thresholds = th }
}

func WithDisplay(d Display) Option {
	return func(e *Engine) { e.display = d }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:        time.Now,
		thresholds: DefaultThresholds(),
		display:    Display{Currency: format.DefaultCurrency, Locale: format.DefaultLocale},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Now() time.Time { return e.now() }

func (e *Engine) Thresholds() Thresholds { return e.thresholds }

// Derive computes the view of a single item at instant now.
func (e *Engine) Derive(item *domain.WorkQueueItem, now time.Time) ItemView {
	severity := AgeSeverity(item.CreatedAt, now)
	return ItemView{
		Item:               item,
		Priority:           PriorityFromItem(item),
		AgeSeverity:        severity,
		RelativeAge:        FormatRelativeAge(item.CreatedAt, now),
		Style:              StyleFor(severity),
		PotentialValueText: format.Currency(item.PotentialValue, e.display.Currency, e.display.Locale),
		CreatedAtText:      format.DateTime(item.CreatedAt),
		Activity:           format.RelativeActivity(item.LastActivityAt, now),
	}
}

// Views sorts items by default order and derives each one against a single
// captured instant, so every row in a response agrees on "now".
func (e *Engine) Views(items []*domain.WorkQueueItem) []ItemView {
	now := e.now()
	sorted := SortByDefault(items)
	views := make([]ItemView, len(sorted))
	for i, item := range sorted {
		views[i] = e.Derive(item, now)
	}
	return views
}

func (e *Engine) Summary(items []*domain.WorkQueueItem) SummaryView {
	s := BuildSummary(items, e.now(), e.thresholds)
	return SummaryView{
		Summary:              s,
		TotalValueAtRiskText: format.CurrencyValue(s.TotalValueAtRisk, e.display.Currency, e.display.Locale),
	}
}
