package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/retentionhub/churn-console/internal/domain"
	"github.com/retentionhub/churn-console/internal/format"
	"github.com/retentionhub/churn-console/internal/upstream"
	"github.com/retentionhub/churn-console/internal/workqueue"
)

// Options is the root command. The struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	File       string        `short:"f" long:"file" description:"work queue JSON export (array or {items:[...]})" required:"true"`
	Now        string        `long:"now" description:"evaluate ages at this RFC 3339 instant instead of the wall clock"`
	Currency   string        `long:"currency" default:"USD" description:"ISO 4217 code for monetary values"`
	Locale     string        `long:"locale" default:"en-US" description:"BCP 47 locale for number formatting"`
	HighValue  float64       `long:"high-value" default:"100" description:"potential value above which an item is high value"`
	StaleAfter time.Duration `long:"stale-after" default:"60m" description:"age at which an item counts as stale"`

	Summary SummaryCmd `command:"summary" description:"Print the queue summary as JSON"`
	List    ListCmd    `command:"list" description:"Print pending items in default order"`

	out    io.Writer
	logger *zap.Logger
}

func newOptions(out io.Writer, logger *zap.Logger) *Options {
	o := &Options{out: out, logger: logger}
	o.Summary.root = o
	o.List.root = o
	return o
}

// load reads the export and builds an engine pinned to --now when given.
func (o *Options) load() ([]*domain.WorkQueueItem, *workqueue.Engine, error) {
	data, err := os.ReadFile(o.File)
	if err != nil {
		return nil, nil, fmt.Errorf("read items: %w", err)
	}
	items, err := upstream.DecodeItems(data, o.logger)
	if err != nil {
		return nil, nil, err
	}

	engineOpts := []workqueue.Option{
		workqueue.WithThresholds(workqueue.Thresholds{HighValue: o.HighValue, StaleAfter: o.StaleAfter}),
		workqueue.WithDisplay(workqueue.Display{Currency: o.Currency, Locale: o.Locale}),
	}
	if o.Now != "" {
		now, ok := format.ParseTimestamp(o.Now)
		if !ok {
			return nil, nil, fmt.Errorf("invalid --now %q", o.Now)
		}
		engineOpts = append(engineOpts, workqueue.WithClock(func() time.Time { return now }))
	}
	return items, workqueue.NewEngine(engineOpts...), nil
}

// SummaryCmd prints the aggregate figures.
type SummaryCmd struct {
	root *Options
}

func (c *SummaryCmd) Execute(_ []string) error {
	items, engine, err := c.root.load()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.root.out)
	enc.SetIndent("", "  ")
	return enc.Encode(engine.Summary(items))
}

// ListCmd prints the sorted queue as a table or JSON.
type ListCmd struct {
	Priority string `long:"priority" description:"only High, Medium or Low items"`
	Limit    int    `short:"n" long:"limit" description:"print at most n items"`
	JSON     bool   `long:"json" description:"print derived views as JSON"`

	root *Options
}

func (c *ListCmd) Execute(_ []string) error {
	items, engine, err := c.root.load()
	if err != nil {
		return err
	}

	var want *domain.Priority
	if c.Priority != "" {
		p, ok := domain.ParsePriority(c.Priority)
		if !ok {
			return domain.ErrInvalidPriority
		}
		want = &p
	}

	var views []workqueue.ItemView
	for _, v := range engine.Views(items) {
		if want != nil && v.Priority != *want {
			continue
		}
		views = append(views, v)
		if c.Limit > 0 && len(views) == c.Limit {
			break
		}
	}

	if c.JSON {
		enc := json.NewEncoder(c.root.out)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	tw := tabwriter.NewWriter(c.root.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRIORITY\tAGE\tSEVERITY\tVALUE\tCUSTOMER\tTITLE")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Item.ID, v.Priority, v.RelativeAge, v.AgeSeverity,
			v.PotentialValueText, dash(v.Item.CustomerName), dash(strings.TrimSpace(v.Item.Title)))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return format.Placeholder
	}
	return s
}
