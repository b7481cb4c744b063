package workqueue

import (
	"time"

	"github.com/retentionhub/churn-console/internal/domain"
)

// Style is the emphasis triple the dashboard applies to a queue row.
type Style struct {
	Text       string `json:"text"`
	Border     string `json:"border"`
	Background string `json:"background"`
}

var severityStyles = map[domain.AgeSeverity]Style{
	domain.AgeFresh:    {Text: "text-gray-500", Border: "border-l-transparent", Background: ""},
	domain.AgeWarning:  {Text: "text-amber-600", Border: "border-l-amber-400", Background: "bg-amber-50"},
	domain.AgeStale:    {Text: "text-orange-600", Border: "border-l-orange-500", Background: "bg-orange-50"},
	domain.AgeCritical: {Text: "text-red-600 font-semibold", Border: "border-l-red-600", Background: "bg-red-50"},
}

func StyleFor(severity domain.AgeSeverity) Style {
	return severityStyles[severity]
}

func AgeStyle(createdAt, now time.Time) Style {
	return StyleFor(AgeSeverity(createdAt, now))
}
