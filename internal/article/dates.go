package article

import (
	"fmt"
	"strings"
	"time"
)

// HumanDateLayout is the publication-date form shown to readers.
const HumanDateLayout = "January 2, 2006"

// dateLayouts are the accepted input forms for publication dates, tried in
// order.
var dateLayouts = []string{
	HumanDateLayout,
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses a publication date in any accepted input form and
// normalizes it to UTC.
func ParseDate(text string) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("article: unrecognized date %q", trimmed)
}
