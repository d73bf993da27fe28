package normalize

import (
	"strings"
	"time"
)

// openDateLayout is the normalized string form kept on open records; the
// downstream stats read this form alongside the parsed instant.
const openDateLayout = "02/01/2006 15:04:05"

// sentDateLayouts lists the timestamp formats the source tools are known to
// export, tried in order. Both the send and the open systems drift between
// formats across export versions.
var sentDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"Jan 2, 2006 3:04:05 PM",
	"Jan 2, 2006 3:04 PM",
	"2006-01-02",
}

// ParseSentDate parses a free-text sent_date value. The result is truncated
// to whole seconds; the join compares instants at second granularity.
func ParseSentDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range sentDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Truncate(time.Second), true
		}
	}
	return time.Time{}, false
}

// FormatOpenDate renders a parsed instant in the normalized DD/MM/YYYY
// HH:MM:SS form.
func FormatOpenDate(t time.Time) string {
	return t.Format(openDateLayout)
}
