// Package model defines the record, batch, and result types shared by the
// reconciliation pipeline stages.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Canonical field names shared across the three record kinds. Passthrough
// fields keep whatever names the source export used.
const (
	FieldRecipientName  = "recipient_name"
	FieldSentDate       = "sent_date"
	FieldSentDateParsed = "sent_date_parsed"
	FieldRecipientEmail = "Recipient Email"
	FieldDomain         = "Domain"
	FieldViews          = "Views"
	FieldClicks         = "Clicks"
	FieldLastOpened     = "last_opened"
	FieldEmail          = "Email"
	FieldCompanyURL     = "Company URL"
	FieldCompanyURLID   = "Company URL ID"
	FieldSDRName        = "SDR_Name"
	FieldFailureReason  = "failure_reason"
	FieldMatchCount     = "match_count"
)

// Record is one row of an exported dataset: field name to scalar value
// (string, int, time.Time, or nil). Fields outside the canonical set are
// preserved and passed through untouched.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the named field rendered as a string, or "" when the field
// is absent or nil.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Int returns the named field as an int. Missing, nil, or non-numeric values
// yield (0, false).
func (r Record) Int(field string) (int, bool) {
	switch v := r[field].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// Time returns the named field as a time.Time. Missing or nil values yield
// (zero, false).
func (r Record) Time(field string) (time.Time, bool) {
	t, ok := r[field].(time.Time)
	return t, ok
}

// NormalizeKey lowercases and trims an identifier for case/whitespace
// insensitive matching.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Batch is one SDR's pair of send and open exports, processed independently
// against the shared contacts directory.
type Batch struct {
	Name  string   `json:"name"`
	Sends []Record `json:"sends"`
	Opens []Record `json:"opens"`
}
