// Package normalize maps the heterogeneous column names of the three export
// kinds onto the canonical field set and applies each kind's cleaning rules.
package normalize

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-recon/internal/model"
)

// Send normalizes a send export. Rows whose Domain matches an excluded
// domain are dropped; every other row survives, carrying a parsed
// sent_date_parsed (nil when unparseable — classification happens at join
// time, never here).
func Send(records []model.Record, excludedDomains []string) ([]model.Record, error) {
	if len(records) == 0 {
		return nil, eris.New("normalize: send: no records")
	}

	out := make([]model.Record, 0, len(records))
	excluded := 0
	for _, raw := range records {
		rec := raw.Clone()
		applyAliases(rec, sendAliases)

		if len(out) == 0 && excluded == 0 {
			if err := checkRequired(rec, sendRequired, "send"); err != nil {
				return nil, err
			}
		}

		if domainExcluded(rec.String(model.FieldDomain), excludedDomains) {
			excluded++
			continue
		}

		rec[model.FieldRecipientName] = strings.TrimSpace(rec.String(model.FieldRecipientName))

		if t, ok := ParseSentDate(rec.String(model.FieldSentDate)); ok {
			rec[model.FieldSentDateParsed] = t
		} else {
			rec[model.FieldSentDateParsed] = nil
		}

		out = append(out, rec)
	}

	if excluded > 0 {
		zap.L().Debug("normalize: excluded send rows by domain", zap.Int("excluded", excluded))
	}
	return out, nil
}

// Open normalizes an open/click export. The open tracker sometimes joins
// co-recipients with commas into one name field; only the primary recipient
// is kept for matching.
func Open(records []model.Record) ([]model.Record, error) {
	if len(records) == 0 {
		return nil, eris.New("normalize: open: no records")
	}

	out := make([]model.Record, 0, len(records))
	for i, raw := range records {
		rec := raw.Clone()
		applyAliases(rec, openAliases)

		if i == 0 {
			if err := checkRequired(rec, openRequired, "open"); err != nil {
				return nil, err
			}
		}

		name := rec.String(model.FieldRecipientName)
		if idx := strings.Index(name, ","); idx >= 0 {
			name = name[:idx]
		}
		rec[model.FieldRecipientName] = strings.TrimSpace(name)

		if t, ok := ParseSentDate(rec.String(model.FieldSentDate)); ok {
			rec[model.FieldSentDateParsed] = t
			rec[model.FieldSentDate] = FormatOpenDate(t)
		} else {
			rec[model.FieldSentDateParsed] = nil
		}

		rec[model.FieldViews] = parseCountOr(rec.String(model.FieldViews), 0)
		rec[model.FieldClicks] = parseCountOr(rec.String(model.FieldClicks), 0)

		out = append(out, rec)
	}
	return out, nil
}

// Contacts normalizes the contacts directory: the Email join key is
// lowercased and trimmed, everything else passes through.
func Contacts(records []model.Record) ([]model.Record, error) {
	if len(records) == 0 {
		return nil, eris.New("normalize: contacts: no records")
	}

	out := make([]model.Record, 0, len(records))
	for i, raw := range records {
		rec := raw.Clone()
		applyAliases(rec, contactAliases)

		if i == 0 {
			if err := checkRequired(rec, contactRequired, "contacts"); err != nil {
				return nil, err
			}
		}

		rec[model.FieldEmail] = model.NormalizeKey(rec.String(model.FieldEmail))
		out = append(out, rec)
	}
	return out, nil
}

// checkRequired verifies the required canonical fields on the first mapped
// row. A missing column fails the whole file.
func checkRequired(rec model.Record, required []string, kind string) error {
	var missing []string
	for _, field := range required {
		if _, ok := rec[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("normalize: %s: missing required columns: %s", kind, strings.Join(missing, ", "))
	}
	return nil
}

// domainExcluded reports whether the domain matches any exclusion entry,
// case-insensitively, by substring.
func domainExcluded(domain string, excludedDomains []string) bool {
	if domain == "" {
		return false
	}
	lower := strings.ToLower(domain)
	for _, ex := range excludedDomains {
		if ex == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(ex)) {
			return true
		}
	}
	return false
}

// parseCountOr parses a non-negative count, returning def on empty or
// non-numeric input.
func parseCountOr(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return def
	}
	return v
}
