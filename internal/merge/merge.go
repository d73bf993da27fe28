// Package merge left-joins send+open rows against the contacts directory and
// assigns surrogate company identifiers.
package merge

import (
	"go.uber.org/zap"

	"github.com/sells-group/outreach-recon/internal/model"
)

// ReasonContactNotFound annotates rows whose recipient email has no contact.
const ReasonContactNotFound = "Send email not found in contacts"

// Merger holds the contact lookup and the surrogate-ID map for one pipeline
// invocation. IDs are first-seen-first-numbered per distinct normalized
// Company URL and are never reused across invocations.
type Merger struct {
	contacts   map[string]model.Record
	urlIDs     map[string]int
	duplicates int
}

// NewMerger indexes contacts by normalized email. The first contact seen for
// an email wins; later duplicates are ignored (their count is retained for
// the audit warning only).
func NewMerger(contacts []model.Record) *Merger {
	m := &Merger{
		contacts: make(map[string]model.Record, len(contacts)),
		urlIDs:   make(map[string]int),
	}
	for _, c := range contacts {
		email := model.NormalizeKey(c.String(model.FieldEmail))
		if email == "" {
			continue
		}
		if _, ok := m.contacts[email]; ok {
			m.duplicates++
			continue
		}
		m.contacts[email] = c
	}
	return m
}

// Merge looks each row up by its Recipient Email. Misses become failed rows
// annotated with ReasonContactNotFound; hits are shallow-merged (contact
// fields override on conflict) and assigned a Company URL ID when the merged
// row carries a non-empty Company URL.
func (m *Merger) Merge(rows []model.Record) *model.MergeResult {
	result := &model.MergeResult{DuplicateContacts: m.duplicates}

	for _, row := range rows {
		email := model.NormalizeKey(row.String(model.FieldRecipientEmail))
		contact, ok := m.contacts[email]
		if !ok {
			failed := row.Clone()
			failed[model.FieldFailureReason] = ReasonContactNotFound
			result.Failed = append(result.Failed, failed)
			continue
		}

		merged := row.Clone()
		for k, v := range contact {
			merged[k] = v
		}

		if url := model.NormalizeKey(merged.String(model.FieldCompanyURL)); url != "" {
			merged[model.FieldCompanyURLID] = m.urlID(url)
		}
		result.Successful = append(result.Successful, merged)
	}

	zap.L().Debug("contact merge complete",
		zap.Int("matched", len(result.Successful)),
		zap.Int("failed", len(result.Failed)),
		zap.Int("companies", len(m.urlIDs)),
	)
	return result
}

// urlID returns the surrogate ID for a normalized company URL, assigning the
// next unused positive integer on first sight.
func (m *Merger) urlID(url string) int {
	if id, ok := m.urlIDs[url]; ok {
		return id
	}
	id := len(m.urlIDs) + 1
	m.urlIDs[url] = id
	return id
}
