// Package validate audits a pipeline result: it recomputes the reported
// totals from the result's own rows and statistics (and optionally from the
// raw per-batch sources) and reports any arithmetic inconsistency. It never
// mutates its input and never affects pipeline output.
package validate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-recon/internal/ingest"
	"github.com/sells-group/outreach-recon/internal/model"
	"github.com/sells-group/outreach-recon/internal/normalize"
)

// Report is the checker's verdict. Errors are arithmetic inconsistencies;
// warnings are non-fatal data-quality observations. The caller decides
// severity.
type Report struct {
	Passed   bool           `json:"passed"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
	Summary  map[string]int `json:"summary"`
}

func (r *Report) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// BatchSource names one batch's original send export so the checker can
// recount its rows independently of the pipeline's counters.
type BatchSource struct {
	Name string
	Send ingest.Source
}

// Check runs every cross-check that needs only the result itself.
func Check(res *model.Result) *Report {
	r := &Report{Summary: map[string]int{}}

	if res == nil {
		r.errorf("output is missing entirely")
		return r
	}
	// Structural: the successful set must exist even when empty.
	if res.Successful == nil && res.Stats.ContactMatched != 0 {
		r.errorf("output has no successful set but stats report %d contact matches", res.Stats.ContactMatched)
	}

	stats := res.Stats

	// Cross-check 1: total sends vs send-open success + failure.
	if got := stats.SendOpenMatched + stats.SendOpenFailed; stats.TotalSendRecords != got {
		r.errorf("stats drift: total_send_records=%d but send_open_matched+send_open_failed=%d (difference %d)",
			stats.TotalSendRecords, got, stats.TotalSendRecords-got)
	}

	// Cross-check 2: rows actually emitted vs reported total.
	emitted := len(res.Successful) + len(res.Failed)
	if emitted != stats.TotalSendRecords {
		r.errorf("row drift: successful+failed rows=%d but total_send_records=%d (difference %d)",
			emitted, stats.TotalSendRecords, emitted-stats.TotalSendRecords)
	}

	// Cross-check 3: per-batch sums vs globals.
	var sumSends, sumMatched, sumFailures int
	for _, s := range res.SDRStats {
		sumSends += s.TotalSendRecords
		sumMatched += s.Matched
		sumFailures += s.Failures
	}
	if sumSends != stats.TotalSendRecords {
		r.errorf("batch drift: per-batch total_send_records sum to %d but global is %d", sumSends, stats.TotalSendRecords)
	}
	if sumMatched != stats.SendOpenMatched {
		r.errorf("batch drift: per-batch matched sum to %d but global is %d", sumMatched, stats.SendOpenMatched)
	}
	if sumFailures != stats.SendOpenFailed {
		r.errorf("batch drift: per-batch failures sum to %d but global is %d", sumFailures, stats.SendOpenFailed)
	}

	// Data-quality warnings.
	var missingEmail, zeroViews int
	for _, row := range res.Successful {
		if row.String(model.FieldRecipientEmail) == "" {
			missingEmail++
		}
		if v, ok := row.Int(model.FieldViews); !ok || v == 0 {
			zeroViews++
		}
	}
	if missingEmail > 0 {
		r.warnf("%d successful rows are missing a recipient email", missingEmail)
	}
	if zeroViews > 0 {
		r.warnf("%d successful rows have zero or empty Views", zeroViews)
	}
	if stats.DuplicateContacts > 0 {
		r.warnf("%d duplicate contact emails were ignored (first entry kept)", stats.DuplicateContacts)
	}

	r.Summary["total_send_records"] = stats.TotalSendRecords
	r.Summary["total_open_records"] = stats.TotalOpenRecords
	r.Summary["total_contact_records"] = stats.TotalContactRecords
	r.Summary["send_open_matched"] = stats.SendOpenMatched
	r.Summary["send_open_failed"] = stats.SendOpenFailed
	r.Summary["contact_matched"] = stats.ContactMatched
	r.Summary["contact_failed"] = stats.ContactFailed
	r.Summary["successful_rows"] = len(res.Successful)
	r.Summary["failed_rows"] = len(res.Failed)

	r.Passed = len(r.Errors) == 0
	return r
}

// CheckWithSources runs Check and additionally recounts each batch's raw
// send export against its reported per-batch total. The recount applies the
// same domain exclusion the pipeline applies, so it independently re-derives
// the expected count from raw rows rather than trusting any counter.
func CheckWithSources(ctx context.Context, res *model.Result, batches []BatchSource, excludedDomains []string) *Report {
	r := Check(res)
	if res == nil {
		return r
	}

	perBatch := make(map[string]model.SDRStat, len(res.SDRStats))
	for _, s := range res.SDRStats {
		perBatch[s.Name] = s
	}

	for _, b := range batches {
		records, err := b.Send.Records(ctx)
		if err != nil {
			r.errorf("batch %q: recount failed: %v", b.Name, err)
			continue
		}
		normalized, err := normalize.Send(records, excludedDomains)
		if err != nil {
			r.errorf("batch %q: recount failed: %v", b.Name, err)
			continue
		}

		stat, ok := perBatch[b.Name]
		if !ok {
			r.errorf("batch %q: present in sources but absent from sdrStats", b.Name)
			continue
		}
		if len(normalized) != stat.TotalSendRecords {
			r.errorf("batch %q: raw send file has %d rows but stats report %d (difference %d)",
				b.Name, len(normalized), stat.TotalSendRecords, len(normalized)-stat.TotalSendRecords)
		}
	}

	r.Passed = len(r.Errors) == 0
	zap.L().Debug("validation complete",
		zap.Bool("passed", r.Passed),
		zap.Int("errors", len(r.Errors)),
		zap.Int("warnings", len(r.Warnings)),
	)
	return r
}
