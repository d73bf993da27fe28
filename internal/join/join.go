// Package join matches send records to open records by recipient identity
// and approximate timestamp. The two export systems' clocks drift, so
// matching scans forward one second at a time: a narrow cheap window first
// (Phase 1), then a wider window over only the sends and opens the first
// pass left unresolved (Phase 2).
package join

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/outreach-recon/internal/model"
)

// Windows bounds the two scan phases, in seconds. Phase 1 covers offsets
// 0..Phase1Max inclusive, Phase 2 covers Phase1Max+1..Phase2Max.
type Windows struct {
	Phase1Max int
	Phase2Max int
}

// DefaultWindows matches the send and open systems' observed clock skew.
var DefaultWindows = Windows{Phase1Max: 11, Phase2Max: 60}

// openEntry is one open record prepared for bucket lookup.
type openEntry struct {
	instant time.Time
	valid   bool
}

// Match left-joins sends against opens. Every send produces exactly one
// output row: matched rows carry the open's Views/Clicks/last_opened,
// everything else carries nil for those three fields. The per-send outcome
// (matched / ambiguous / unmatched / invalid date) is kept in
// JoinResult.Outcomes for stats and auditing only.
func Match(sends, opens []model.Record, w Windows) *model.JoinResult {
	log := zap.L().With(zap.String("component", "temporal_join"))

	// Bucket opens by normalized recipient name.
	entries := make([]openEntry, len(opens))
	buckets := make(map[string][]int)
	for i, open := range opens {
		var e openEntry
		if t, ok := open.Time(model.FieldSentDateParsed); ok {
			e.instant = t
			e.valid = true
		}
		entries[i] = e
		key := model.NormalizeKey(open.String(model.FieldRecipientName))
		buckets[key] = append(buckets[key], i)
	}

	outcomes := make([]model.MatchOutcome, len(sends))
	consumed := make([]bool, len(opens))

	// Phase 1: narrow window over the full open pool.
	var residual []int
	for i, send := range sends {
		inst, ok := send.Time(model.FieldSentDateParsed)
		if !ok {
			outcomes[i] = model.MatchOutcome{Status: model.MatchStatusInvalidDate}
			continue
		}
		outcome := scan(inst, bucketFor(send, buckets), entries, consumed, 0, w.Phase1Max, 1)
		if outcome.Status == model.MatchStatusMatched {
			consumed[outcome.OpenIndex] = true
		} else {
			residual = append(residual, i)
		}
		outcomes[i] = outcome
	}

	// Phase 2: wider window, residual sends only, against the opens Phase 1
	// did not consume. The consumed set is frozen here: a Phase 2 match can
	// never steal an open that satisfied a Phase 1 send.
	phase2Pool := make([]bool, len(consumed))
	copy(phase2Pool, consumed)
	for _, i := range residual {
		inst, _ := sends[i].Time(model.FieldSentDateParsed)
		outcome := scan(inst, bucketFor(sends[i], buckets), entries, phase2Pool, w.Phase1Max+1, w.Phase2Max, 2)
		if outcome.Status == model.MatchStatusMatched {
			consumed[outcome.OpenIndex] = true
			phase2Pool[outcome.OpenIndex] = true
			outcomes[i] = outcome
			continue
		}
		// Phase 2 failures supersede the Phase 1 classification.
		outcomes[i] = outcome
	}

	// Materialize the left join.
	result := &model.JoinResult{
		Rows:     make([]model.Record, len(sends)),
		Outcomes: outcomes,
	}
	for i, send := range sends {
		row := send.Clone()
		if outcomes[i].Matched() {
			open := opens[outcomes[i].OpenIndex]
			row[model.FieldViews] = open[model.FieldViews]
			row[model.FieldClicks] = open[model.FieldClicks]
			row[model.FieldLastOpened] = openLastOpened(open)
			result.Matched++
		} else {
			row[model.FieldViews] = nil
			row[model.FieldClicks] = nil
			row[model.FieldLastOpened] = nil
			result.Failed++
		}
		result.Rows[i] = row
	}

	log.Debug("join complete",
		zap.Int("sends", len(sends)),
		zap.Int("opens", len(opens)),
		zap.Int("matched", result.Matched),
		zap.Int("failed", result.Failed),
	)
	return result
}

// scan walks increments lo..hi inclusive looking for opens whose instant
// equals send+increment exactly. The first increment with any candidates
// decides: one candidate matches, two or more is a hard ambiguity stop.
func scan(inst time.Time, bucket []int, entries []openEntry, used []bool, lo, hi, phase int) model.MatchOutcome {
	for incr := lo; incr <= hi; incr++ {
		target := inst.Add(time.Duration(incr) * time.Second)

		var first, count int
		for _, idx := range bucket {
			e := entries[idx]
			if used[idx] || !e.valid || !e.instant.Equal(target) {
				continue
			}
			if count == 0 {
				first = idx
			}
			count++
		}

		if count == 1 {
			return model.MatchOutcome{
				Status:    model.MatchStatusMatched,
				Phase:     phase,
				Increment: incr,
				OpenIndex: first,
				Window:    hi,
			}
		}
		if count > 1 {
			return model.MatchOutcome{
				Status:     model.MatchStatusAmbiguous,
				Phase:      phase,
				Increment:  incr,
				Candidates: count,
				Window:     hi,
			}
		}
	}
	return model.MatchOutcome{Status: model.MatchStatusUnmatched, Phase: phase, Window: hi}
}

func bucketFor(send model.Record, buckets map[string][]int) []int {
	return buckets[model.NormalizeKey(send.String(model.FieldRecipientName))]
}

// openLastOpened returns the open's last_opened value, normalizing an absent
// field to nil so the joined row always carries the key.
func openLastOpened(open model.Record) any {
	if v, ok := open[model.FieldLastOpened]; ok {
		return v
	}
	return nil
}
