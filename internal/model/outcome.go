package model

import "fmt"

// MatchStatus classifies how a send record fared in the temporal join.
type MatchStatus string

const (
	MatchStatusMatched     MatchStatus = "matched"
	MatchStatusAmbiguous   MatchStatus = "ambiguous"
	MatchStatusUnmatched   MatchStatus = "unmatched"
	MatchStatusInvalidDate MatchStatus = "invalid_date"
)

// MatchOutcome records the temporal-join result for one send record. It is
// the diagnostic side-channel: the final output row is null-filled for
// non-matches, but the outcome keeps ambiguous / unmatched / invalid-date
// distinguishable for stats and auditing.
type MatchOutcome struct {
	Status     MatchStatus `json:"status"`
	Phase      int         `json:"phase,omitempty"`      // 1 or 2; 0 when no phase applies
	Increment  int         `json:"increment,omitempty"`  // seconds offset where the match/ambiguity occurred
	Candidates int         `json:"candidates,omitempty"` // candidate count at that increment (ambiguous only)
	OpenIndex  int         `json:"open_index,omitempty"` // index into the batch's open records (matched only)
	Window     int         `json:"window,omitempty"`     // upper bound in seconds of the widest window scanned
}

// Matched reports whether the send found a unique open record.
func (o MatchOutcome) Matched() bool {
	return o.Status == MatchStatusMatched
}

// Reason renders the outcome in the legacy reason vocabulary used by reports.
func (o MatchOutcome) Reason() string {
	switch o.Status {
	case MatchStatusMatched:
		return ""
	case MatchStatusInvalidDate:
		return "invalid_send_date"
	case MatchStatusAmbiguous:
		if o.Phase == 2 {
			return fmt.Sprintf("multiple_matches_at_plus_%d_seconds_phase2", o.Increment)
		}
		return fmt.Sprintf("multiple_matches_at_plus_%d_seconds", o.Increment)
	case MatchStatusUnmatched:
		return fmt.Sprintf("no_match_within_%d_seconds", o.Window)
	}
	return string(o.Status)
}
