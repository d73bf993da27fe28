package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchOutcome_Reason(t *testing.T) {
	tests := []struct {
		name    string
		outcome MatchOutcome
		want    string
	}{
		{"matched", MatchOutcome{Status: MatchStatusMatched, Phase: 1, Increment: 4}, ""},
		{"invalid date", MatchOutcome{Status: MatchStatusInvalidDate}, "invalid_send_date"},
		{"ambiguous phase1", MatchOutcome{Status: MatchStatusAmbiguous, Phase: 1, Increment: 5, Candidates: 2}, "multiple_matches_at_plus_5_seconds"},
		{"ambiguous phase2", MatchOutcome{Status: MatchStatusAmbiguous, Phase: 2, Increment: 30, Candidates: 3}, "multiple_matches_at_plus_30_seconds_phase2"},
		{"unmatched phase1", MatchOutcome{Status: MatchStatusUnmatched, Phase: 1, Window: 11}, "no_match_within_11_seconds"},
		{"unmatched phase2", MatchOutcome{Status: MatchStatusUnmatched, Phase: 2, Window: 60}, "no_match_within_60_seconds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.Reason())
		})
	}
}

func TestMatchOutcome_Matched(t *testing.T) {
	assert.True(t, MatchOutcome{Status: MatchStatusMatched}.Matched())
	assert.False(t, MatchOutcome{Status: MatchStatusAmbiguous}.Matched())
}
