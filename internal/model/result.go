package model

// JoinResult is the temporal join engine's output for one batch. Rows is a
// left join: exactly one row per input send record, in input order. Outcomes
// is parallel to Rows.
type JoinResult struct {
	Rows     []Record       `json:"rows"`
	Outcomes []MatchOutcome `json:"outcomes"`
	Matched  int            `json:"matched"`
	Failed   int            `json:"failed"` // ambiguous + unmatched + invalid date
}

// MergeResult splits the contact merge output into contact-matched and
// contact-missed rows.
type MergeResult struct {
	Successful        []Record `json:"successful"`
	Failed            []Record `json:"failed"`
	DuplicateContacts int      `json:"duplicate_contacts"`
}

// Stats is the flat counter block reported by a full pipeline run.
type Stats struct {
	TotalSendRecords    int `json:"total_send_records"`
	TotalOpenRecords    int `json:"total_open_records"`
	TotalContactRecords int `json:"total_contact_records"`
	SendOpenMatched     int `json:"send_open_matched"`
	SendOpenFailed      int `json:"send_open_failed"`
	ContactMatched      int `json:"contact_matched"`
	ContactFailed       int `json:"contact_failed"`
	DuplicateContacts   int `json:"duplicate_contacts"`
}

// SDRStat is the per-batch audit breakdown.
type SDRStat struct {
	Name             string `json:"name"`
	TotalSendRecords int    `json:"total_send_records"`
	Matched          int    `json:"matched"`
	Failures         int    `json:"failures"`
}

// Result is the final pipeline output.
type Result struct {
	Successful []Record       `json:"successful"`
	Failed     []Record       `json:"failed"`
	Stats      Stats          `json:"stats"`
	SDRStats   []SDRStat      `json:"sdrStats"`
	Outcomes   []MatchOutcome `json:"-"` // diagnostic side-channel, concatenated in batch order
}
