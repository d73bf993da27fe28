package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/outreach-recon/internal/config"
	"github.com/sells-group/outreach-recon/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{
			MaxConcurrentBatches: 2,
			ExcludedDomains:      []string{"loopwork.co"},
		},
		Match: config.MatchConfig{Phase1MaxSeconds: 11, Phase2MaxSeconds: 60},
	}
}

func sendRecord(name, date, email string) model.Record {
	return model.Record{
		"recipient_name":  name,
		"sent_date":       date,
		"Recipient Email": email,
	}
}

func openRecord(name, date, views, clicks string) model.Record {
	return model.Record{
		"recipient_name": name,
		"sent_date":      date,
		"Views":          views,
		"Clicks":         clicks,
	}
}

func contactRecord(email, url string) model.Record {
	return model.Record{"Email": email, "Company URL": url}
}

func TestRun_EndToEnd(t *testing.T) {
	batches := []model.Batch{{
		Name:  "Jane's SDR",
		Sends: []model.Record{sendRecord("Jane Doe", "2025-07-03T09:14:21Z", "jane@ex.com")},
		Opens: []model.Record{openRecord("Jane Doe", "2025-07-03T09:14:25Z", "3", "1")},
	}}
	contacts := []model.Record{contactRecord("jane@ex.com", "ex.com")}

	result, err := New(testConfig()).Run(context.Background(), batches, contacts)
	require.NoError(t, err)

	require.Len(t, result.Successful, 1)
	assert.Empty(t, result.Failed)

	row := result.Successful[0]
	assert.Equal(t, 3, row["Views"])
	assert.Equal(t, 1, row["Clicks"])
	assert.Equal(t, 1, row["Company URL ID"])
	assert.Equal(t, "Jane's SDR", row.String("SDR_Name"))

	assert.Equal(t, 1, result.Stats.TotalSendRecords)
	assert.Equal(t, 1, result.Stats.SendOpenMatched)
	assert.Equal(t, 0, result.Stats.SendOpenFailed)
	assert.Equal(t, 1, result.Stats.ContactMatched)

	require.Len(t, result.SDRStats, 1)
	assert.Equal(t, model.SDRStat{Name: "Jane's SDR", TotalSendRecords: 1, Matched: 1, Failures: 0}, result.SDRStats[0])
}

func TestRun_EmptyBatchList(t *testing.T) {
	_, err := New(testConfig()).Run(context.Background(), nil, []model.Record{contactRecord("a@b.c", "")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no batches")
}

func TestRun_NormalizationFailureIsFatal(t *testing.T) {
	batches := []model.Batch{{
		Name:  "broken",
		Sends: []model.Record{{"recipient_name": "Jane"}}, // missing sent_date, email
		Opens: []model.Record{openRecord("Jane", "2025-07-03T09:14:25Z", "1", "0")},
	}}

	_, err := New(testConfig()).Run(context.Background(), batches, []model.Record{contactRecord("a@b.c", "")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `batch "broken"`)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestRun_MultiBatchIsolationAndOrder(t *testing.T) {
	// The same open timing exists in both batches; consumption must not leak
	// across them — each batch's send matches its own batch's open.
	batches := []model.Batch{
		{
			Name:  "SDR A",
			Sends: []model.Record{sendRecord("Jane", "2025-07-03T09:14:21Z", "jane@ex.com")},
			Opens: []model.Record{openRecord("Jane", "2025-07-03T09:14:23Z", "1", "0")},
		},
		{
			Name:  "SDR B",
			Sends: []model.Record{sendRecord("Jane", "2025-07-03T09:14:21Z", "jane@ex.com")},
			Opens: []model.Record{openRecord("Jane", "2025-07-03T09:14:23Z", "2", "0")},
		},
	}
	contacts := []model.Record{contactRecord("jane@ex.com", "ex.com")}

	result, err := New(testConfig()).Run(context.Background(), batches, contacts)
	require.NoError(t, err)

	require.Len(t, result.Successful, 2)
	assert.Equal(t, "SDR A", result.Successful[0].String("SDR_Name"))
	assert.Equal(t, 1, result.Successful[0]["Views"])
	assert.Equal(t, "SDR B", result.Successful[1].String("SDR_Name"))
	assert.Equal(t, 2, result.Successful[1]["Views"])

	assert.Equal(t, 2, result.Stats.SendOpenMatched)
	assert.Equal(t, 2, result.Stats.TotalSendRecords)
	require.Len(t, result.SDRStats, 2)
	assert.Equal(t, "SDR A", result.SDRStats[0].Name)
	assert.Equal(t, "SDR B", result.SDRStats[1].Name)
}

func TestRun_UnmatchedSendStillMerges(t *testing.T) {
	// No open within the window: the send survives null-filled and still
	// joins against contacts.
	batches := []model.Batch{{
		Name:  "solo",
		Sends: []model.Record{sendRecord("Jane", "2025-07-03T09:14:21Z", "jane@ex.com")},
		Opens: []model.Record{openRecord("Jane", "2025-07-03T10:00:00Z", "5", "0")},
	}}
	contacts := []model.Record{contactRecord("jane@ex.com", "ex.com")}

	result, err := New(testConfig()).Run(context.Background(), batches, contacts)
	require.NoError(t, err)

	require.Len(t, result.Successful, 1)
	assert.Nil(t, result.Successful[0]["Views"])
	assert.Equal(t, 0, result.Stats.SendOpenMatched)
	assert.Equal(t, 1, result.Stats.SendOpenFailed)
	assert.Equal(t, 1, result.Stats.ContactMatched)
}

func TestRun_ContactMissGoesToFailed(t *testing.T) {
	batches := []model.Batch{{
		Name:  "solo",
		Sends: []model.Record{sendRecord("Jane", "2025-07-03T09:14:21Z", "jane@nowhere.com")},
		Opens: []model.Record{openRecord("Jane", "2025-07-03T09:14:22Z", "1", "0")},
	}}
	contacts := []model.Record{contactRecord("someone@else.com", "else.com")}

	result, err := New(testConfig()).Run(context.Background(), batches, contacts)
	require.NoError(t, err)

	assert.Empty(t, result.Successful)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "Send email not found in contacts", result.Failed[0].String("failure_reason"))
	assert.Equal(t, "solo", result.Failed[0].String("SDR_Name"))
}

func TestRun_Idempotence(t *testing.T) {
	build := func() ([]model.Batch, []model.Record) {
		batches := []model.Batch{{
			Name: "solo",
			Sends: []model.Record{
				sendRecord("Jane", "2025-07-03T09:14:21Z", "jane@ex.com"),
				sendRecord("Sam", "2025-07-03T09:20:00Z", "sam@ex.com"),
			},
			Opens: []model.Record{
				openRecord("Jane", "2025-07-03T09:14:25Z", "3", "1"),
				openRecord("Sam", "2025-07-03T09:20:30Z", "2", "0"),
			},
		}}
		contacts := []model.Record{
			contactRecord("jane@ex.com", "ex.com"),
			contactRecord("sam@ex.com", "other.com"),
		}
		return batches, contacts
	}

	p := New(testConfig())

	b1, c1 := build()
	first, err := p.Run(context.Background(), b1, c1)
	require.NoError(t, err)
	b2, c2 := build()
	second, err := p.Run(context.Background(), b2, c2)
	require.NoError(t, err)

	j1, err := json.Marshal(first)
	require.NoError(t, err)
	j2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(j1), string(j2))
}

func TestRun_OutcomesSideChannel(t *testing.T) {
	batches := []model.Batch{{
		Name: "solo",
		Sends: []model.Record{
			sendRecord("Jane", "2025-07-03T09:14:21Z", "jane@ex.com"),
			sendRecord("Sam", "garbage", "sam@ex.com"),
		},
		Opens: []model.Record{openRecord("Jane", "2025-07-03T09:14:25Z", "3", "1")},
	}}
	contacts := []model.Record{contactRecord("jane@ex.com", ""), contactRecord("sam@ex.com", "")}

	result, err := New(testConfig()).Run(context.Background(), batches, contacts)
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 2)
	assert.Equal(t, model.MatchStatusMatched, result.Outcomes[0].Status)
	assert.Equal(t, model.MatchStatusInvalidDate, result.Outcomes[1].Status)
}
