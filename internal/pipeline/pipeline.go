// Package pipeline orchestrates the full reconciliation: per-SDR
// normalization and temporal joining, concatenation, contact merging, and
// statistics rollup.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/outreach-recon/internal/config"
	"github.com/sells-group/outreach-recon/internal/join"
	"github.com/sells-group/outreach-recon/internal/merge"
	"github.com/sells-group/outreach-recon/internal/model"
	"github.com/sells-group/outreach-recon/internal/normalize"
)

// Pipeline runs the reconciliation across one or many SDR batches sharing a
// single contacts directory.
type Pipeline struct {
	cfg *config.Config
}

// New creates a Pipeline.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// batchOutput is one batch's intermediate result. Batches are independent:
// open-record consumption never leaks across them, and counters are combined
// by summation at the end rather than shared while matching.
type batchOutput struct {
	rows     []model.Record
	outcomes []model.MatchOutcome
	stat     model.SDRStat
	opens    int
}

// Run executes the pipeline. Fatal conditions (empty batch list, a file
// failing normalization, zero rows to merge) abort the whole run with a
// single descriptive error; per-record match failures never do.
func (p *Pipeline) Run(ctx context.Context, batches []model.Batch, contacts []model.Record) (*model.Result, error) {
	if len(batches) == 0 {
		return nil, eris.New("pipeline: no batches supplied")
	}

	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))
	log.Info("pipeline: starting reconciliation",
		zap.Int("batches", len(batches)),
		zap.Int("contacts", len(contacts)),
	)

	normContacts, err := normalize.Contacts(contacts)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: contacts")
	}

	windows := join.Windows{
		Phase1Max: p.cfg.Match.Phase1MaxSeconds,
		Phase2Max: p.cfg.Match.Phase2MaxSeconds,
	}

	// Process batches concurrently; outputs land at their batch's index so
	// final row order follows the input batch order.
	outputs := make([]*batchOutput, len(batches))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, p.cfg.Pipeline.MaxConcurrentBatches))
	for i, batch := range batches {
		g.Go(func() error {
			if gCtx.Err() != nil {
				return eris.Wrap(gCtx.Err(), "pipeline: cancelled")
			}
			out, batchErr := p.runBatch(batch, windows)
			if batchErr != nil {
				return eris.Wrapf(batchErr, "pipeline: batch %q", batch.Name)
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Concatenate and roll up by explicit summation.
	result := &model.Result{}
	var joined []model.Record
	for _, out := range outputs {
		joined = append(joined, out.rows...)
		result.Outcomes = append(result.Outcomes, out.outcomes...)
		result.SDRStats = append(result.SDRStats, out.stat)
		result.Stats.TotalSendRecords += out.stat.TotalSendRecords
		result.Stats.TotalOpenRecords += out.opens
		result.Stats.SendOpenMatched += out.stat.Matched
		result.Stats.SendOpenFailed += out.stat.Failures
	}
	if len(joined) == 0 {
		return nil, eris.New("pipeline: no successful send-open rows across all batches")
	}

	merged := merge.NewMerger(normContacts).Merge(joined)
	result.Successful = merged.Successful
	result.Failed = merged.Failed
	result.Stats.TotalContactRecords = len(normContacts)
	result.Stats.ContactMatched = len(merged.Successful)
	result.Stats.ContactFailed = len(merged.Failed)
	result.Stats.DuplicateContacts = merged.DuplicateContacts

	log.Info("pipeline: reconciliation complete",
		zap.Int("send_records", result.Stats.TotalSendRecords),
		zap.Int("send_open_matched", result.Stats.SendOpenMatched),
		zap.Int("send_open_failed", result.Stats.SendOpenFailed),
		zap.Int("contact_matched", result.Stats.ContactMatched),
		zap.Int("contact_failed", result.Stats.ContactFailed),
	)
	return result, nil
}

// runBatch normalizes and joins one SDR's pair of exports and tags every
// resulting row with the batch label.
func (p *Pipeline) runBatch(batch model.Batch, windows join.Windows) (*batchOutput, error) {
	sends, err := normalize.Send(batch.Sends, p.cfg.Pipeline.ExcludedDomains)
	if err != nil {
		return nil, err
	}
	opens, err := normalize.Open(batch.Opens)
	if err != nil {
		return nil, err
	}

	joined := join.Match(sends, opens, windows)
	for _, row := range joined.Rows {
		row[model.FieldSDRName] = batch.Name
	}

	zap.L().Info("pipeline: batch reconciled",
		zap.String("sdr", batch.Name),
		zap.Int("send_records", len(sends)),
		zap.Int("matched", joined.Matched),
		zap.Int("failures", joined.Failed),
	)

	return &batchOutput{
		rows:     joined.Rows,
		outcomes: joined.Outcomes,
		opens:    len(opens),
		stat: model.SDRStat{
			Name:             batch.Name,
			TotalSendRecords: len(sends),
			Matched:          joined.Matched,
			Failures:         joined.Failed,
		},
	}, nil
}
