package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-recon/internal/ingest"
	"github.com/sells-group/outreach-recon/internal/model"
	"github.com/sells-group/outreach-recon/internal/validate"
)

// parseBatchSpec splits a --batch value of the form "Name=send.csv:open.csv".
func parseBatchSpec(spec string) (name, sendPath, openPath string, err error) {
	name, files, ok := strings.Cut(spec, "=")
	if !ok {
		return "", "", "", eris.Errorf("invalid --batch %q: expected name=send:open", spec)
	}
	sendPath, openPath, ok = strings.Cut(files, ":")
	if !ok || strings.TrimSpace(sendPath) == "" || strings.TrimSpace(openPath) == "" {
		return "", "", "", eris.Errorf("invalid --batch %q: expected name=send:open", spec)
	}
	return strings.TrimSpace(name), strings.TrimSpace(sendPath), strings.TrimSpace(openPath), nil
}

// loadBatches reads every batch's send and open exports. It also returns the
// send sources so the audit command can recount raw rows afterwards.
func loadBatches(ctx context.Context, specs []string, sendPath, openPath, sdrName string) ([]model.Batch, []validate.BatchSource, error) {
	type entry struct {
		name string
		send string
		open string
	}
	var entries []entry

	switch {
	case len(specs) > 0 && sendPath != "":
		return nil, nil, eris.New("use either --batch or --send/--open, not both")
	case len(specs) > 0:
		for _, spec := range specs {
			name, send, open, err := parseBatchSpec(spec)
			if err != nil {
				return nil, nil, err
			}
			entries = append(entries, entry{name: name, send: send, open: open})
		}
	case sendPath != "" && openPath != "":
		entries = append(entries, entry{name: sdrName, send: sendPath, open: openPath})
	default:
		return nil, nil, eris.New("no batches supplied: pass --batch or --send/--open")
	}

	batches := make([]model.Batch, 0, len(entries))
	sources := make([]validate.BatchSource, 0, len(entries))
	for _, e := range entries {
		sendSrc := ingest.FileSource(e.send)
		sends, err := sendSrc.Records(ctx)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "batch %q: send file", e.name)
		}
		opens, err := ingest.FileSource(e.open).Records(ctx)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "batch %q: open file", e.name)
		}
		batches = append(batches, model.Batch{Name: e.name, Sends: sends, Opens: opens})
		sources = append(sources, validate.BatchSource{Name: e.name, Send: sendSrc})
	}
	return batches, sources, nil
}

// loadContacts reads the shared contacts directory.
func loadContacts(ctx context.Context, path string) ([]model.Record, error) {
	records, err := ingest.FileSource(path).Records(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "contacts file")
	}
	return records, nil
}
