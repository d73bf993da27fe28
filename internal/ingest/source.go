// Package ingest turns exported CSV and XLSX files into record sequences.
// The first row of every source is the header; each subsequent row becomes
// one model.Record keyed by the header names.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-recon/internal/model"
)

// Source yields the parsed records of one exported file.
type Source interface {
	// Name identifies the source in errors and logs (usually the file path).
	Name() string
	// Records parses the source. A source with a header but no data rows is
	// an error: an empty export always indicates a broken upstream export.
	Records(ctx context.Context) ([]model.Record, error)
}

// FileSource returns a Source for path, dispatching on extension.
// ".xlsx" is read as a workbook; everything else is treated as CSV.
func FileSource(path string) Source {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return &xlsxSource{path: path}
	}
	return &csvSource{path: path}
}

// rowsToRecords pairs a header with data rows. Rows shorter than the header
// leave the trailing fields absent; extra cells beyond the header are
// dropped. Fully empty rows are skipped.
func rowsToRecords(name string, header []string, rows [][]string) ([]model.Record, error) {
	if len(header) == 0 {
		return nil, eris.Errorf("ingest: %s: missing header row", name)
	}

	records := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		if emptyRow(row) {
			continue
		}
		rec := make(model.Record, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, eris.Errorf("ingest: %s: no data rows", name)
	}
	return records, nil
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
