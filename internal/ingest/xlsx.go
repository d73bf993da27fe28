package ingest

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/outreach-recon/internal/model"
)

type xlsxSource struct {
	path string
}

func (s *xlsxSource) Name() string { return s.path }

// Records reads the first sheet of the workbook; the first row is the header.
func (s *xlsxSource) Records(ctx context.Context) ([]model.Record, error) {
	if ctx.Err() != nil {
		return nil, eris.Wrap(ctx.Err(), "ingest: xlsx read cancelled")
	}

	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s: workbook has no sheets", s.path)
	}
	sheet := f.Sheets[0]

	var header []string
	var rows [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = strings.TrimSpace(cell.String())
		}
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}

	if header == nil {
		return nil, eris.Errorf("ingest: %s: empty file", s.path)
	}
	return rowsToRecords(s.path, header, rows)
}
