package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/outreach-recon/internal/model"
)

type csvSource struct {
	path string
}

func (s *csvSource) Name() string { return s.path }

func (s *csvSource) Records(ctx context.Context) ([]model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: open csv")
	}
	defer f.Close()
	return ReadCSV(ctx, s.path, f)
}

// ReadCSV parses CSV text into records. Field counts may vary per row;
// fields are whitespace-trimmed.
func ReadCSV(ctx context.Context, name string, r io.Reader) ([]model.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	var header []string
	var rows [][]string
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "ingest: csv read cancelled")
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: %s: read row", name)
		}

		for i, field := range row {
			row[i] = strings.TrimSpace(field)
		}

		if header == nil {
			header = row
			continue
		}
		rows = append(rows, row)
	}

	if header == nil {
		return nil, eris.Errorf("ingest: %s: empty file", name)
	}
	return rowsToRecords(name, header, rows)
}

// ReaderSource wraps an already-open reader as a Source, for callers that
// hold CSV text rather than a path.
func ReaderSource(name string, r io.Reader) Source {
	return &readerSource{name: name, r: r}
}

type readerSource struct {
	name string
	r    io.Reader
}

func (s *readerSource) Name() string { return s.name }

func (s *readerSource) Records(ctx context.Context) ([]model.Record, error) {
	return ReadCSV(ctx, s.name, s.r)
}
