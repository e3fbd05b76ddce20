// Package ingest parses uploaded CSV payloads into tabular datasets.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"budget-backend/internal/dataset"
)

// ErrEmptyFile is returned when the payload contains no data at all.
var ErrEmptyFile = errors.New("file is empty")

// ParseCSV reads CSV bytes into a Table. The first record is the header;
// header names are trimmed and lowercased so role resolution downstream is
// case-insensitive. Ragged rows are kept and padded on access.
func ParseCSV(sourceName string, data []byte) (dataset.Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return dataset.Table{}, ErrEmptyFile
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return dataset.Table{}, ErrEmptyFile
		}
		return dataset.Table{}, fmt.Errorf("parse csv header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return dataset.Table{}, fmt.Errorf("parse csv row %d: %w", len(rows)+2, err)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		rows = append(rows, record)
	}

	return dataset.Table{
		SourceName: sourceName,
		Columns:    columns,
		Rows:       rows,
	}, nil
}
