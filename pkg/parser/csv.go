// Package parser reads roster exports into memory. It sniffs the text
// encoding, reads the CSV leniently and groups rows by identity and course
// key. Parsing is a blocking, complete read; rosters are term-sized.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	xerrors "crossreg/pkg/errors"
)

// ParseWarning represents a non-fatal issue encountered during CSV parsing.
type ParseWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Row is one data row of a table together with its 1-indexed line number
// (the header is row 1).
type Row struct {
	Line   int
	Fields []string
}

// Table is a decoded CSV file: the header row plus data rows, each padded or
// truncated to the header width.
type Table struct {
	Headers  []string
	Rows     []Row
	Encoding string
	Warnings []ParseWarning
}

// ReadTable parses CSV bytes into a Table.
// It handles mismatched column counts (pad/truncate), empty files, and
// malformed rows, which are skipped with a warning.
func ReadTable(data []byte) (*Table, error) {
	decoded, enc, err := DetectAndDecode(data)
	if err != nil {
		return nil, xerrors.WrapParse("csv", "", err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	// Allow variable number of fields per record; padding/truncation is handled below.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, xerrors.NewParseError("csv", "", "empty file: no header row found", xerrors.ErrEmpty)
		}
		return nil, xerrors.NewParseError("csv", "", "failed to read header row", err)
	}
	for i, h := range headers {
		headers[i] = cleanHeader(h)
	}

	table := &Table{Headers: headers, Encoding: enc}
	headerCount := len(headers)
	rowNum := 1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++

		if err != nil {
			table.Warnings = append(table.Warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error: %v", err),
			})
			continue
		}

		if len(row) < headerCount {
			table.Warnings = append(table.Warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), headerCount),
			})
			padded := make([]string, headerCount)
			copy(padded, row)
			row = padded
		} else if len(row) > headerCount {
			table.Warnings = append(table.Warnings, ParseWarning{
				Row:     rowNum,
				Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), headerCount),
			})
			row = row[:headerCount]
		}

		table.Rows = append(table.Rows, Row{Line: rowNum, Fields: row})
	}

	if len(table.Rows) == 0 {
		table.Warnings = append(table.Warnings, ParseWarning{Row: 1, Message: "file contains no data rows"})
	}

	return table, nil
}

// cleanHeader trims whitespace and stray BOM characters from a header cell.
func cleanHeader(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}
