// Package loader turns tabular match exports (CSV or XLSX) into typed observations.
// Parsing is strict: the first malformed row aborts the load.
package loader

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-ck-metrics/internal/model"
)

// IOError reports an unreadable input source.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// ParseError identifies the row and column that failed schema validation.
// Row is the 1-based source line (sheet row for XLSX); the header is row 1.
type ParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %s (%q): %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	ErrUnknownTeam   = errors.New("team not in roster")
	ErrColumnCount   = errors.New("wrong column count")
	ErrMissingColumn = errors.New("required column missing from header")
	ErrBadFixture    = errors.New("fixture label must be \"<team> vs <team>\"")
	ErrNegative      = errors.New("value must not be negative")
)

// Options controls how a source is read.
type Options struct {
	Roster *model.Roster
	// Sheet selects the worksheet for .xlsx sources; empty means the first sheet.
	Sheet string
}

// Table is the raw content of a source after the header has been located.
type Table struct {
	Path   string
	Hash   string // sha256 of the source bytes
	Header []string
	Rows   [][]string
	// Lines holds the 1-based source line each row starts on. When nil, rows are
	// assumed to follow the header one per line.
	Lines []int
}

// Line returns the source line of row i.
func (t *Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// ReadTable reads path as CSV or XLSX, chosen by extension.
func ReadTable(path, sheet string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	sum := sha256.Sum256(data)

	var (
		records [][]string
		lines   []int
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(data, sheet)
		lines = make([]int, len(records))
		for i := range lines {
			lines[i] = i + 1
		}
	default:
		records, lines, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &ParseError{Row: 1, Err: errors.New("empty input: header row required")}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	slog.Debug("read table", slog.String("path", path), slog.Int("rows", len(records)-1))
	return &Table{
		Path:   path,
		Hash:   fmt.Sprintf("%x", sum[:]),
		Header: header,
		Rows:   records[1:],
		Lines:  lines[1:],
	}, nil
}

// readCSV returns the records and the line each one starts on. Blank lines are
// skipped by the reader and quoted fields may span lines, so the two can diverge.
func readCSV(data []byte) ([][]string, []int, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1 // column count is checked per row so the error names the row
	r.TrimLeadingSpace = true

	var (
		out   [][]string
		lines []int
	)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, nil, &ParseError{Row: pe.StartLine, Err: pe.Err}
			}
			return nil, nil, &ParseError{Row: len(out) + 1, Err: err}
		}
		line, _ := r.FieldPos(0)
		out = append(out, rec)
		lines = append(lines, line)
	}
	return out, lines, nil
}

func readXLSX(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Row: 1, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &ParseError{Row: 1, Err: errors.New("workbook has no sheets")}
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Row: 1, Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return rows, nil
	}
	// GetRows drops trailing empty cells; pad so empty values surface as parse errors on
	// the right column instead of a column-count mismatch.
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows, nil
}

// columns maps required header names to their indices.
type columns map[string]int

func locate(header []string, required []string) (columns, error) {
	idx := make(columns, len(required))
	for i, h := range header {
		idx[h] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, &ParseError{Row: 1, Column: name, Err: ErrMissingColumn}
		}
	}
	return idx, nil
}

// rowReader wraps one record with the error context of its line.
type rowReader struct {
	line   int
	width  int
	cols   columns
	record []string
	roster *model.Roster
}

func (r *rowReader) cell(name string) string {
	return strings.TrimSpace(r.record[r.cols[name]])
}

func (r *rowReader) fail(name string, err error) error {
	return &ParseError{Row: r.line, Column: name, Value: r.cell(name), Err: err}
}

func (r *rowReader) checkWidth() error {
	if len(r.record) != r.width {
		return &ParseError{
			Row: r.line,
			Err: fmt.Errorf("%w: want %d, got %d", ErrColumnCount, r.width, len(r.record)),
		}
	}
	return nil
}

func (r *rowReader) team(name string) (model.Team, error) {
	t, ok := r.roster.Lookup(r.cell(name))
	if !ok {
		return "", r.fail(name, ErrUnknownTeam)
	}
	return t, nil
}

func (r *rowReader) fixture(name string) (model.Fixture, error) {
	f, err := ParseFixture(r.cell(name), r.roster)
	if err != nil {
		return model.Fixture{}, r.fail(name, err)
	}
	return f, nil
}
