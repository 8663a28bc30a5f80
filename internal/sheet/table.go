// Package sheet reads enterprise records from spreadsheets and writes the
// classified rows back out.
//
// Supported formats are .xlsx (via excelize) and .csv. The first row is the
// header; columns are located by name.
package sheet

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
)

// ResultColumn is the header of the appended classification column.
const ResultColumn = "排查结果"

// DefaultOutputName is the output file written beside the input by default.
const DefaultOutputName = "排查结果.xlsx"

// codeNoise matches the characters stripped from industry code cells,
// leaving only the industry name fragments rules match on.
var codeNoise = regexp.MustCompile(`[A-Z0-9\s]`)

// ReadOptions controls how cells become records.
type ReadOptions struct {
	// Unit of the monetary columns. Yuan values are scaled to ten-thousand yuan.
	Unit model.Unit
	// KeepRawCodes disables code normalisation.
	KeepRawCodes bool
}

// Table is a loaded spreadsheet. Rows keep the original cell text so output
// has the same shape as the input.
type Table struct {
	Header  []string
	Rows    [][]string
	Records []*model.Record
	columns map[string]int
}

// Column returns the index of a header, or -1.
func (t *Table) Column(name string) int {
	if idx, ok := t.columns[name]; ok {
		return idx
	}
	return -1
}

// NormalizeCode strips upper-case ASCII letters, digits and whitespace.
func NormalizeCode(s string) string {
	return codeNoise.ReplaceAllString(s, "")
}

// ParseNumber leniently parses a numeric cell. Empty, unparsable and
// non-finite values yield nil.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "\u3000", "")
	s = strings.ReplaceAll(s, "\uff0c", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// DefaultOutputPath returns the default output location for an input file.
func DefaultOutputPath(input string) string {
	return filepath.Join(filepath.Dir(input), DefaultOutputName)
}

// newTable builds records from raw header and rows.
func newTable(header []string, rows [][]string, opts ReadOptions) (*Table, error) {
	if opts.Unit == "" {
		opts.Unit = model.UnitTenThousandYuan
	}

	t := &Table{
		Header:  make([]string, len(header)),
		columns: make(map[string]int, len(header)),
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Header[i] = h
		if _, dup := t.columns[h]; !dup {
			t.columns[h] = i
		}
	}

	var missing []string
	for _, level := range model.MatchLevels {
		if t.Column(level.Column()) < 0 {
			missing = append(missing, level.Column())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, strings.Join(missing, ", "))
	}

	t.Rows = make([][]string, len(rows))
	t.Records = make([]*model.Record, len(rows))
	for i, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		t.Rows[i] = row
		t.Records[i] = t.record(i, row, opts)
	}

	return t, nil
}

func (t *Table) record(i int, row []string, opts ReadOptions) *model.Record {
	rec := &model.Record{
		// Header is row 1.
		Row:    i + 2,
		Codes:  make(map[model.MatchLevel]string, len(model.MatchLevels)),
		Result: model.Unmatched,
	}

	for _, level := range model.MatchLevels {
		code := strings.TrimSpace(row[t.Column(level.Column())])
		if !opts.KeepRawCodes {
			code = NormalizeCode(code)
		}
		rec.Codes[level] = code
	}

	for _, field := range model.Fields {
		col := t.Column(field.Column())
		if col < 0 {
			continue
		}
		v := ParseNumber(row[col])
		if v != nil && field.Monetary() {
			scaled := opts.Unit.Scale(*v)
			v = &scaled
		}
		rec.SetValue(field, v)
	}

	return rec
}

// outputRows returns header and rows with the classification column filled in.
func (t *Table) outputRows() ([]string, [][]string) {
	resultCol := t.Column(ResultColumn)
	header := t.Header
	if resultCol < 0 {
		resultCol = len(t.Header)
		header = append(append([]string{}, t.Header...), ResultColumn)
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out := make([]string, len(header))
		copy(out, row)
		label := model.Unmatched.Label()
		if i < len(t.Records) {
			label = t.Records[i].Result.Label()
		}
		out[resultCol] = label
		rows[i] = out
	}
	return header, rows
}
