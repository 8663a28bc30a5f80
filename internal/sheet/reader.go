package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/xuri/excelize/v2"
)

// Read loads the first worksheet of an .xlsx file, or a .csv file.
func Read(path string, opts ReadOptions) (*Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("input file %s does not exist: %w", path, err)
		}
		return nil, fmt.Errorf("failed to stat input file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not an input file", path)
	}

	var header []string
	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		header, rows, err = readXLSX(path)
	case ".csv":
		header, rows, err = readCSV(path)
	case ".xls":
		return nil, fmt.Errorf("%w: %s (save the workbook as .xlsx)", common.ErrUnsupportedFormat, ext)
	default:
		return nil, fmt.Errorf("%w: %q (expected .xlsx or .csv)", common.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	table, err := newTable(header, rows, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	slog.Info("Loaded input file", "path", path, "rows", len(table.Records), "unit", string(opts.Unit))
	return table, nil
}

func readXLSX(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("Failed to close workbook", "path", path, "error", closeErr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, errors.New("workbook has no worksheets")
	}

	all, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read worksheet %q: %w", sheets[0], err)
	}
	return splitHeader(all)
}

func readCSV(path string) ([]string, [][]string, error) {
	file, err := os.Open(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = file.Close() }()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var all [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		all = append(all, row)
	}
	return splitHeader(all)
}

func splitHeader(all [][]string) ([]string, [][]string, error) {
	if len(all) == 0 {
		return nil, nil, errors.New("file is empty")
	}
	return all[0], all[1:], nil
}
