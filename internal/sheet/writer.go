package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
	"github.com/xuri/excelize/v2"
)

const outputSheet = "Sheet1"

// defaultOutputMode applies to new output files. CreateTemp makes files
// owner-only, which would otherwise survive the rename.
const defaultOutputMode os.FileMode = 0o644

// outputMode keeps the permissions of an existing output file.
func outputMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return defaultOutputMode
}

// Write saves the table with its classification column. The file is written
// to a temporary name beside path and renamed into place, so an existing
// output survives any failure.
func Write(path string, t *Table) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".entclass-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		err = writeCSV(tmp, t)
	default:
		err = writeXLSX(tmp, t)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err = os.Chmod(tmpName, outputMode(path)); err != nil {
		return fmt.Errorf("failed to set output file mode: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	slog.Info("Output written", "path", path, "rows", len(t.Rows))
	return nil
}

func writeXLSX(w io.Writer, t *Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sw, err := f.NewStreamWriter(outputSheet)
	if err != nil {
		return err
	}

	header, rows := t.outputRows()
	numeric := make(map[int]bool, len(model.Fields))
	for _, field := range model.Fields {
		if col := t.Column(field.Column()); col >= 0 {
			numeric[col] = true
		}
	}

	if err := sw.SetRow("A1", toCells(header, nil)); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(row, numeric)); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	return f.Write(w)
}

// toCells converts text cells, writing numeric columns as numbers when they
// parse so spreadsheet formulas keep working on the output.
func toCells(row []string, numeric map[int]bool) []any {
	cells := make([]any, len(row))
	for i, v := range row {
		if numeric[i] {
			if n := ParseNumber(v); n != nil {
				cells[i] = *n
				continue
			}
		}
		cells[i] = v
	}
	return cells
}

func writeCSV(w io.Writer, t *Table) error {
	// BOM so spreadsheet applications detect UTF-8.
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}

	header, rows := t.outputRows()
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
