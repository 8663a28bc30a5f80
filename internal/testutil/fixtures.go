package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// InputHeader is the header row of a typical input workbook.
var InputHeader = []any{"企业名称", "行业分类代码", "行业分类二级代码", "行业分类三级代码", "全年营业收入", "资产总额", "从业人数"}

// ManufacturingRules is a rule file with one usable section and one that is
// skipped for an out of range match level.
const ManufacturingRules = `
[制造业]
match_level = 1
大型企业 = 从业人数>=1000
中型企业 = 从业人数>=300, 从业人数<1000
小型企业 = 从业人数>=20, 从业人数<300
微型企业 = 从业人数<20

[拼错的段]
match_level = 9
大型企业 = 从业人数>=1
`

// WriteRules writes a rule file named industries_config.ini into dir and
// returns its path.
func WriteRules(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "industries_config.ini")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}
	return path
}

// WriteWorkbook saves rows to Sheet1 of a new workbook at path. The first row
// is written as given, so callers pass the header themselves.
func WriteWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("bad cell for row %d: %v", i+1, err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("failed to write row %d: %v", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save workbook: %v", err)
	}
}

// ReadWorkbook returns every row of the first sheet of the workbook at path.
func ReadWorkbook(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatalf("failed to read workbook: %v", err)
	}
	return rows
}
