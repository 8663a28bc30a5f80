package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/config"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/sheet"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInput(t *testing.T, path string) {
	t.Helper()
	testutil.WriteWorkbook(t, path, [][]any{
		testutil.InputHeader,
		{"甲", "C 制造业", "C13农副食品加工业", "C131谷物磨制", 90000000, 10000000, 1200},
		{"乙", "C 制造业", "C14食品制造业", "C141焙烤食品制造", 30000000, 5000000, 500},
		{"丙", "C 制造业", "C15酒、饮料和精制茶制造业", "C151酒的制造", 1000000, 200000, 5},
		{"丁", "C 制造业", "C17纺织业", "C171棉纺织及印染精加工", "", "", ""},
		{"戊", "F 批发和零售业", "F51批发业", "F511农、林、牧产品批发", 1000000, 200000, 5},
	})
}

func testSettings(dir string) *config.Settings {
	return &config.Settings{
		RulesPath:   filepath.Join(dir, "industries_config.ini"),
		HistoryPath: filepath.Join(dir, "history.db"),
		Unit:        model.UnitYuan,
		Workers:     1,
	}
}

func resultColumn(t *testing.T, path string) []string {
	t.Helper()
	rows := testutil.ReadWorkbook(t, path)
	require.NotEmpty(t, rows)

	col := -1
	for i, h := range rows[0] {
		if h == sheet.ResultColumn {
			col = i
		}
	}
	require.GreaterOrEqual(t, col, 0, "result column missing")

	var out []string
	for _, row := range rows[1:] {
		if col < len(row) {
			out = append(out, row[col])
		} else {
			out = append(out, "")
		}
	}
	return out
}

func TestClassifyFile(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			dir := t.TempDir()
			settings := testSettings(dir)
			settings.Workers = workers
			testutil.WriteRules(t, dir, testutil.ManufacturingRules)
			input := filepath.Join(dir, "enterprises.xlsx")
			writeInput(t, input)

			var out bytes.Buffer
			run, err := classifyFile(context.Background(), input, settings, &out)
			require.NoError(t, err)

			output := filepath.Join(dir, sheet.DefaultOutputName)
			assert.Equal(t, output, run.OutputPath)
			assert.Equal(t, []string{"大型企业", "中型企业", "微型企业", "未匹配", "未匹配"}, resultColumn(t, output))

			assert.Equal(t, 5, run.RecordCount)
			assert.Equal(t, 1, run.RuleCount)
			assert.Equal(t, 1, run.Skipped)
			assert.Equal(t, 2, run.Counts[model.Unmatched])
			assert.Equal(t, 1, run.Counts[model.LargeEnterprise])
			assert.Contains(t, out.String(), "section [拼错的段]")
			assert.Contains(t, out.String(), "Classification Complete")
		})
	}
}

func TestClassifyFile_MissingRulesKeepsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	settings := testSettings(dir)
	input := filepath.Join(dir, "enterprises.xlsx")
	writeInput(t, input)

	output := filepath.Join(dir, sheet.DefaultOutputName)
	require.NoError(t, os.WriteFile(output, []byte("previous result"), 0600))

	_, err := classifyFile(context.Background(), input, settings, &bytes.Buffer{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrConfigNotFound)

	msg, ok := common.UserMessage(err)
	require.True(t, ok)
	assert.Contains(t, msg, "industries_config.ini")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous result", string(data))
}

func TestClassifyFile_AllUnmatchedPrintsHints(t *testing.T) {
	dir := t.TempDir()
	settings := testSettings(dir)
	testutil.WriteRules(t, dir, "[采矿业]\nmatch_level = 1\n大型企业 = 从业人数>=1\n")
	input := filepath.Join(dir, "enterprises.xlsx")
	writeInput(t, input)

	var out bytes.Buffer
	run, err := classifyFile(context.Background(), input, settings, &out)
	require.NoError(t, err)
	assert.Equal(t, 5, run.Counts[model.Unmatched])
	assert.Contains(t, out.String(), "No enterprise was classified")
}

func TestClassifyFile_Errors(t *testing.T) {
	dir := t.TempDir()
	settings := testSettings(dir)
	testutil.WriteRules(t, dir, testutil.ManufacturingRules)
	input := filepath.Join(dir, "enterprises.xlsx")
	writeInput(t, input)

	t.Run("output equals input", func(t *testing.T) {
		s := *settings
		s.OutputPath = input
		_, err := classifyFile(context.Background(), input, &s, &bytes.Buffer{})
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("xls input", func(t *testing.T) {
		legacy := filepath.Join(dir, "old.xls")
		require.NoError(t, os.WriteFile(legacy, []byte("x"), 0600))
		_, err := classifyFile(context.Background(), legacy, settings, &bytes.Buffer{})
		assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		s := *settings
		s.OutputPath = filepath.Join(dir, "canceled.xlsx")
		_, err := classifyFile(ctx, input, &s, &bytes.Buffer{})
		assert.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, s.OutputPath)
	})
}

func TestWriteOutput_CanceledKeepsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "enterprises.xlsx")
	writeInput(t, input)
	table, err := sheet.Read(input, sheet.ReadOptions{Unit: model.UnitYuan})
	require.NoError(t, err)

	output := filepath.Join(dir, sheet.DefaultOutputName)
	require.NoError(t, os.WriteFile(output, []byte("previous result"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = writeOutput(ctx, output, table)
	require.ErrorIs(t, err, context.Canceled)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous result", string(data))

	require.NoError(t, writeOutput(context.Background(), output, table))
	assert.Len(t, resultColumn(t, output), 5)
}

func TestRecordRun(t *testing.T) {
	dir := t.TempDir()
	settings := testSettings(dir)
	testutil.WriteRules(t, dir, testutil.ManufacturingRules)
	input := filepath.Join(dir, "enterprises.xlsx")
	writeInput(t, input)

	ctx := context.Background()
	run, err := classifyFile(ctx, input, settings, &bytes.Buffer{})
	require.NoError(t, err)
	recordRun(ctx, settings.HistoryPath, run)

	store := testutil.OpenHistoryDB(t, settings.HistoryPath)
	runs, err := store.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, input, runs[0].InputPath)
	assert.Equal(t, 2, runs[0].Counts[model.Unmatched])
}
