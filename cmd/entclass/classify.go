package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/cli"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/config"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/engine"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/rules"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/sheet"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <input>",
		Short: "Classify the enterprises in a spreadsheet",
		Long: `Classify every row of an .xlsx or .csv sheet by enterprise scale.

The sheet must have the columns 行业分类代码, 行业分类二级代码 and
行业分类三级代码. The numeric columns 全年营业收入, 资产总额 and 从业人数 are
read when present; empty cells never satisfy a condition.

Use --unit Y when revenue and assets are in yuan, WY when they are already in
ten-thousand yuan (the unit the rule thresholds use).

Examples:
  entclass classify enterprises.xlsx --unit Y
  entclass classify enterprises.xlsx --unit WY --output result.xlsx
  entclass classify enterprises.csv --rules ./industries_config.ini --workers 4`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().StringP("unit", "u", "", "unit of revenue and assets: Y (yuan) or WY (ten-thousand yuan), required unless input.unit is configured")
	cmd.Flags().StringP("rules", "r", "", "rule file (default: industries_config.ini next to the program)")
	cmd.Flags().StringP("output", "o", "", "output file (default: 排查结果.xlsx next to the input)")
	cmd.Flags().IntP("workers", "w", 1, "rules evaluated concurrently (0 = number of CPUs)")
	cmd.Flags().Bool("keep-raw-codes", false, "match rules against industry codes as written")
	cmd.Flags().Bool("no-history", false, "do not record this run in the history database")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("input.unit", cmd.Flags().Lookup("unit"))
	_ = viper.BindPFlag("rules.path", cmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("engine.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("input.keep_raw_codes", cmd.Flags().Lookup("keep-raw-codes"))

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(viper.GetViper())
	if err != nil {
		if _, ok := common.UserMessage(err); ok {
			return err
		}
		return common.NewUserError("Invalid settings", err)
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		settings.HistoryEnabled = false
	}

	run, err := classifyFile(cmd.Context(), args[0], settings, cmd.OutOrStdout())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Warn("Classification interrupted, output not written")
		}
		return err
	}

	if settings.HistoryEnabled {
		recordRun(cmd.Context(), settings.HistoryPath, run)
	}
	return nil
}

// classifyFile runs one pass: load rules, read the input, classify, write
// the output. Rules are loaded first so a bad rule file never disturbs an
// existing output file.
func classifyFile(ctx context.Context, input string, settings *config.Settings, out io.Writer) (*model.Run, error) {
	started := time.Now()
	input = config.ExpandPath(input)

	loaded, err := rules.Load(settings.RulesPath)
	if err != nil {
		if errors.Is(err, common.ErrConfigNotFound) {
			return nil, common.NewUserError(
				fmt.Sprintf("Rule file not found; place %s next to the program or pass --rules", rules.DefaultFileName), err)
		}
		return nil, common.NewUserError("Failed to load rule file", err)
	}
	if err := cli.WriteSkipped(out, loaded.Skipped); err != nil {
		return nil, err
	}
	if len(loaded.Rules) == 0 {
		slog.Warn("Rule file contains no usable rules, every record will be unmatched", "path", loaded.Path)
	}

	outputPath := settings.OutputPath
	if outputPath == "" {
		outputPath = sheet.DefaultOutputPath(input)
	}
	if config.SamePath(input, outputPath) {
		return nil, common.NewUserError("Output file must differ from the input file",
			fmt.Errorf("%w: output %s", common.ErrInvalidConfig, outputPath))
	}

	table, err := sheet.Read(input, sheet.ReadOptions{Unit: settings.Unit, KeepRawCodes: settings.KeepRawCodes})
	if err != nil {
		return nil, common.NewUserError("Failed to read input file", err)
	}
	if len(table.Records) == 0 {
		slog.Warn("Input file has no data rows", "path", input, "error", common.ErrNoRecords)
	}

	progress := cli.NewRuleProgress(out, len(loaded.Rules))
	eng := engine.NewWithConfig(loaded.Rules, engine.Config{
		Observer: progress,
		Workers:  settings.Workers,
	})

	summary, err := eng.Classify(ctx, table.Records)
	if err != nil {
		return nil, err
	}
	progress.Finish()

	if err := writeOutput(ctx, outputPath, table); err != nil {
		return nil, err
	}

	if err := cli.WriteSummary(out, summary, outputPath); err != nil {
		return nil, err
	}

	common.LogInfo("Run complete", common.Fields{
		"input":    input,
		"output":   outputPath,
		"records":  summary.Records,
		"duration": time.Since(started).Round(time.Millisecond).String(),
	})

	return &model.Run{
		StartedAt:   started,
		Duration:    time.Since(started),
		InputPath:   input,
		OutputPath:  outputPath,
		RulesPath:   loaded.Path,
		Unit:        settings.Unit,
		RecordCount: summary.Records,
		RuleCount:   len(loaded.Rules),
		Skipped:     len(loaded.Skipped),
		EvalErrors:  summary.EvalErrors,
		Counts:      summary.Counts,
	}, nil
}

// writeOutput writes the classified table unless ctx was canceled after
// classification finished, which keeps an existing output untouched.
func writeOutput(ctx context.Context, path string, table *sheet.Table) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("classification interrupted before writing output: %w", err)
	}
	if err := sheet.Write(path, table); err != nil {
		return common.NewUserError("Failed to write output file", err)
	}
	return nil
}

// recordRun stores a run in the history database. Failures are logged only;
// the output file is already written.
func recordRun(ctx context.Context, dbPath string, run *model.Run) {
	store, err := openHistory(ctx, dbPath)
	if err != nil {
		common.LogWarn(err, "Failed to open run history", common.Fields{"path": dbPath})
		return
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			common.LogError(closeErr, "Failed to close database", common.Fields{"path": store.Path()})
		}
	}()

	if err := store.SaveRun(ctx, run); err != nil {
		common.LogWarn(err, "Failed to record run", common.Fields{"path": store.Path()})
		return
	}
	common.LogDebug("Run recorded", common.Fields{"id": run.ID, "path": store.Path()})
}

// openHistory opens the history database and brings its schema up to date.
func openHistory(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
