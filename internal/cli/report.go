package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/engine"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/predicate"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/rules"
)

// UnmatchedHints are shown when no record could be classified.
var UnmatchedHints = []string{
	"Check that " + rules.DefaultFileName + " exists and its sections are valid",
	"Check that the industry code columns contain the industry names used as section names",
	"Check that the revenue, assets and employee columns hold numbers",
}

// ConditionSyntaxHint explains why a single bad condition drops an industry.
const ConditionSyntaxHint = "A condition error skips its whole industry section; fix the field name or threshold to restore it"

// WriteSummary prints the result counts of a classification pass.
func WriteSummary(w io.Writer, summary *engine.Summary, outputPath string) error {
	var b strings.Builder

	rows := make([][]string, 0, len(model.ScaleLevels)+1)
	for _, level := range append(append([]model.ScaleLevel{}, model.ScaleLevels...), model.Unmatched) {
		rows = append(rows, []string{level.Label(), strconv.Itoa(summary.Counts[level])})
	}
	b.WriteString(RenderTable([]string{"Result", "Records"}, rows))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  • Records: %d\n", summary.Records)
	fmt.Fprintf(&b, "  • Rules applied: %d\n", len(summary.Rules))
	if summary.EvalErrors > 0 {
		fmt.Fprintf(&b, "  • Condition errors: %d (treated as not matching)\n", summary.EvalErrors)
	}
	fmt.Fprintf(&b, "  • Output: %s", outputPath)

	if _, err := fmt.Fprintln(w, RenderBox(ChartIcon+" Classification Complete", b.String())); err != nil {
		return err
	}

	if summary.Records > 0 && summary.AllUnmatched() {
		if _, err := fmt.Fprintln(w, FormatWarning("No enterprise was classified.")); err != nil {
			return err
		}
		for i, hint := range UnmatchedHints {
			if _, err := fmt.Fprintf(w, "  %d. %s\n", i+1, hint); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSkipped lists rule file sections that were not loaded.
func WriteSkipped(w io.Writer, skipped []*rules.SectionError) error {
	for _, s := range skipped {
		if _, err := fmt.Fprintln(w, FormatWarning(s.Error())); err != nil {
			return err
		}
	}
	return nil
}

// WriteRules prints every loaded rule with its categories.
func WriteRules(w io.Writer, result *rules.LoadResult) error {
	var rows [][]string
	for _, rule := range result.Rules {
		if len(rule.Categories) == 0 {
			rows = append(rows, []string{rule.Matcher, strconv.Itoa(int(rule.Level)), "-", "-", ""})
			continue
		}
		for _, c := range rule.Categories {
			rows = append(rows, []string{
				rule.Matcher,
				strconv.Itoa(int(rule.Level)),
				c.Level.Label(),
				c.Kind.String(),
				predicate.Format(c.Predicates),
			})
		}
	}

	out := RenderTable([]string{"Industry", "Level", "Category", "Match", "Conditions"}, rows)
	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, FormatSuccess(fmt.Sprintf("%d rules loaded from %s", len(result.Rules), result.Path))); err != nil {
		return err
	}
	if err := WriteSkipped(w, result.Skipped); err != nil {
		return err
	}

	for _, s := range result.Skipped {
		if errors.Is(s, common.ErrConditionSyntax) {
			_, err := fmt.Fprintln(w, FormatInfo(ConditionSyntaxHint))
			return err
		}
	}
	return nil
}

// WriteRuns prints run history, newest first.
func WriteRuns(w io.Writer, runs []model.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No runs recorded yet."))
		return err
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		classified := run.RecordCount - run.Counts[model.Unmatched]
		rows = append(rows, []string{
			strconv.FormatInt(run.ID, 10),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.InputPath,
			string(run.Unit),
			strconv.Itoa(run.RecordCount),
			strconv.Itoa(classified),
			strconv.Itoa(run.RuleCount),
			strconv.Itoa(run.Skipped),
		})
	}
	_, err := fmt.Fprintln(w, RenderTable(
		[]string{"ID", "Started", "Input", "Unit", "Records", "Classified", "Rules", "Skipped"}, rows))
	return err
}
