// Package engine implements the enterprise scale classification engine.
//
// Rules are applied in load order. For each rule the records whose industry
// code contains the rule's matcher are evaluated against every category; the
// best qualifying category is chosen, downgraded one rank when more than one
// category qualified, and stored only if it beats the record's current result.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
	"golang.org/x/sync/errgroup"
)

// ClassificationEngine applies industry rules to records.
type ClassificationEngine struct {
	observer Observer
	rules    []model.IndustryRule
	workers  int
}

// Config holds configuration options for the classification engine.
type Config struct {
	// Observer, if set, is called after each rule has been merged.
	Observer Observer
	// Workers is the number of rules evaluated concurrently. Merging is
	// always sequential in rule order.
	Workers int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Workers: 1}
}

// New creates a new classification engine for the given rules.
func New(rules []model.IndustryRule) *ClassificationEngine {
	return NewWithConfig(rules, DefaultConfig())
}

// NewWithConfig creates a new classification engine with custom configuration.
func NewWithConfig(rules []model.IndustryRule, config Config) *ClassificationEngine {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &ClassificationEngine{
		rules:    rules,
		workers:  config.Workers,
		observer: config.Observer,
	}
}

// ruleOutcome is the result of evaluating one rule, before merging.
type ruleOutcome struct {
	// selections maps record index to the category chosen by this rule.
	selections map[int]model.ScaleLevel
	matched    int
	evalErrors int
}

// Classify annotates records in place and returns a summary of the pass.
func (e *ClassificationEngine) Classify(ctx context.Context, records []*model.Record) (*Summary, error) {
	summary := newSummary(len(records))
	if len(records) == 0 {
		slog.Info("No records to classify")
		return summary, nil
	}

	slog.Info("Starting classification", "records", len(records), "rules", len(e.rules), "workers", e.workers)

	var err error
	if e.workers > 1 && len(e.rules) > 1 {
		err = e.classifyParallel(ctx, records, summary)
	} else {
		err = e.classifySequential(ctx, records, summary)
	}
	if err != nil {
		return nil, err
	}

	summary.countResults(records)
	slog.Info("Classification complete", "records", len(records), "unmatched", summary.Counts[model.Unmatched])
	return summary, nil
}

func (e *ClassificationEngine) classifySequential(ctx context.Context, records []*model.Record, summary *Summary) error {
	for _, rule := range e.rules {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("classification interrupted: %w", err)
		}
		e.merge(rule, e.evaluateRule(rule, records), records, summary)
	}
	return nil
}

// classifyParallel evaluates rules concurrently. Evaluation only reads codes
// and numeric fields, so it is safe to share records; results are written
// during the sequential merge.
func (e *ClassificationEngine) classifyParallel(ctx context.Context, records []*model.Record, summary *Summary) error {
	outcomes := make([]ruleOutcome, len(e.rules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, rule := range e.rules {
		i, rule := i, rule
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.evaluateRule(rule, records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("classification interrupted: %w", err)
	}

	for i, rule := range e.rules {
		e.merge(rule, outcomes[i], records, summary)
	}
	return nil
}

func (e *ClassificationEngine) evaluateRule(rule model.IndustryRule, records []*model.Record) ruleOutcome {
	out := ruleOutcome{selections: make(map[int]model.ScaleLevel)}

	for i, rec := range records {
		if !rule.Matches(rec) {
			continue
		}
		out.matched++

		candidates := make([]model.ScaleLevel, 0, len(rule.Categories))
		for _, category := range rule.Categories {
			ok, err := category.Evaluate(rec)
			if err != nil {
				out.evalErrors++
				common.LogWarn(err, "Condition evaluation failed", common.Fields{
					"industry": rule.Matcher,
					"category": category.Level.Label(),
					"row":      rec.Row,
				})
				continue
			}
			if ok {
				candidates = append(candidates, category.Level)
			}
		}

		if selected, ok := Resolve(candidates); ok {
			out.selections[i] = selected
		}
	}

	return out
}

// merge applies a rule's selections, keeping only improvements.
func (e *ClassificationEngine) merge(rule model.IndustryRule, out ruleOutcome, records []*model.Record, summary *Summary) {
	classified := 0
	for i, selected := range out.selections {
		rec := records[i]
		if rec.Result == model.Unmatched || selected.Outranks(rec.Result) {
			rec.Result = selected
			classified++
		}
	}

	slog.Debug("Industry rule applied",
		"industry", rule.Matcher,
		"match_level", int(rule.Level),
		"matched", out.matched,
		"classified", classified)

	summary.addRule(rule, out.matched, classified, out.evalErrors)
	if e.observer != nil {
		e.observer.RuleApplied(rule, out.matched, classified)
	}
}

// Resolve picks the category a single rule assigns from the categories a
// record qualified for. The best candidate wins, but when several qualified
// the result is one rank worse, never below MicroEnterprise. ok is false when
// there are no valid candidates.
func Resolve(candidates []model.ScaleLevel) (level model.ScaleLevel, ok bool) {
	best := model.Unmatched
	distinct := make(map[model.ScaleLevel]struct{}, len(candidates))
	for _, c := range candidates {
		if !c.Valid() {
			continue
		}
		distinct[c] = struct{}{}
		if c.Outranks(best) {
			best = c
		}
	}

	switch len(distinct) {
	case 0:
		return model.Unmatched, false
	case 1:
		return best, true
	default:
		return best.Downgrade(), true
	}
}
