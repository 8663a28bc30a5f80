package engine

import (
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
)

// RuleStat records what one rule did during a pass.
type RuleStat struct {
	Matcher    string
	Level      model.MatchLevel
	Matched    int
	Classified int
}

// Summary describes a completed classification pass.
type Summary struct {
	Counts     map[model.ScaleLevel]int
	Rules      []RuleStat
	Records    int
	EvalErrors int
}

func newSummary(records int) *Summary {
	return &Summary{
		Records: records,
		Counts:  make(map[model.ScaleLevel]int),
	}
}

func (s *Summary) addRule(rule model.IndustryRule, matched, classified, evalErrors int) {
	s.Rules = append(s.Rules, RuleStat{
		Matcher:    rule.Matcher,
		Level:      rule.Level,
		Matched:    matched,
		Classified: classified,
	})
	s.EvalErrors += evalErrors
}

func (s *Summary) countResults(records []*model.Record) {
	for _, rec := range records {
		s.Counts[rec.Result]++
	}
}

// AllUnmatched reports whether no record received a category.
func (s *Summary) AllUnmatched() bool {
	return s.Counts[model.Unmatched] == s.Records
}
