package engine

import (
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
)

// Observer is notified as each industry rule is applied. Calls happen in rule
// order from the goroutine running Classify.
type Observer interface {
	RuleApplied(rule model.IndustryRule, matched, classified int)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(rule model.IndustryRule, matched, classified int)

// RuleApplied calls f.
func (f ObserverFunc) RuleApplied(rule model.IndustryRule, matched, classified int) {
	f(rule, matched, classified)
}
