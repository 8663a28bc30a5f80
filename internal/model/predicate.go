package model

import (
	"fmt"
	"math"
	"strconv"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
)

// Operator is a numeric comparison.
type Operator string

// Supported comparison operators.
const (
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpLess         Operator = "<"
)

// Operators lists the operators in the order they must be searched for, two
// character forms first so ">=" is never read as ">".
var Operators = []Operator{OpGreaterEqual, OpLessEqual, OpGreater, OpLess}

// Compare applies the operator to v and threshold.
func (o Operator) Compare(v, threshold float64) (bool, error) {
	switch o {
	case OpGreaterEqual:
		return v >= threshold, nil
	case OpLessEqual:
		return v <= threshold, nil
	case OpGreater:
		return v > threshold, nil
	case OpLess:
		return v < threshold, nil
	}
	return false, fmt.Errorf("%w: unsupported operator %q", common.ErrPredicateEval, string(o))
}

// Predicate is a compiled threshold comparison on one numeric field.
type Predicate struct {
	Op        Operator `json:"op"`
	Field     Field    `json:"field"`
	Threshold float64  `json:"threshold"`
}

// Evaluate tests the predicate against a record. Missing and NaN values
// never match and are not errors; only an unsupported operator is.
func (p Predicate) Evaluate(r *Record) (bool, error) {
	v, ok := r.Value(p.Field)
	if !ok || math.IsNaN(v) {
		return false, nil
	}
	return p.Op.Compare(v, p.Threshold)
}

// String renders the predicate in rule file syntax.
func (p Predicate) String() string {
	return p.Field.Column() + string(p.Op) + strconv.FormatFloat(p.Threshold, 'f', -1, 64)
}
