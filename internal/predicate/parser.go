// Package predicate compiles threshold condition text from rule files into
// model.Predicate values.
//
// A condition expression is a comma separated list of clauses of the form
// "field OP value", for example "从业人数>=1000, 全年营业收入>=40000".
// Operators are searched for in the order >=, <=, >, < so two character
// operators are never split.
package predicate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
)

// Parse compiles a full condition expression.
func Parse(expr string) ([]model.Predicate, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("%w: empty condition", common.ErrConditionSyntax)
	}

	clauses := strings.Split(expr, ",")
	preds := make([]model.Predicate, 0, len(clauses))
	for _, clause := range clauses {
		p, err := ParseClause(clause)
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

// ParseClause compiles a single "field OP value" clause.
func ParseClause(clause string) (model.Predicate, error) {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return model.Predicate{}, fmt.Errorf("%w: empty clause", common.ErrConditionSyntax)
	}

	op, idx := findOperator(clause)
	if idx < 0 {
		return model.Predicate{}, fmt.Errorf("%w: no comparison operator in %q", common.ErrConditionSyntax, clause)
	}

	fieldText := strings.TrimSpace(clause[:idx])
	valueText := strings.TrimSpace(clause[idx+len(op):])

	field, err := model.ParseField(fieldText)
	if err != nil {
		return model.Predicate{}, fmt.Errorf("%w: %v in %q", common.ErrConditionSyntax, err, clause)
	}

	threshold, err := strconv.ParseFloat(valueText, 64)
	if err != nil {
		return model.Predicate{}, fmt.Errorf("%w: invalid threshold %q in %q", common.ErrConditionSyntax, valueText, clause)
	}

	return model.Predicate{Field: field, Op: op, Threshold: threshold}, nil
}

// findOperator returns the first operator, by precedence, present in the clause.
func findOperator(clause string) (model.Operator, int) {
	for _, op := range model.Operators {
		if idx := strings.Index(clause, string(op)); idx >= 0 {
			return op, idx
		}
	}
	return "", -1
}

// Format renders predicates back into a condition expression.
func Format(preds []model.Predicate) string {
	parts := make([]string, len(preds))
	for i, p := range preds {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
