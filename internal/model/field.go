package model

import (
	"fmt"
	"strings"
)

// Field identifies a numeric attribute of a Record.
type Field int

// Numeric record fields.
const (
	AnnualRevenue Field = iota + 1
	TotalAssets
	EmployeeCount
)

// Fields lists all numeric fields in column order.
var Fields = []Field{AnnualRevenue, TotalAssets, EmployeeCount}

// Column returns the spreadsheet column header for the field.
func (f Field) Column() string {
	switch f {
	case AnnualRevenue:
		return "全年营业收入"
	case TotalAssets:
		return "资产总额"
	case EmployeeCount:
		return "从业人数"
	}
	return ""
}

func (f Field) String() string {
	switch f {
	case AnnualRevenue:
		return "annualRevenue"
	case TotalAssets:
		return "totalAssets"
	case EmployeeCount:
		return "employeeCount"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Monetary reports whether the field is a currency amount subject to unit scaling.
func (f Field) Monetary() bool {
	return f == AnnualRevenue || f == TotalAssets
}

// ParseField resolves a field from its column header or English name.
func ParseField(name string) (Field, error) {
	name = strings.TrimSpace(name)
	for _, f := range Fields {
		if name == f.Column() || strings.EqualFold(name, f.String()) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", name)
}
