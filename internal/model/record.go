package model

import (
	"fmt"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
)

// MatchLevel selects which industry code hierarchy a rule matches against.
type MatchLevel int

// Industry code hierarchy levels.
const (
	MatchLevelPrimary   MatchLevel = 1
	MatchLevelSecondary MatchLevel = 2
	MatchLevelTertiary  MatchLevel = 3
)

// MatchLevels lists the hierarchy levels in order.
var MatchLevels = []MatchLevel{MatchLevelPrimary, MatchLevelSecondary, MatchLevelTertiary}

// Valid reports whether l is 1, 2 or 3.
func (l MatchLevel) Valid() bool {
	return l >= MatchLevelPrimary && l <= MatchLevelTertiary
}

// Column returns the spreadsheet column header holding codes for the level.
func (l MatchLevel) Column() string {
	switch l {
	case MatchLevelPrimary:
		return "行业分类代码"
	case MatchLevelSecondary:
		return "行业分类二级代码"
	case MatchLevelTertiary:
		return "行业分类三级代码"
	}
	return ""
}

// ParseMatchLevel validates an integer match level.
func ParseMatchLevel(n int) (MatchLevel, error) {
	l := MatchLevel(n)
	if !l.Valid() {
		return 0, fmt.Errorf("%w: %d (expected 1, 2 or 3)", common.ErrInvalidMatchLevel, n)
	}
	return l, nil
}

// Record is one enterprise row.
type Record struct {
	Codes         map[MatchLevel]string `json:"codes"`
	AnnualRevenue *float64              `json:"annual_revenue,omitempty"`
	TotalAssets   *float64              `json:"total_assets,omitempty"`
	EmployeeCount *float64              `json:"employee_count,omitempty"`
	Row           int                   `json:"row"`
	Result        ScaleLevel            `json:"result"`
}

// Code returns the industry code for the level. ok is false when the input
// had no column for that level.
func (r *Record) Code(level MatchLevel) (code string, ok bool) {
	code, ok = r.Codes[level]
	return code, ok
}

// Value returns the numeric value of a field. ok is false when it is missing.
func (r *Record) Value(f Field) (float64, bool) {
	var p *float64
	switch f {
	case AnnualRevenue:
		p = r.AnnualRevenue
	case TotalAssets:
		p = r.TotalAssets
	case EmployeeCount:
		p = r.EmployeeCount
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// SetValue assigns a numeric field. A nil value clears it.
func (r *Record) SetValue(f Field, v *float64) {
	switch f {
	case AnnualRevenue:
		r.AnnualRevenue = v
	case TotalAssets:
		r.TotalAssets = v
	case EmployeeCount:
		r.EmployeeCount = v
	}
}
