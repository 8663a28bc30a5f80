// Package model defines the core data structures for the classification tool.
package model

import (
	"fmt"
	"strings"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
)

// ScaleLevel is an enterprise size category. Higher values rank better.
type ScaleLevel int

// Scale level constants, ordered from worst to best.
const (
	Unmatched ScaleLevel = iota
	MicroEnterprise
	SmallEnterprise
	MediumEnterprise
	LargeEnterprise
)

// ScaleLevels lists the classifiable levels from best to worst.
var ScaleLevels = []ScaleLevel{LargeEnterprise, MediumEnterprise, SmallEnterprise, MicroEnterprise}

var scaleNames = map[ScaleLevel]string{
	Unmatched:        "Unmatched",
	MicroEnterprise:  "MicroEnterprise",
	SmallEnterprise:  "SmallEnterprise",
	MediumEnterprise: "MediumEnterprise",
	LargeEnterprise:  "LargeEnterprise",
}

var scaleLabels = map[ScaleLevel]string{
	Unmatched:        "未匹配",
	MicroEnterprise:  "微型企业",
	SmallEnterprise:  "小型企业",
	MediumEnterprise: "中型企业",
	LargeEnterprise:  "大型企业",
}

// String returns the English name of the level.
func (s ScaleLevel) String() string {
	if name, ok := scaleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("ScaleLevel(%d)", int(s))
}

// Label returns the label written to spreadsheets and used in rule files.
func (s ScaleLevel) Label() string {
	if label, ok := scaleLabels[s]; ok {
		return label
	}
	return s.String()
}

// Valid reports whether s is one of the four classifiable levels.
func (s ScaleLevel) Valid() bool {
	return s >= MicroEnterprise && s <= LargeEnterprise
}

// Outranks reports whether s is strictly better than other.
func (s ScaleLevel) Outranks(other ScaleLevel) bool {
	return s > other
}

// Downgrade returns the level one rank worse than s. MicroEnterprise stays put.
func (s ScaleLevel) Downgrade() ScaleLevel {
	if s <= MicroEnterprise {
		return s
	}
	return s - 1
}

// ParseScaleLevel resolves a category name from a rule file. Both the
// spreadsheet label and the English name are accepted.
func ParseScaleLevel(name string) (ScaleLevel, error) {
	name = strings.TrimSpace(name)
	for _, level := range ScaleLevels {
		if name == scaleLabels[level] || strings.EqualFold(name, scaleNames[level]) {
			return level, nil
		}
	}
	return Unmatched, fmt.Errorf("%w: %q", common.ErrUnknownCategory, name)
}

// ParseLabel resolves a result label, including the Unmatched label.
func ParseLabel(label string) (ScaleLevel, bool) {
	label = strings.TrimSpace(label)
	for level, l := range scaleLabels {
		if l == label || strings.EqualFold(scaleNames[level], label) {
			return level, true
		}
	}
	return Unmatched, false
}
