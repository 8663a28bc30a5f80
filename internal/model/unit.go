package model

import (
	"fmt"
	"strings"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
)

// Unit is the currency unit monetary columns are expressed in.
type Unit string

// Supported units.
const (
	UnitYuan            Unit = "Y"
	UnitTenThousandYuan Unit = "WY"
)

// ParseUnit resolves the data unit argument. Y means yuan, WY means ten-thousand yuan.
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToUpper(strings.TrimSpace(s))) {
	case UnitYuan:
		return UnitYuan, nil
	case UnitTenThousandYuan:
		return UnitTenThousandYuan, nil
	}
	return "", fmt.Errorf("%w: %q (expected Y or WY)", common.ErrInvalidUnit, s)
}

// Scale converts a monetary value into ten-thousand yuan, the unit rule
// thresholds are written in.
func (u Unit) Scale(v float64) float64 {
	if u == UnitYuan {
		return v / 10000
	}
	return v
}
