package cli

import (
	"bytes"
	"testing"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/engine"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/model"
	"github.com/stretchr/testify/assert"
)

var _ engine.Observer = (*RuleProgress)(nil)

func TestRuleProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewRuleProgress(&buf, 2)

	rule := model.IndustryRule{Matcher: "工业", Level: model.MatchLevelPrimary}
	p.RuleApplied(rule, 3, 1)
	p.RuleApplied(rule, 0, 0)
	p.Finish()

	assert.Contains(t, buf.String(), "Applying industry rules")
	assert.Contains(t, buf.String(), "2/2")
}
