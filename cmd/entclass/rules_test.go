package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesCheck(t *testing.T) {
	path := testutil.WriteRules(t, t.TempDir(), testutil.ManufacturingRules)

	cmd := rulesCheckCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "制造业")
	assert.Contains(t, out.String(), "1 rules loaded")
	assert.Contains(t, out.String(), "拼错的段")
}

func TestRulesCheck_MissingFile(t *testing.T) {
	cmd := rulesCheckCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.ini")})

	err := cmd.Execute()
	assert.ErrorIs(t, err, common.ErrConfigNotFound)
}

func TestVersionCmd(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "entclass dev\n", out.String())
}
