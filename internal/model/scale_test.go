package model

import (
	"testing"

	"github.com/chenshien/Enterprise-Classification-Batch-Calculation/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleLevel_Ordering(t *testing.T) {
	assert.True(t, LargeEnterprise.Outranks(MediumEnterprise))
	assert.True(t, MediumEnterprise.Outranks(SmallEnterprise))
	assert.True(t, SmallEnterprise.Outranks(MicroEnterprise))
	assert.True(t, MicroEnterprise.Outranks(Unmatched))
	assert.False(t, MediumEnterprise.Outranks(MediumEnterprise))
	assert.False(t, SmallEnterprise.Outranks(LargeEnterprise))
}

func TestScaleLevel_Downgrade(t *testing.T) {
	tests := []struct {
		in   ScaleLevel
		want ScaleLevel
	}{
		{LargeEnterprise, MediumEnterprise},
		{MediumEnterprise, SmallEnterprise},
		{SmallEnterprise, MicroEnterprise},
		{MicroEnterprise, MicroEnterprise},
		{Unmatched, Unmatched},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Downgrade())
		})
	}
}

func TestParseScaleLevel(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ScaleLevel
		wantErr bool
	}{
		{name: "label", in: "大型企业", want: LargeEnterprise},
		{name: "label with spaces", in: " 微型企业 ", want: MicroEnterprise},
		{name: "english", in: "SmallEnterprise", want: SmallEnterprise},
		{name: "english lower case", in: "mediumenterprise", want: MediumEnterprise},
		{name: "unmatched is not a category", in: "未匹配", wantErr: true},
		{name: "typo", in: "大形企业", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScaleLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScaleLevel_Labels(t *testing.T) {
	for _, level := range append([]ScaleLevel{Unmatched}, ScaleLevels...) {
		got, ok := ParseLabel(level.Label())
		require.True(t, ok, level.String())
		assert.Equal(t, level, got)
	}
	assert.Equal(t, "ScaleLevel(9)", ScaleLevel(9).String())
	assert.False(t, Unmatched.Valid())
}

func TestParseUnit(t *testing.T) {
	u, err := ParseUnit("y")
	require.NoError(t, err)
	assert.Equal(t, UnitYuan, u)
	assert.InDelta(t, 5.0, u.Scale(50000), 1e-9)

	u, err = ParseUnit("WY")
	require.NoError(t, err)
	assert.InDelta(t, 50000.0, u.Scale(50000), 1e-9)

	_, err = ParseUnit("USD")
	assert.ErrorIs(t, err, common.ErrInvalidUnit)
}
