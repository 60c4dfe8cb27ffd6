package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePercent(t *testing.T) {
	tests := []struct {
		input string
		want  Percent
	}{
		{"87.5", 8750},
		{"85", 8500},
		{"0", 0},
		{"100", 10000},
		{"4.999", 500},
		{" 12.34% ", 1234},
		{"-1.25", -125},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePercent(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePercent_Invalid(t *testing.T) {
	for _, input := range []string{"", "abc", "NaN", "+Inf", "1e17", "-1e17", "1e300", "1e400", "92233720368547758.08", "1000000000.01"} {
		_, err := ParsePercent(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestPercentFromFloat_Bounds(t *testing.T) {
	p, err := PercentFromFloat(MaxPercentMagnitude)
	require.NoError(t, err)
	assert.Equal(t, Percent(100_000_000_000), p)

	p, err = PercentFromFloat(-MaxPercentMagnitude)
	require.NoError(t, err)
	assert.Equal(t, Percent(-100_000_000_000), p)

	_, err = PercentFromFloat(1e17)
	assert.Error(t, err)
	_, err = PercentFromFloat(math.Inf(-1))
	assert.Error(t, err)
}

func TestPercentString_Extremes(t *testing.T) {
	assert.Equal(t, "-92233720368547758.08", Percent(math.MinInt64).String())
	assert.Equal(t, "92233720368547758.07", Percent(math.MaxInt64).String())
}

func TestPercentString(t *testing.T) {
	assert.Equal(t, "87.50", Percent(8750).String())
	assert.Equal(t, "0.00", Percent(0).String())
	assert.Equal(t, "0.05", Percent(5).String())
	assert.Equal(t, "-1.25", Percent(-125).String())
	assert.InDelta(t, 87.5, Percent(8750).Float64(), 1e-9)
}

func TestPercentMarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Percent{"coverage": 8750})
	require.NoError(t, err)
	assert.JSONEq(t, `{"coverage": 87.5}`, string(data))
}
