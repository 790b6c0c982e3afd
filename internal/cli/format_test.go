package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{999.4, "$999"},
		{999.6, "$1k"},
		{65000, "$65k"},
		{129000, "$129k"},
		{999_499, "$999k"},
		{999_999, "$1M"},
		{1_174_000, "$1.2M"},
		{999_999_999, "$1B"},
		{2_500_000_000, "$2.5B"},
		{-5000, "-$5k"},
		{-999_999, "-$1M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCompact(tt.in), "FormatCompact(%v)", tt.in)
	}
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$129,000", FormatCurrency(129000))
	assert.Equal(t, "$1,174,000", FormatCurrency(1_174_000))
	assert.Equal(t, "-$5,000", FormatCurrency(-5000))
	assert.Equal(t, "$0", FormatCurrency(0))
}

func TestFormatCell(t *testing.T) {
	v := 258000.0
	assert.Equal(t, "$258,000", FormatCell(&v))
	assert.Equal(t, Missing, FormatCell(nil))
}

func TestFormatDelta(t *testing.T) {
	assert.Equal(t, "+$464,000", FormatDelta(1_174_000, 710000))
	assert.Equal(t, "-$8,000", FormatDelta(702000, 710000))
	assert.Equal(t, "50.0%", FormatPercent(0.5))
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
}
