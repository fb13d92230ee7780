package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToHundred(t *testing.T) {
	tests := []struct {
		in   int64
		want int64
	}{
		{0, 0},
		{49, 0},
		{50, 100},
		{1949950, 1950000},
		{1949949, 1949900},
		{-49, 0},
		{-50, 0},
		{-51, -100},
		{-150, -100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundToHundred(tt.in), "round(%d)", tt.in)
	}
}

func TestFormatDisplay(t *testing.T) {
	assert.Equal(t, "1.950.000", FormatDisplay(1949950))
	assert.Equal(t, "900", FormatDisplay(870))
	assert.Equal(t, "0", FormatDisplay(10))
	assert.Equal(t, "-12.300", FormatDisplay(-12345))
}

func TestFormatGrouped(t *testing.T) {
	assert.Equal(t, "123", FormatGrouped(123))
	assert.Equal(t, "1.234", FormatGrouped(1234))
	assert.Equal(t, "12.345.678", FormatGrouped(12345678))
	assert.Equal(t, "-1.000", FormatGrouped(-1000))
}
