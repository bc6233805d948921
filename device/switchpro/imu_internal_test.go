package switchpro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRawRoundsHalfToEven(t *testing.T) {
	tests := []struct {
		in   float64
		want int16
	}{
		{0.5, 0},
		{1.5, 2},
		{2.5, 2},
		{-2.5, -2},
		{3.5, 4},
		{32766.5, 32766},
		{32767.5, 32767},
		{-32768.5, -32768},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, toRaw(tt.in), "toRaw(%v)", tt.in)
	}
}
