package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValue(t *testing.T) {
	for _, test := range []struct {
		in  float64
		out string
	}{
		{174790340, "174790340.0"},
		{0, "0.0"},
		{-3, "-3.0"},
		{2.5, "2.5"},
		{0.1, "0.1"},
		{12.345678, "12.345678"},
		{1e21, "1000000000000000000000"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "+Inf"},
	} {
		assert.Equal(t, test.out, FormatValue(test.in))
	}
}

func TestByteCountDecimal(t *testing.T) {
	for _, test := range []struct {
		in  int64
		out string
	}{
		{0, "0 b"},
		{999, "999 b"},
		{1000, "1.0kb"},
		{1500000, "1.5Mb"},
		{-2000, "-2.0kb"},
	} {
		assert.Equal(t, test.out, ByteCountDecimal(test.in))
	}
}
