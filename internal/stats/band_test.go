package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		glucose int
		fasting bool
		want    Band
	}{
		{65, true, BandLow},
		{65, false, BandLow},
		{69, false, BandLow},
		{70, true, BandNormal},
		{90, true, BandNormal},
		{100, true, BandNormal},
		{101, true, BandElevated},
		{110, true, BandElevated},
		{125, true, BandElevated},
		{126, true, BandHigh},
		{130, false, BandNormal},
		{140, false, BandNormal},
		{141, false, BandElevated},
		{200, false, BandElevated},
		{201, false, BandHigh},
		{250, false, BandHigh},
		{250, true, BandHigh},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Classify(tc.glucose, tc.fasting), "glucose=%d fasting=%v", tc.glucose, tc.fasting)
	}
}

func TestClassify_Monotonic(t *testing.T) {
	for _, fasting := range []bool{true, false} {
		prev := Classify(1, fasting)
		for v := 2; v <= 1000; v++ {
			band := Classify(v, fasting)
			assert.GreaterOrEqual(t, band, prev, "glucose=%d fasting=%v", v, fasting)
			prev = band
		}
	}
}

func TestBand_String(t *testing.T) {
	assert.Equal(t, "low", BandLow.String())
	assert.Equal(t, "normal", BandNormal.String())
	assert.Equal(t, "elevated", BandElevated.String())
	assert.Equal(t, "high", BandHigh.String())
	assert.Equal(t, "unknown", Band(42).String())
}
