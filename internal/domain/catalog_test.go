package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidGlucose(t *testing.T) {
	assert.False(t, ValidGlucose(0))
	assert.False(t, ValidGlucose(-10))
	assert.True(t, ValidGlucose(1))
	assert.True(t, ValidGlucose(1000))
	assert.False(t, ValidGlucose(1001))
}

func TestSymptomLabel(t *testing.T) {
	label, ok := SymptomLabel("headache")
	assert.True(t, ok)
	assert.Equal(t, "سردرد", label)

	_, ok = SymptomLabel("fever")
	assert.False(t, ok)

	assert.True(t, IsSymptomLabel("هیچکدام"))
	assert.False(t, IsSymptomLabel("none"))
}

func TestIsTimeSlot(t *testing.T) {
	assert.True(t, IsTimeSlot("07:30"))
	assert.True(t, IsTimeSlot("12:00"))
	assert.False(t, IsTimeSlot("13:00"))
	assert.Len(t, TimeSlots, 10)
}

func TestGlucoseTest_FastingLabel(t *testing.T) {
	test := GlucoseTest{Fasting: true, CreatedAt: time.Now()}
	assert.Equal(t, "ناشتا", test.FastingLabel())
	test.Fasting = false
	assert.Equal(t, "غیرناشتا", test.FastingLabel())
}
