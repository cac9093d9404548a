package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tehran(t *testing.T) Converter {
	t.Helper()
	conv, err := LoadConverter(DefaultTimezone)
	require.NoError(t, err)
	return conv
}

func TestConverter_Date(t *testing.T) {
	conv := tehran(t)
	loc := conv.Location()

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"nowruz 1403", time.Date(2024, 3, 20, 12, 0, 0, 0, loc), "1403/01/01"},
		{"last day of 1402", time.Date(2024, 3, 19, 23, 59, 0, 0, loc), "1402/12/29"},
		{"esfand 1402", time.Date(2024, 2, 20, 0, 0, 0, 0, loc), "1402/12/01"},
		{"nowruz 1402", time.Date(2023, 3, 21, 8, 0, 0, 0, loc), "1402/01/01"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, conv.Date(tc.in))
		})
	}
}

func TestConverter_DateUsesLocation(t *testing.T) {
	conv := tehran(t)

	// 21:00 UTC on 19 March 2024 is already 20 March in Tehran.
	utc := time.Date(2024, 3, 19, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, "1403/01/01", conv.Date(utc))
	assert.Equal(t, "1402/12/29", NewConverter(time.UTC).Date(utc))
}

func TestConverter_DateTimeAndDayMonth(t *testing.T) {
	conv := tehran(t)
	in := time.Date(2024, 3, 20, 9, 5, 0, 0, conv.Location())

	assert.Equal(t, "1403/01/01 09:05", conv.DateTime(in))
	assert.Equal(t, "01/01", conv.DayMonth(in))
	assert.Equal(t, 1403, conv.Year(in))
}

func TestConverter_MonthRange_Esfand1402(t *testing.T) {
	conv := tehran(t)
	loc := conv.Location()

	start, end := conv.MonthRange(1402, 12)

	assert.True(t, start.Equal(time.Date(2024, 2, 20, 0, 0, 0, 0, loc)), "start = %v", start)
	assert.True(t, end.Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, loc)), "end = %v", end)
	assert.Equal(t, "1402/12/01", conv.Date(start))
	assert.Equal(t, "1403/01/01", conv.Date(end))
}

func TestConverter_MonthRange_YearWrap(t *testing.T) {
	conv := tehran(t)

	for year := 1395; year <= 1410; year++ {
		_, endOfYear := conv.MonthRange(year, 12)
		startOfNext, _ := conv.MonthRange(year+1, 1)
		assert.True(t, endOfYear.Equal(startOfNext), "year %d", year)
	}
}

func TestConverter_MonthRange_Contiguous(t *testing.T) {
	conv := tehran(t)

	for month := 1; month < 12; month++ {
		start, end := conv.MonthRange(1403, month)
		nextStart, _ := conv.MonthRange(1403, month+1)

		require.True(t, start.Before(end))
		assert.True(t, end.Equal(nextStart), "month %d", month)

		days := end.Sub(start).Hours() / 24
		if month <= 6 {
			assert.InDelta(t, 31, days, 0.05, "month %d", month)
		} else {
			assert.InDelta(t, 30, days, 0.05, "month %d", month)
		}
	}
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "فروردین", MonthName(1))
	assert.Equal(t, "اسفند", MonthName(12))
	assert.Equal(t, "", MonthName(0))
	assert.Equal(t, "", MonthName(13))
	assert.True(t, ValidMonth(7))
	assert.False(t, ValidMonth(-1))
}

func TestLoadConverter_BadZone(t *testing.T) {
	_, err := LoadConverter("Mars/Olympus")
	assert.Error(t, err)
}

func TestConverter_ZeroValueIsUTC(t *testing.T) {
	var conv Converter
	assert.Equal(t, time.UTC, conv.Location())
}
