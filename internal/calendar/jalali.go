// Package calendar converts between stored Gregorian timestamps and the Jalali
// (Solar Hijri) calendar used for display and month reports.
package calendar

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// DefaultTimezone is used when no location is configured.
const DefaultTimezone = "Asia/Tehran"

var monthNames = [12]string{
	"فروردین", "اردیبهشت", "خرداد", "تیر",
	"مرداد", "شهریور", "مهر", "آبان",
	"آذر", "دی", "بهمن", "اسفند",
}

// Converter performs calendar conversions in a fixed location.
// The zero value converts in UTC.
type Converter struct {
	loc *time.Location
}

// NewConverter creates a converter for the given location
func NewConverter(loc *time.Location) Converter {
	if loc == nil {
		loc = time.UTC
	}
	return Converter{loc: loc}
}

// LoadConverter creates a converter for an IANA timezone name
func LoadConverter(name string) (Converter, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Converter{}, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return NewConverter(loc), nil
}

// Location returns the location conversions are performed in
func (c Converter) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c Converter) jalali(t time.Time) ptime.Time {
	return ptime.New(t.In(c.Location()))
}

// Date formats t as a Jalali YYYY/MM/DD string
func (c Converter) Date(t time.Time) string {
	j := c.jalali(t)
	return fmt.Sprintf("%04d/%02d/%02d", j.Year(), int(j.Month()), j.Day())
}

// DateTime formats t as a Jalali YYYY/MM/DD HH:MM string
func (c Converter) DateTime(t time.Time) string {
	local := t.In(c.Location())
	return fmt.Sprintf("%s %02d:%02d", c.Date(t), local.Hour(), local.Minute())
}

// DayMonth formats t as a Jalali DD/MM string
func (c Converter) DayMonth(t time.Time) string {
	j := c.jalali(t)
	return fmt.Sprintf("%02d/%02d", j.Day(), int(j.Month()))
}

// Year returns the Jalali year of t
func (c Converter) Year(t time.Time) int {
	return c.jalali(t).Year()
}

// MonthRange returns the Gregorian instants bounding a Jalali month.
// start is inclusive and end is exclusive: end is the first instant of the
// following month, so month 12 of year Y ends where month 1 of Y+1 begins.
// month must be in 1..12.
func (c Converter) MonthRange(year, month int) (start, end time.Time) {
	start = c.monthStart(year, month)
	if month == 12 {
		end = c.monthStart(year+1, 1)
	} else {
		end = c.monthStart(year, month+1)
	}
	return start, end
}

func (c Converter) monthStart(year, month int) time.Time {
	return ptime.Date(year, ptime.Month(month), 1, 0, 0, 0, 0, c.Location()).Time()
}

// MonthName returns the Persian name of a Jalali month, or "" when month is
// outside 1..12.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// ValidMonth reports whether month is a Jalali month number
func ValidMonth(month int) bool {
	return month >= 1 && month <= 12
}
