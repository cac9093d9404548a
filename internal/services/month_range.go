package services

import (
	"time"

	"github.com/vladimiradmaev/glucose-diary/internal/calendar"
)

// MonthRangeResolver maps a Jalali month to the Gregorian range used by
// repository queries. start is inclusive and end is exclusive.
type MonthRangeResolver struct {
	conv calendar.Converter
}

func NewMonthRangeResolver(conv calendar.Converter) MonthRangeResolver {
	return MonthRangeResolver{conv: conv}
}

// Resolve returns [start, end) for month of year. userID is accepted so the
// resolver can sit between a user's request and the repository; the range
// itself does not depend on it.
func (r MonthRangeResolver) Resolve(userID int64, year, month int) (start, end time.Time) {
	return r.conv.MonthRange(year, month)
}
