package reports

import (
	"fmt"
	"strings"

	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	"github.com/vladimiradmaev/glucose-diary/internal/stats"
)

// TextListLimit is the number of tests listed in a text report
const TextListLimit = 10

// Report labels used by the bot
const (
	LabelWeekly  = "هفتگی"
	LabelMonthly = "ماهانه"
)

const (
	heavyRule = "========================================"
	lightRule = "──────────────────────────────"
)

// Text renders tests as a plain text report. Tests are listed in input order;
// callers sort them beforehand. Empty input yields a "no data" message.
func (r *Renderer) Text(tests []domain.GlucoseTest, label string) string {
	if len(tests) == 0 {
		return fmt.Sprintf("❌ هیچ آزمایشی برای گزارش %s یافت نشد.", label)
	}

	s := stats.Aggregate(tests)

	var b strings.Builder
	b.WriteString("📊 " + heavyRule + "\n")
	fmt.Fprintf(&b, "گزارش %s آزمایش‌های قند خون\n", label)
	b.WriteString(heavyRule + "\n\n")

	b.WriteString("📈 آمار کلی:\n")
	b.WriteString(lightRule + "\n")
	writeStatistics(&b, s)
	b.WriteString("\n")

	b.WriteString("📋 لیست آزمایش‌ها:\n")
	b.WriteString(lightRule + "\n")

	limit := min(len(tests), TextListLimit)
	for i, t := range tests[:limit] {
		fmt.Fprintf(&b, "%d. %s %s - ساعت %s\n", i+1, BandMarker(stats.Classify(t.Glucose, t.Fasting)), r.displayDate(t), t.TestTime)
		fmt.Fprintf(&b, "   مقدار: %d mg/dL | نوع: %s %s\n", t.Glucose, FastingMarker(t.Fasting), t.FastingLabel())
		fmt.Fprintf(&b, "   علائم: %s\n", t.Symptoms)
		if t.Notes != "" {
			fmt.Fprintf(&b, "   📝 یادداشت: %s\n", t.Notes)
		}
		b.WriteString("\n")
	}

	if len(tests) > TextListLimit {
		fmt.Fprintf(&b, "... و %d آزمایش دیگر\n\n", len(tests)-TextListLimit)
	}

	fmt.Fprintf(&b, "📅 تاریخ گزارش: %s\n", r.conv.DateTime(r.now()))
	b.WriteString(heavyRule + "\n")
	return b.String()
}

// StatisticsText renders only the statistics block
func StatisticsText(s stats.Statistics) string {
	var b strings.Builder
	writeStatistics(&b, s)
	return b.String()
}

func writeStatistics(b *strings.Builder, s stats.Statistics) {
	fmt.Fprintf(b, "• تعداد کل آزمایش‌ها: %d عدد\n", s.Count)
	fmt.Fprintf(b, "• میانگین قند خون: %.1f mg/dL\n", s.Mean)
	fmt.Fprintf(b, "• حداقل مقدار: %d mg/dL\n", s.Min)
	fmt.Fprintf(b, "• حداکثر مقدار: %d mg/dL\n", s.Max)
	fmt.Fprintf(b, "• آزمایش‌های ناشتا: %d عدد\n", s.FastingCount)
	fmt.Fprintf(b, "• آزمایش‌های غیرناشتا: %d عدد\n", s.NonFastingCount)
}

// displayDate prefers the stored Jalali date and falls back to converting
// CreatedAt for records that predate it.
func (r *Renderer) displayDate(t domain.GlucoseTest) string {
	if t.JalaliDate != "" {
		return t.JalaliDate
	}
	return r.conv.Date(t.CreatedAt)
}
