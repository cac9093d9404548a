package reports

import "github.com/vladimiradmaev/glucose-diary/internal/stats"

// BandMarker returns the emoji used for a severity band
func BandMarker(b stats.Band) string {
	switch b {
	case stats.BandLow:
		return "🔵"
	case stats.BandNormal:
		return "🟢"
	case stats.BandElevated:
		return "🟡"
	default:
		return "🔴"
	}
}

// FastingMarker returns the emoji used for the measurement context
func FastingMarker(fasting bool) string {
	if fasting {
		return "🟦"
	}
	return "🟧"
}

// Assessment returns a short Persian interpretation of a reading
func Assessment(glucose int, fasting bool) string {
	band := stats.Classify(glucose, fasting)
	switch band {
	case stats.BandLow:
		return "⚠️ هشدار: قند خون پایین (هایپوگلیسمی)"
	case stats.BandNormal:
		if fasting {
			return "✅ عالی: در محدوده نرمال ناشتا"
		}
		return "✅ عالی: در محدوده نرمال"
	case stats.BandElevated:
		if fasting {
			return "⚠️ هشدار: پیش‌دیابتی"
		}
		return "⚠️ هشدار: بالا"
	default:
		if fasting {
			return "🔴 خطر: دیابتی"
		}
		return "🔴 خطر: بسیار بالا"
	}
}
