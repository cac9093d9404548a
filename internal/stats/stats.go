// Package stats computes aggregate statistics and severity bands for glucose
// tests. Everything here is pure and safe for concurrent use.
package stats

import (
	"github.com/samber/lo"

	"github.com/vladimiradmaev/glucose-diary/internal/domain"
)

// Statistics summarizes a sequence of tests.
// An empty sequence yields the zero value: counts and numeric fields are zero
// rather than absent, so callers can format it without nil checks.
type Statistics struct {
	Count           int     `json:"count"`
	Mean            float64 `json:"mean"`
	Min             int     `json:"min"`
	Max             int     `json:"max"`
	FastingCount    int     `json:"fasting_count"`
	NonFastingCount int     `json:"non_fasting_count"`
}

// Empty reports whether the statistics were computed from no tests
func (s Statistics) Empty() bool {
	return s.Count == 0
}

// Aggregate computes statistics over tests. Input order does not matter.
func Aggregate(tests []domain.GlucoseTest) Statistics {
	if len(tests) == 0 {
		return Statistics{}
	}

	values := lo.Map(tests, func(t domain.GlucoseTest, _ int) int { return t.Glucose })
	fasting := lo.CountBy(tests, func(t domain.GlucoseTest) bool { return t.Fasting })

	return Statistics{
		Count:           len(tests),
		Mean:            float64(lo.Sum(values)) / float64(len(values)),
		Min:             lo.Min(values),
		Max:             lo.Max(values),
		FastingCount:    fasting,
		NonFastingCount: len(tests) - fasting,
	}
}

// Latest returns the most recently created test, or nil if tests is empty.
// Ties on CreatedAt are broken by the larger ID.
func Latest(tests []domain.GlucoseTest) *domain.GlucoseTest {
	if len(tests) == 0 {
		return nil
	}
	latest := lo.MaxBy(tests, func(a, b domain.GlucoseTest) bool {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID > b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return &latest
}
