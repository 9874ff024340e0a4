// Package forecast holds the model-facing core of the energy forecasting
// service: the timestamp feature transform, the model artifact loader, and
// the prediction service wrapping single, batch, and pattern operations.
// It has no HTTP or storage dependencies and is safe for concurrent use:
// every operation is a pure function over its inputs and the immutable
// loaded artifact.
package forecast

import (
	"fmt"
	"strings"
	"time"
)

// FeatureNames is the canonical feature order the model was trained with.
// The artifact loader rejects any artifact declaring a different order;
// reordering would silently shift every prediction.
var FeatureNames = []string{
	"hour",
	"dayofweek",
	"month",
	"quarter",
	"year",
	"dayofyear",
	"weekofyear",
	"dayofmonth",
}

// Features is the fixed time-based encoding of a single timestamp.
type Features struct {
	Hour       int // 0-23
	DayOfWeek  int // 0=Monday .. 6=Sunday
	Month      int // 1-12
	Quarter    int // 1-4
	Year       int
	DayOfYear  int // 1-365/366
	WeekOfYear int // ISO-8601 week, 1-53
	DayOfMonth int // 1-31
}

// FeaturesFromTime derives the feature encoding from the wall clock of t in
// its own location. Deterministic: the same instant always yields the same
// features.
func FeaturesFromTime(t time.Time) Features {
	_, week := t.ISOWeek()
	return Features{
		Hour:       t.Hour(),
		DayOfWeek:  (int(t.Weekday()) + 6) % 7,
		Month:      int(t.Month()),
		Quarter:    (int(t.Month())-1)/3 + 1,
		Year:       t.Year(),
		DayOfYear:  t.YearDay(),
		WeekOfYear: week,
		DayOfMonth: t.Day(),
	}
}

// Vector returns the features as a float64 slice in FeatureNames order.
// This is the exact shape fed to the model.
func (f Features) Vector() []float64 {
	return []float64{
		float64(f.Hour),
		float64(f.DayOfWeek),
		float64(f.Month),
		float64(f.Quarter),
		float64(f.Year),
		float64(f.DayOfYear),
		float64(f.WeekOfYear),
		float64(f.DayOfMonth),
	}
}

// Map returns the features keyed by name for JSON responses.
func (f Features) Map() map[string]int {
	return map[string]int{
		"hour":       f.Hour,
		"dayofweek":  f.DayOfWeek,
		"month":      f.Month,
		"quarter":    f.Quarter,
		"year":       f.Year,
		"dayofyear":  f.DayOfYear,
		"weekofyear": f.WeekOfYear,
		"dayofmonth": f.DayOfMonth,
	}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-like datetime string. Timestamps without an
// offset are treated as UTC; timestamps with one keep it, so features always
// reflect the wall clock as written.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: datetime is required", ErrInvalidInput)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable datetime %q, use ISO format YYYY-MM-DDTHH:MM:SS", ErrInvalidInput, s)
}
