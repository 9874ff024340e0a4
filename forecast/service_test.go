package forecast

import (
	"errors"
	"math"
	"testing"
	"time"
)

func testService() *Service {
	return NewService(testArtifact())
}

func TestParseFrequency(t *testing.T) {
	valid := []struct {
		input string
		want  Frequency
	}{
		{"H", FreqHourly},
		{"h", FreqHourly},
		{"6H", Freq6Hourly},
		{"6h", Freq6Hourly},
		{"12H", Freq12Hourly},
		{" d ", FreqDaily},
		{"D", FreqDaily},
	}
	for _, tt := range valid {
		got, err := ParseFrequency(tt.input)
		if err != nil {
			t.Errorf("ParseFrequency(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFrequency(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
	for _, input := range []string{"", "W", "15min", "HH", "24H"} {
		if _, err := ParseFrequency(input); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseFrequency(%q) error = %v, want ErrInvalidInput", input, err)
		}
	}
}

func TestPredictSingle(t *testing.T) {
	svc := testService()
	p, err := svc.PredictSingle(time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PredictSingle error: %v", err)
	}
	if p.Datetime != "2024-01-15T14:00:00Z" {
		t.Errorf("datetime = %q, want 2024-01-15T14:00:00Z", p.Datetime)
	}
	if math.Abs(p.ValueMW-16900) > 0.001 {
		t.Errorf("prediction = %v, want 16900", p.ValueMW)
	}
	if len(p.Features) != len(FeatureNames) {
		t.Errorf("features map has %d entries, want %d", len(p.Features), len(FeatureNames))
	}
	if p.Features["hour"] != 14 {
		t.Errorf("features[hour] = %d, want 14", p.Features["hour"])
	}

	again, err := svc.PredictSingle(time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("second PredictSingle error: %v", err)
	}
	if again.ValueMW != p.ValueMW {
		t.Errorf("same timestamp predicted %v then %v", p.ValueMW, again.ValueMW)
	}
}

func TestPredictSingleNonFiniteOutput(t *testing.T) {
	a := testArtifact()
	a.Trees[0].Nodes[2].Value = math.NaN()
	svc := NewService(a)
	_, err := svc.PredictSingle(time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrSerialization) {
		t.Errorf("error = %v, want ErrSerialization", err)
	}
}

func TestServiceWithoutModel(t *testing.T) {
	svc := NewService(nil)
	if svc.Ready() {
		t.Error("Ready() = true for nil artifact")
	}
	ts := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)

	if _, err := svc.PredictSingle(ts); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("PredictSingle error = %v, want ErrModelUnavailable", err)
	}
	if _, err := svc.PredictRange(ts, ts.Add(time.Hour), FreqHourly); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("PredictRange error = %v, want ErrModelUnavailable", err)
	}
	if _, err := svc.FeatureImportance(); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("FeatureImportance error = %v, want ErrModelUnavailable", err)
	}
	if _, err := svc.AnalyzePatterns(ts, ts.Add(time.Hour)); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("AnalyzePatterns error = %v, want ErrModelUnavailable", err)
	}
	if _, err := svc.Info(); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("Info error = %v, want ErrModelUnavailable", err)
	}
}

func TestPredictRangeInclusiveBounds(t *testing.T) {
	svc := testService()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		freq Frequency
		want int
	}{
		{FreqHourly, 25},
		{Freq6Hourly, 5},
		{Freq12Hourly, 3},
		{FreqDaily, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			batch, err := svc.PredictRange(start, end, tt.freq)
			if err != nil {
				t.Fatalf("PredictRange error: %v", err)
			}
			if len(batch.Predictions) != tt.want {
				t.Errorf("got %d predictions, want %d", len(batch.Predictions), tt.want)
			}
			if batch.Summary.Count != tt.want {
				t.Errorf("summary count = %d, want %d", batch.Summary.Count, tt.want)
			}
			first := batch.Predictions[0].Datetime
			last := batch.Predictions[len(batch.Predictions)-1].Datetime
			if first != "2024-01-15T00:00:00Z" {
				t.Errorf("first datetime = %q, want 2024-01-15T00:00:00Z", first)
			}
			if last != "2024-01-16T00:00:00Z" {
				t.Errorf("last datetime = %q, want 2024-01-16T00:00:00Z", last)
			}
		})
	}
}

func TestPredictRangeSingleInstant(t *testing.T) {
	svc := testService()
	ts := time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)
	batch, err := svc.PredictRange(ts, ts, FreqHourly)
	if err != nil {
		t.Fatalf("PredictRange error: %v", err)
	}
	if len(batch.Predictions) != 1 {
		t.Fatalf("got %d predictions, want 1", len(batch.Predictions))
	}
	s := batch.Summary
	if s.Count != 1 || s.Std != 0 {
		t.Errorf("summary = %+v, want count 1 and std 0", s)
	}
	if s.Mean != s.Min || s.Min != s.Max {
		t.Errorf("single-point summary mean/min/max differ: %+v", s)
	}
}

func TestPredictRangeSummary(t *testing.T) {
	svc := testService()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 21, 23, 0, 0, 0, time.UTC)
	batch, err := svc.PredictRange(start, end, FreqHourly)
	if err != nil {
		t.Fatalf("PredictRange error: %v", err)
	}
	s := batch.Summary
	if s.Count != 168 {
		t.Errorf("count = %d, want 168", s.Count)
	}
	if math.Abs(s.Min-13400) > 0.001 {
		t.Errorf("min = %v, want 13400 (weekend mornings)", s.Min)
	}
	if math.Abs(s.Max-16900) > 0.001 {
		t.Errorf("max = %v, want 16900 (weekday afternoons)", s.Max)
	}
	if s.Mean < s.Min || s.Mean > s.Max {
		t.Errorf("mean %v outside [%v, %v]", s.Mean, s.Min, s.Max)
	}
	if s.Std <= 0 {
		t.Errorf("std = %v, want > 0 for varying predictions", s.Std)
	}
}

func TestPredictRangeInvalidInput(t *testing.T) {
	svc := testService()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	if _, err := svc.PredictRange(start, start.Add(-time.Hour), FreqHourly); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("end before start: error = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.PredictRange(start, start.AddDate(1, 5, 0), FreqHourly); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("oversize range: error = %v, want ErrInvalidInput", err)
	}
}

func TestPredictRangeMaxPointsBoundary(t *testing.T) {
	svc := testService()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC)

	// A full leap year of hourly ticks is exactly the cap.
	batch, err := svc.PredictRange(start, end, FreqHourly)
	if err != nil {
		t.Fatalf("PredictRange at cap error: %v", err)
	}
	if len(batch.Predictions) != MaxRangePoints {
		t.Errorf("got %d predictions, want %d", len(batch.Predictions), MaxRangePoints)
	}

	if _, err := svc.PredictRange(start, end.Add(time.Hour), FreqHourly); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("one past cap: error = %v, want ErrInvalidInput", err)
	}
}

func TestFeatureImportance(t *testing.T) {
	entries, err := testService().FeatureImportance()
	if err != nil {
		t.Fatalf("FeatureImportance error: %v", err)
	}
	if len(entries) == 0 || entries[0].Feature != "hour" {
		t.Errorf("top feature = %+v, want hour", entries)
	}
}

func TestAnalyzePatterns(t *testing.T) {
	svc := testService()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) // Monday
	end := time.Date(2024, 1, 21, 23, 0, 0, 0, time.UTC)  // Sunday
	analysis, err := svc.AnalyzePatterns(start, end)
	if err != nil {
		t.Fatalf("AnalyzePatterns error: %v", err)
	}
	if len(analysis.Hourly) != 24 {
		t.Fatalf("hourly buckets = %d, want 24", len(analysis.Hourly))
	}
	if len(analysis.Weekly) != 7 {
		t.Fatalf("weekly buckets = %d, want 7", len(analysis.Weekly))
	}
	if analysis.Overall.Count != 168 {
		t.Errorf("overall count = %d, want 168", analysis.Overall.Count)
	}

	// Hour 14 over a full week: five weekdays at 16900, two weekend days
	// at 15900.
	h14 := analysis.Hourly[14]
	if h14.Hour != 14 {
		t.Errorf("bucket 14 carries hour %d", h14.Hour)
	}
	wantMean := (5*16900.0 + 2*15900.0) / 7
	if math.Abs(h14.Mean-wantMean) > 0.001 {
		t.Errorf("hour 14 mean = %v, want %v", h14.Mean, wantMean)
	}
	if h14.Std <= 0 {
		t.Errorf("hour 14 std = %v, want > 0", h14.Std)
	}

	// Monday: twelve morning hours at 14400, twelve afternoon at 16900.
	mon := analysis.Weekly[0]
	if mon.Label != "Monday" {
		t.Errorf("weekly[0] label = %q, want Monday", mon.Label)
	}
	if math.Abs(mon.Mean-15650) > 0.001 {
		t.Errorf("Monday mean = %v, want 15650", mon.Mean)
	}
	sat := analysis.Weekly[5]
	if sat.Label != "Saturday" {
		t.Errorf("weekly[5] label = %q, want Saturday", sat.Label)
	}
	if math.Abs(sat.Mean-14650) > 0.001 {
		t.Errorf("Saturday mean = %v, want 14650", sat.Mean)
	}
}

func TestAnalyzePatternsShortRange(t *testing.T) {
	svc := testService()
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	analysis, err := svc.AnalyzePatterns(start, start.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("AnalyzePatterns error: %v", err)
	}
	if len(analysis.Hourly) != 24 || len(analysis.Weekly) != 7 {
		t.Fatalf("bucket counts = %d/%d, want 24/7", len(analysis.Hourly), len(analysis.Weekly))
	}
	// Hours outside the range stay zeroed.
	if analysis.Hourly[0].Mean != 0 || analysis.Hourly[0].Std != 0 {
		t.Errorf("hour 0 bucket = %+v, want zeros", analysis.Hourly[0])
	}
	if analysis.Hourly[9].Mean == 0 {
		t.Error("hour 9 bucket unexpectedly empty")
	}
	// All three samples land on Monday.
	if analysis.Weekly[0].Mean == 0 {
		t.Error("Monday bucket unexpectedly empty")
	}
	if analysis.Weekly[1].Mean != 0 {
		t.Errorf("Tuesday bucket = %+v, want zeros", analysis.Weekly[1])
	}
}

func TestAnalyzePatternsInvalidRange(t *testing.T) {
	svc := testService()
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if _, err := svc.AnalyzePatterns(start, start.Add(-time.Hour)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestInfo(t *testing.T) {
	info, err := testService().Info()
	if err != nil {
		t.Fatalf("Info error: %v", err)
	}
	if info.ModelVersion != "test-v1" || info.Target != "AEP_MW" {
		t.Errorf("info = %+v", info)
	}
	if math.Abs(info.RMSE-3412.5) > 0.001 {
		t.Errorf("rmse = %v, want 3412.5", info.RMSE)
	}
	if len(info.Features) != len(FeatureNames) {
		t.Errorf("features = %v", info.Features)
	}
}
