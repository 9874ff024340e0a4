package forecast

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MaxRangePoints caps the timestamps a single range request may generate
// (hours in a leap year). Oversize ranges fail loudly instead of being
// truncated.
const MaxRangePoints = 8784

// Frequency selects the tick spacing of a range prediction.
type Frequency string

const (
	FreqHourly   Frequency = "H"
	Freq6Hourly  Frequency = "6H"
	Freq12Hourly Frequency = "12H"
	FreqDaily    Frequency = "D"
)

// ParseFrequency normalizes a frequency string. Unknown values wrap
// ErrInvalidInput.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToUpper(strings.TrimSpace(s))) {
	case FreqHourly:
		return FreqHourly, nil
	case Freq6Hourly:
		return Freq6Hourly, nil
	case Freq12Hourly:
		return Freq12Hourly, nil
	case FreqDaily:
		return FreqDaily, nil
	}
	return "", fmt.Errorf("%w: unrecognized frequency %q, use H, 6H, 12H or D", ErrInvalidInput, s)
}

// Step returns the tick spacing. Daily ticks are exactly 24h; parsed
// timestamps carry fixed offsets, so there are no DST jumps to absorb.
func (f Frequency) Step() time.Duration {
	switch f {
	case Freq6Hourly:
		return 6 * time.Hour
	case Freq12Hourly:
		return 12 * time.Hour
	case FreqDaily:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}

// Prediction is the result of evaluating the model at one timestamp.
type Prediction struct {
	Datetime string         `json:"datetime"`
	ValueMW  float64        `json:"prediction"`
	Features map[string]int `json:"features,omitempty"`
}

// Batch is an ordered range of predictions plus summary statistics.
type Batch struct {
	Predictions []Prediction `json:"predictions"`
	Summary     Summary      `json:"summary"`
}

// HourlyPattern is the aggregate for one hour-of-day bucket.
type HourlyPattern struct {
	Hour int     `json:"hour"`
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// WeeklyPattern is the aggregate for one day-of-week bucket (0=Monday).
type WeeklyPattern struct {
	Day   int     `json:"day"`
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

// PatternAnalysis groups hourly predictions over a range by hour-of-day and
// day-of-week. Both bucket slices are always full-size (24 and 7) so chart
// consumers never index-check; empty buckets report zero mean/std.
type PatternAnalysis struct {
	Hourly  []HourlyPattern `json:"hourly"`
	Weekly  []WeeklyPattern `json:"weekly"`
	Overall Summary         `json:"overall"`
}

// ModelInfo is the training metadata exposed by the info endpoint.
type ModelInfo struct {
	ModelVersion string   `json:"model_version"`
	Target       string   `json:"target"`
	RMSE         float64  `json:"rmse"`
	Features     []string `json:"features"`
	CreatedDate  string   `json:"created_date"`
}

// Service wraps the immutable model artifact with the prediction
// operations. Construct it once at startup and inject it into handlers; a
// nil artifact is legal and makes every operation report ErrModelUnavailable
// so the process can keep serving health checks after a failed load.
type Service struct {
	artifact *Artifact
}

func NewService(artifact *Artifact) *Service {
	return &Service{artifact: artifact}
}

// Ready reports whether a model artifact is loaded.
func (s *Service) Ready() bool {
	return s.artifact != nil
}

// PredictSingle evaluates the model at t. Non-finite model output wraps
// ErrSerialization rather than leaking NaN into a JSON payload.
func (s *Service) PredictSingle(t time.Time) (Prediction, error) {
	if s.artifact == nil {
		return Prediction{}, ErrModelUnavailable
	}
	f := FeaturesFromTime(t)
	v := s.artifact.Predict(f.Vector())
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Prediction{}, fmt.Errorf("%w: model output at %s is not finite", ErrSerialization, t.Format(time.RFC3339))
	}
	return Prediction{
		Datetime: t.Format(time.RFC3339),
		ValueMW:  v,
		Features: f.Map(),
	}, nil
}

// PredictRange predicts at every tick from start to end inclusive:
// start, start+step, ... while the tick is not after end. A one-day hourly
// range therefore yields 25 predictions.
func (s *Service) PredictRange(start, end time.Time, freq Frequency) (Batch, error) {
	if s.artifact == nil {
		return Batch{}, ErrModelUnavailable
	}
	step := freq.Step()
	if step <= 0 {
		return Batch{}, fmt.Errorf("%w: unrecognized frequency %q", ErrInvalidInput, freq)
	}
	if end.Before(start) {
		return Batch{}, fmt.Errorf("%w: end %s precedes start %s", ErrInvalidInput,
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	n := int(end.Sub(start)/step) + 1
	if n > MaxRangePoints {
		return Batch{}, fmt.Errorf("%w: range yields %d timestamps, maximum is %d", ErrInvalidInput, n, MaxRangePoints)
	}

	predictions := make([]Prediction, 0, n)
	values := make([]float64, 0, n)
	for t := start; !t.After(end); t = t.Add(step) {
		p, err := s.PredictSingle(t)
		if err != nil {
			return Batch{}, err
		}
		predictions = append(predictions, p)
		values = append(values, p.ValueMW)
	}
	return Batch{Predictions: predictions, Summary: summarize(values)}, nil
}

// FeatureImportance returns the stored importance ranking, descending.
func (s *Service) FeatureImportance() ([]ImportanceEntry, error) {
	if s.artifact == nil {
		return nil, ErrModelUnavailable
	}
	return s.artifact.Importance(), nil
}

var dayLabels = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// AnalyzePatterns predicts hourly over [start, end] and aggregates the
// predictions by hour-of-day and day-of-week.
func (s *Service) AnalyzePatterns(start, end time.Time) (PatternAnalysis, error) {
	batch, err := s.PredictRange(start, end, FreqHourly)
	if err != nil {
		return PatternAnalysis{}, err
	}

	byHour := make([][]float64, 24)
	byDay := make([][]float64, 7)
	for _, p := range batch.Predictions {
		byHour[p.Features["hour"]] = append(byHour[p.Features["hour"]], p.ValueMW)
		byDay[p.Features["dayofweek"]] = append(byDay[p.Features["dayofweek"]], p.ValueMW)
	}

	analysis := PatternAnalysis{
		Hourly:  make([]HourlyPattern, 24),
		Weekly:  make([]WeeklyPattern, 7),
		Overall: batch.Summary,
	}
	for h := 0; h < 24; h++ {
		mean, std := groupStats(byHour[h])
		analysis.Hourly[h] = HourlyPattern{Hour: h, Mean: mean, Std: std}
	}
	for d := 0; d < 7; d++ {
		mean, std := groupStats(byDay[d])
		analysis.Weekly[d] = WeeklyPattern{Day: d, Label: dayLabels[d], Mean: mean, Std: std}
	}
	return analysis, nil
}

// Info returns the model metadata stored in the artifact.
func (s *Service) Info() (ModelInfo, error) {
	if s.artifact == nil {
		return ModelInfo{}, ErrModelUnavailable
	}
	return ModelInfo{
		ModelVersion: s.artifact.ModelVersion,
		Target:       s.artifact.Target,
		RMSE:         s.artifact.Performance.RMSE,
		Features:     s.artifact.Features,
		CreatedDate:  s.artifact.CreatedDate,
	}, nil
}
