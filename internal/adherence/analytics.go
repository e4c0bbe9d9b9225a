// Package adherence computes streaks, consistency and trends from a subject's
// entry history. Every function is pure: the same entries and reference date
// always give the same result, and several entries on one calendar day count
// as a single satisfied day.
package adherence

import (
	"errors"
	"maps"
	"math"
	"slices"

	"moodlog/internal/entry/models"
	"moodlog/internal/register/schema"
	id "moodlog/pkg/domain"
)

// DefaultWindowDays is the consistency window when the caller gives none.
const DefaultWindowDays = 30

// ErrInsufficientData is returned when a series has fewer than two values.
var ErrInsufficientData = errors.New("at least two values are required")

type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// Dates returns the entry date of every entry, in input order.
func Dates(entries []*models.Entry) []id.Date {
	out := make([]id.Date, len(entries))
	for i, e := range entries {
		out[i] = e.EntryDate
	}
	return out
}

func daySet(dates []id.Date) map[id.Date]struct{} {
	set := make(map[id.Date]struct{}, len(dates))
	for _, d := range dates {
		if !d.IsZero() {
			set[d] = struct{}{}
		}
	}
	return set
}

// CurrentStreak counts consecutive days with an entry, walking back from asOf
// and including it. It is 0 when asOf has no entry.
func CurrentStreak(dates []id.Date, asOf id.Date) int {
	days := daySet(dates)
	streak := 0
	for day := asOf; ; day = day.AddDays(-1) {
		if _, ok := days[day]; !ok {
			return streak
		}
		streak++
	}
}

// BestStreak is the longest run of consecutive days with an entry anywhere in
// the history.
func BestStreak(dates []id.Date) int {
	days := daySet(dates)
	if len(days) == 0 {
		return 0
	}
	sorted := slices.SortedFunc(maps.Keys(days), compareDates)

	best, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].DaysSince(sorted[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}

// Consistency is the share of the windowDays calendar days ending at asOf that
// have an entry, as a whole percentage in [0,100]. A non-positive window uses
// DefaultWindowDays.
func Consistency(dates []id.Date, asOf id.Date, windowDays int) int {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	first := asOf.AddDays(-(windowDays - 1))
	covered := 0
	for d := range daySet(dates) {
		if !d.Before(first) && !d.After(asOf) {
			covered++
		}
	}
	pct := int(math.Round(float64(covered) * 100 / float64(windowDays)))
	return min(max(pct, 0), 100)
}

// Trend compares the mean of the first half of values with the mean of the
// second half, splitting at len/2.
func Trend(values []float64) (Direction, error) {
	first, second, err := halves(values)
	if err != nil {
		return "", err
	}
	switch {
	case second > first:
		return DirectionUp, nil
	case second < first:
		return DirectionDown, nil
	default:
		return DirectionStable, nil
	}
}

func halves(values []float64) (float64, float64, error) {
	if len(values) < 2 {
		return 0, 0, ErrInsufficientData
	}
	mid := len(values) / 2
	return mean(values[:mid]), mean(values[mid:]), nil
}

// Stats summarizes a numeric series. Trend and TrendPercent are empty for a
// single value.
type Stats struct {
	Count        int       `json:"count"`
	Mean         float64   `json:"mean"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Trend        Direction `json:"trend,omitempty"`
	TrendPercent int       `json:"trend_percent"`
}

// FieldStats summarizes values in chronological order. TrendPercent is the
// change of the second-half mean relative to a positive first-half mean.
func FieldStats(values []float64) (Stats, error) {
	if len(values) == 0 {
		return Stats{}, ErrInsufficientData
	}
	st := Stats{
		Count: len(values),
		Mean:  mean(values),
		Min:   slices.Min(values),
		Max:   slices.Max(values),
	}
	trend, err := Trend(values)
	if err != nil {
		return st, nil
	}
	st.Trend = trend
	first, second, _ := halves(values)
	if first > 0 {
		st.TrendPercent = int(math.Round((second - first) / first * 100))
	}
	return st, nil
}

// WeeklyStreak counts consecutive 7-day periods, the first ending at asOf,
// that each contain at least one entry.
func WeeklyStreak(dates []id.Date, asOf id.Date) int {
	days := daySet(dates)
	if len(days) == 0 {
		return 0
	}
	earliest := slices.MinFunc(slices.Collect(maps.Keys(days)), compareDates)

	streak := 0
	for end := asOf; !end.Before(earliest); end = end.AddDays(-7) {
		if !anyWithin(days, end.AddDays(-6), end) {
			break
		}
		streak++
	}
	return streak
}

func anyWithin(days map[id.Date]struct{}, from, to id.Date) bool {
	for d := from; !d.After(to); d = d.AddDays(1) {
		if _, ok := days[d]; ok {
			return true
		}
	}
	return false
}

// Point is one numeric answer on its entry date.
type Point struct {
	Date  id.Date `json:"date"`
	Value float64 `json:"value"`
}

// NumericSeries extracts fieldID's number or scale answers in chronological
// order. Entries without a numeric answer for the field are skipped.
func NumericSeries(entries []*models.Entry, fieldID string) []Point {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b *models.Entry) int {
		if c := compareDates(a.EntryDate, b.EntryDate); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	out := make([]Point, 0, len(sorted))
	for _, e := range sorted {
		v, ok := schema.Numeric(e.Data[fieldID])
		if !ok {
			continue
		}
		out = append(out, Point{Date: e.EntryDate, Value: v})
	}
	return out
}

// Values drops the dates from a series.
func Values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func compareDates(a, b id.Date) int {
	return a.Time().Compare(b.Time())
}
