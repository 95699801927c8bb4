package rain

import (
	"sort"
	"time"

	"github.com/jorgebusarello-maker/agro-pluv/internal/common"
)

// Aggregation over the raw measurement list. Every function here is
// pure: deterministic for a given (measurements, gauges, reference
// time) and free of side effects. Interval bounds are inclusive and
// compared as calendar days; measurements with unparseable dates are
// skipped rather than poisoning a total. Empty inputs always yield
// zero, never an error.

// dayOf truncates an instant to its calendar day, normalized to UTC
// midnight. Parsed measurement dates are UTC midnights already, so
// normalizing here keeps day comparisons independent of the process
// timezone.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// inDay reports whether day falls within [start, end], all three taken
// as calendar days with inclusive bounds.
func inDay(day, start, end time.Time) bool {
	return !day.Before(dayOf(start)) && !day.After(dayOf(end))
}

// TotalInInterval sums the amounts of all measurements dated within
// [start, end] inclusive.
func TotalInInterval(measurements []Measurement, start, end time.Time) float64 {
	var total float64
	for _, m := range measurements {
		d, err := ParseDate(m.Date)
		if err != nil {
			continue
		}
		if inDay(d, start, end) {
			total += m.Amount
		}
	}
	return total
}

// WeekBounds returns the Monday and Sunday of the week containing now.
func WeekBounds(now time.Time) (time.Time, time.Time) {
	day := dayOf(now)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// MonthBounds returns the first and last day of the month containing now.
func MonthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}

// WeeklyTotal sums the measurements of the Monday-start week containing now.
func WeeklyTotal(measurements []Measurement, now time.Time) float64 {
	start, end := WeekBounds(now)
	return TotalInInterval(measurements, start, end)
}

// MonthlyTotal sums the measurements of the calendar month containing now.
func MonthlyTotal(measurements []Measurement, now time.Time) float64 {
	start, end := MonthBounds(now)
	return TotalInInterval(measurements, start, end)
}

// SeasonTotal sums every measurement unconditionally. The selected
// season bounds deliberately do not filter this total; the dashboard
// has always shown the running all-time accumulation here.
func SeasonTotal(measurements []Measurement) float64 {
	var total float64
	for _, m := range measurements {
		total += m.Amount
	}
	return total
}

// MaxSingleReading returns the largest single amount, or 0 when there
// are no measurements.
func MaxSingleReading(measurements []Measurement) float64 {
	var max float64
	for _, m := range measurements {
		if m.Amount > max {
			max = m.Amount
		}
	}
	return max
}

// DailyAverage divides the overall accumulation by a fixed 30-day
// denominator. This is a deliberate simplification carried over from
// the dashboard: it does not window to the last 30 days nor count
// active days.
func DailyAverage(measurements []Measurement) float64 {
	return SeasonTotal(measurements) / 30
}

// DailyPoint is one bar of the daily series chart.
type DailyPoint struct {
	Label  string  `json:"label"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// weekdayLabels holds the pt-BR weekday abbreviations used as chart labels.
var weekdayLabels = [...]string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"}

// DailySeries produces one point per calendar day for the n days ending
// at ref (inclusive), oldest first. Each point is the day's total
// across all gauges divided by the gauge count (zero gauges yields
// zero), rounded to one decimal. The result always has exactly n
// entries regardless of how many measurements exist.
func DailySeries(measurements []Measurement, gauges []Gauge, n int, ref time.Time) []DailyPoint {
	points := make([]DailyPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := dayOf(ref).AddDate(0, 0, -i)
		dateStr := day.Format(DateLayout)

		var sum float64
		for _, m := range measurements {
			if m.Date == dateStr {
				sum += m.Amount
			}
		}

		var avg float64
		if len(gauges) > 0 {
			avg = sum / float64(len(gauges))
		}

		points = append(points, DailyPoint{
			Label:  weekdayLabels[int(day.Weekday())],
			Date:   dateStr,
			Amount: common.Round1(avg),
		})
	}
	return points
}

// AccumulatedPerGauge sums every measurement referencing the gauge.
// Used for map marker sizing and for the KML export annotation.
func AccumulatedPerGauge(measurements []Measurement, gaugeID string) float64 {
	var total float64
	for _, m := range measurements {
		if m.GaugeID == gaugeID {
			total += m.Amount
		}
	}
	return total
}

// GaugeName resolves a gauge ID to its display name. Dangling
// references resolve to the unknown-gauge placeholder.
func GaugeName(gauges []Gauge, id string) string {
	for _, g := range gauges {
		if g.ID == id {
			return g.Name
		}
	}
	return UnknownGaugeName
}

// SortedByDateDesc returns a copy of the measurements ordered newest
// first, the order the history table displays. ISO dates compare
// correctly as strings.
func SortedByDateDesc(measurements []Measurement) []Measurement {
	out := make([]Measurement, len(measurements))
	copy(out, measurements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Summary bundles the dashboard's headline statistics.
type Summary struct {
	DailyAverage float64 `json:"dailyAverage"`
	MaxReading   float64 `json:"maxReading"`
	WeeklyTotal  float64 `json:"weeklyTotal"`
	MonthlyTotal float64 `json:"monthlyTotal"`
	SeasonTotal  float64 `json:"seasonTotal"`
}

// Summarize computes all headline statistics for the given reference time.
func Summarize(measurements []Measurement, now time.Time) Summary {
	return Summary{
		DailyAverage: common.Round1(DailyAverage(measurements)),
		MaxReading:   MaxSingleReading(measurements),
		WeeklyTotal:  WeeklyTotal(measurements, now),
		MonthlyTotal: MonthlyTotal(measurements, now),
		SeasonTotal:  SeasonTotal(measurements),
	}
}
