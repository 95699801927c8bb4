package rain

import "time"

// DateLayout is the calendar-day format used for measurement dates and
// season bounds. Measurements carry no time component; the date is the
// day the rain fell, not when it was entered.
const DateLayout = "2006-01-02"

// UnknownGaugeName is the display label for measurements whose gauge
// has since been deleted.
const UnknownGaugeName = "Desconhecido"

// Gauge represents a physical rain collector at a fixed coordinate.
type Gauge struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	AreaID string  `json:"areaId,omitempty"`
}

// Measurement is a single rainfall event recorded against one gauge.
// GaugeID is not guaranteed to reference a live gauge: deleting a gauge
// does not cascade, so consumers must tolerate dangling references.
type Measurement struct {
	ID      string  `json:"id"`
	GaugeID string  `json:"gaugeId"`
	Date    string  `json:"date"`   // YYYY-MM-DD
	Amount  float64 `json:"amount"` // millimeters
	Notes   string  `json:"notes,omitempty"`
}

// AppState is the root aggregate persisted as a single snapshot.
// Gauges keep insertion order (display order); measurement order is
// irrelevant and re-sorted by date for display.
type AppState struct {
	Gauges              []Gauge       `json:"gauges"`
	Measurements        []Measurement `json:"measurements"`
	SelectedSeasonStart string        `json:"selectedSeasonStart"`
	SelectedSeasonEnd   string        `json:"selectedSeasonEnd"`
}

// Clone returns a deep copy so callers can never alias the slices of a
// stored state. Mutation operations rely on this for copy-on-write.
func (s AppState) Clone() AppState {
	out := s
	out.Gauges = make([]Gauge, len(s.Gauges))
	copy(out.Gauges, s.Gauges)
	out.Measurements = make([]Measurement, len(s.Measurements))
	copy(out.Measurements, s.Measurements)
	return out
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
