package rain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrNotFound is returned when an edit targets a measurement ID
	// that does not exist. Deletes of missing IDs are silent no-ops.
	ErrNotFound = errors.New("measurement not found")

	// ErrEmptyName is returned when a gauge is created without a name.
	ErrEmptyName = errors.New("gauge name is required")

	// ErrInvalidAmount is returned for negative or non-finite amounts.
	ErrInvalidAmount = errors.New("amount must be a non-negative number")

	// ErrInvalidDate is returned when a measurement date does not parse
	// as a YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("date must be a valid YYYY-MM-DD calendar date")

	// ErrInvalidCoordinate is returned for NaN or infinite coordinates.
	ErrInvalidCoordinate = errors.New("coordinates must be finite numbers")
)

// Store is the contract the persistent state store must satisfy.
// Current must return a state the caller may freely modify (a copy);
// Replace must atomically swap and persist the full snapshot.
type Store interface {
	Current() AppState
	Replace(state AppState) error
}

// Service owns all state transitions. Every operation is copy-on-write:
// it reads the current state, builds new collections, and replaces the
// snapshot as a whole. The service is the single writer; the prior
// state value is never mutated in place.
type Service struct {
	store Store
	clock clockwork.Clock
}

// NewService creates a Service. Pass a nil clock to use real time.
func NewService(store Store, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{store: store, clock: clock}
}

// State returns a snapshot of the current application state.
func (s *Service) State() AppState {
	return s.store.Current()
}

// AddGauge creates a gauge with a fresh unique ID and appends it.
// Duplicate names and coordinates are permitted; only the ID is unique.
func (s *Service) AddGauge(name string, lat, lng float64, areaID string) (Gauge, error) {
	if strings.TrimSpace(name) == "" {
		return Gauge{}, ErrEmptyName
	}
	if !finite(lat) || !finite(lng) {
		return Gauge{}, ErrInvalidCoordinate
	}

	gauge := Gauge{
		ID:     uuid.NewString(),
		Name:   name,
		Lat:    lat,
		Lng:    lng,
		AreaID: areaID,
	}

	state := s.store.Current()
	state.Gauges = append(state.Gauges, gauge)
	if err := s.store.Replace(state); err != nil {
		return Gauge{}, fmt.Errorf("persist gauge: %w", err)
	}
	return gauge, nil
}

// DeleteGauge removes the gauge with the given ID. Missing IDs are a
// silent no-op. Measurements referencing the gauge are left intact;
// their display name resolves to the unknown-gauge placeholder.
func (s *Service) DeleteGauge(id string) error {
	state := s.store.Current()

	kept := make([]Gauge, 0, len(state.Gauges))
	for _, g := range state.Gauges {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	if len(kept) == len(state.Gauges) {
		return nil
	}

	state.Gauges = kept
	if err := s.store.Replace(state); err != nil {
		return fmt.Errorf("persist gauge delete: %w", err)
	}
	return nil
}

// AddMeasurement records a rainfall event with a fresh unique ID.
// The gauge reference is intentionally not checked for existence;
// readers resolve unknown gauges to a placeholder label.
func (s *Service) AddMeasurement(gaugeID, date string, amount float64, notes string) (Measurement, error) {
	if amount < 0 || !finite(amount) {
		return Measurement{}, ErrInvalidAmount
	}
	if _, err := ParseDate(date); err != nil {
		return Measurement{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	m := Measurement{
		ID:      uuid.NewString(),
		GaugeID: gaugeID,
		Date:    date,
		Amount:  amount,
		Notes:   notes,
	}

	state := s.store.Current()
	state.Measurements = append(state.Measurements, m)
	if err := s.store.Replace(state); err != nil {
		return Measurement{}, fmt.Errorf("persist measurement: %w", err)
	}
	return m, nil
}

// EditMeasurement replaces the measurement whose ID matches updated.ID,
// keeping its position. Returns ErrNotFound when the ID is unknown.
func (s *Service) EditMeasurement(updated Measurement) error {
	if updated.Amount < 0 || !finite(updated.Amount) {
		return ErrInvalidAmount
	}
	if _, err := ParseDate(updated.Date); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, updated.Date)
	}

	state := s.store.Current()
	found := false
	for i, m := range state.Measurements {
		if m.ID == updated.ID {
			state.Measurements[i] = updated
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}

	if err := s.store.Replace(state); err != nil {
		return fmt.Errorf("persist measurement edit: %w", err)
	}
	return nil
}

// DeleteMeasurement removes the measurement with the given ID. Missing
// IDs are a silent no-op.
func (s *Service) DeleteMeasurement(id string) error {
	state := s.store.Current()

	kept := make([]Measurement, 0, len(state.Measurements))
	for _, m := range state.Measurements {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(state.Measurements) {
		return nil
	}

	state.Measurements = kept
	if err := s.store.Replace(state); err != nil {
		return fmt.Errorf("persist measurement delete: %w", err)
	}
	return nil
}

// Summary computes the dashboard statistics relative to the injected clock.
func (s *Service) Summary() Summary {
	state := s.store.Current()
	return Summarize(state.Measurements, s.clock.Now())
}

// DailySeries returns the last-n-days chart series relative to the
// injected clock.
func (s *Service) DailySeries(n int) []DailyPoint {
	state := s.store.Current()
	return DailySeries(state.Measurements, state.Gauges, n, s.clock.Now())
}

// Accumulated returns the total rainfall recorded against one gauge.
func (s *Service) Accumulated(gaugeID string) float64 {
	state := s.store.Current()
	return AccumulatedPerGauge(state.Measurements, gaugeID)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
