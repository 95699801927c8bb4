// Package weather fetches ambient conditions for gauge coordinates.
// Readings are displayed alongside the rainfall data but are never
// written into the persisted application state.
package weather

import (
	"fmt"
	"time"
)

// Coordinate is a labeled point we track conditions for: the configured
// home location plus each gauge's position.
type Coordinate struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// Key returns a canonical string key for indexing this coordinate.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.4f:%.4f", c.Lat, c.Lng)
}

// Reading is a normalized current-conditions snapshot for a coordinate.
type Reading struct {
	Coordinate   Coordinate `json:"coordinate"`
	Timestamp    time.Time  `json:"timestamp"` // always UTC
	TemperatureC float64    `json:"temperatureC"`
	HumidityPct  float64    `json:"humidityPercent"`
	PrecipMM     float64    `json:"precipMm"`
	WindSpeedKmh float64    `json:"windSpeedKmh"`

	// Providers contributing to this reading.
	Providers []string `json:"providers,omitempty"`
}
