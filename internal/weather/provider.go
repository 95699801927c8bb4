package weather

import (
	"context"
	"time"
)

// ProviderReading is a single provider's normalized observation before
// aggregation into a Reading.
type ProviderReading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC float64
	HumidityPct  float64
	PrecipMM     float64
	WindSpeedKmh float64
}

// Provider abstracts a current-conditions data source (e.g. Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, coord Coordinate) (ProviderReading, error)
}
