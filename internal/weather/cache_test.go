package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	coord := Coordinate{Label: "home", Lat: -15.78, Lng: -47.92}

	t.Run("empty cache misses", func(t *testing.T) {
		c := NewCache(0)
		_, err := c.Latest(coord)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("save then latest", func(t *testing.T) {
		c := NewCache(0)
		c.Save(Reading{Coordinate: coord, Timestamp: time.Now().UTC(), TemperatureC: 28.5})

		got, err := c.Latest(coord)
		require.NoError(t, err)
		assert.Equal(t, 28.5, got.TemperatureC)
	})

	t.Run("newer reading replaces older", func(t *testing.T) {
		c := NewCache(0)
		c.Save(Reading{Coordinate: coord, Timestamp: time.Now().UTC(), TemperatureC: 20})
		c.Save(Reading{Coordinate: coord, Timestamp: time.Now().UTC(), TemperatureC: 31})

		got, err := c.Latest(coord)
		require.NoError(t, err)
		assert.Equal(t, 31.0, got.TemperatureC)
	})

	t.Run("expired reading misses", func(t *testing.T) {
		c := NewCache(time.Minute)
		c.Save(Reading{Coordinate: coord, Timestamp: time.Now().Add(-time.Hour)})

		_, err := c.Latest(coord)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("coordinates are independent", func(t *testing.T) {
		c := NewCache(0)
		c.Save(Reading{Coordinate: coord, Timestamp: time.Now().UTC()})

		other := Coordinate{Label: "talhao", Lat: -10, Lng: -50}
		_, err := c.Latest(other)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAggregate(t *testing.T) {
	coord := Coordinate{Label: "home", Lat: -15.78, Lng: -47.92}
	newer := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)

	readings := []ProviderReading{
		{ProviderName: "a", Timestamp: older, TemperatureC: 20, HumidityPct: 60, PrecipMM: 1, WindSpeedKmh: 10},
		{ProviderName: "b", Timestamp: newer, TemperatureC: 30, HumidityPct: 80, PrecipMM: 3, WindSpeedKmh: 14},
	}

	got := aggregate(coord, readings)

	assert.Equal(t, coord, got.Coordinate)
	assert.Equal(t, newer, got.Timestamp)
	assert.Equal(t, 25.0, got.TemperatureC)
	assert.Equal(t, 70.0, got.HumidityPct)
	assert.Equal(t, 2.0, got.PrecipMM)
	assert.Equal(t, 12.0, got.WindSpeedKmh)
	assert.Equal(t, []string{"a", "b"}, got.Providers)
}
