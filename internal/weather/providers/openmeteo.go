package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jorgebusarello-maker/agro-pluv/internal/weather"
	"github.com/sony/gobreaker"
)

const openMeteoCurrentFields = "temperature_2m,relative_humidity_2m,precipitation,wind_speed_10m"

// OpenMeteoProvider implements the weather.Provider interface for
// Open-Meteo, which serves current conditions by coordinate without an
// API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		client:  client,
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// openMeteoResponse mirrors the subset of the Open-Meteo payload we use.
type openMeteoResponse struct {
	Current struct {
		Time          string  `json:"time"`
		Temperature   float64 `json:"temperature_2m"`
		Humidity      float64 `json:"relative_humidity_2m"`
		Precipitation float64 `json:"precipitation"`
		WindSpeed     float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, coord weather.Coordinate) (weather.ProviderReading, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", coord.Lat))
	values.Set("longitude", fmt.Sprintf("%f", coord.Lng))
	values.Set("current", openMeteoCurrentFields)

	resp, err := getWithResilience(ctx, p.client, p.circuit, fmt.Sprintf("%s?%s", p.baseURL, values.Encode()))
	if err != nil {
		return weather.ProviderReading{}, fmt.Errorf("openmeteo fetch: %w", err)
	}
	defer resp.Body.Close()

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("openmeteo decode: %w", err)
	}

	ts, err := time.Parse("2006-01-02T15:04", payload.Current.Time)
	if err != nil {
		ts = time.Now().UTC()
	}

	return weather.ProviderReading{
		ProviderName: p.name,
		Timestamp:    ts.UTC(),
		TemperatureC: payload.Current.Temperature,
		HumidityPct:  payload.Current.Humidity,
		PrecipMM:     payload.Current.Precipitation,
		WindSpeedKmh: payload.Current.WindSpeed,
	}, nil
}
