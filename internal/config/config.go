package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/jorgebusarello-maker/agro-pluv/internal/rain"
)

type AppConfig struct {
	Port    string
	DataDir string

	// Season bounds shown on the dashboard. Fixed at startup; no
	// operation mutates them.
	SeasonStart string
	SeasonEnd   string

	// Ambient weather collaborator.
	WeatherFetchInterval time.Duration // 0 disables the scheduler
	HomeLat              float64
	HomeLng              float64
	HTTPTimeout          time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:    getenvDefault("PORT", "8080"),
		DataDir: getenvDefault("DATA_DIR", "./data"),

		// Default to the 2023/2024 southern-hemisphere crop season.
		SeasonStart: getenvDefault("SEASON_START", "2023-10-01"),
		SeasonEnd:   getenvDefault("SEASON_END", "2024-05-31"),

		// Brasília, the fallback location when no gauge exists yet.
		HomeLat: getenvFloat("HOME_LAT", -15.78),
		HomeLng: getenvFloat("HOME_LNG", -47.92),
	}

	if _, err := rain.ParseDate(cfg.SeasonStart); err != nil {
		return nil, fmt.Errorf("invalid SEASON_START: %w", err)
	}
	if _, err := rain.ParseDate(cfg.SeasonEnd); err != nil {
		return nil, fmt.Errorf("invalid SEASON_END: %w", err)
	}

	intervalStr := getenvDefault("WEATHER_FETCH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_FETCH_INTERVAL: %w", err)
	}
	cfg.WeatherFetchInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
