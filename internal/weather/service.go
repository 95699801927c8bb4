package weather

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Service orchestrates fetching from the configured providers and
// caching the aggregated reading per coordinate.
type Service struct {
	cache     *Cache
	providers []Provider
}

// NewService creates a Service.
func NewService(cache *Cache, providers []Provider) *Service {
	return &Service{cache: cache, providers: providers}
}

// FetchAndStore queries all providers concurrently for the coordinate,
// aggregates the successful readings, and caches the result. Partial
// provider failure is tolerated; total failure keeps the last good
// cached reading.
func (s *Service) FetchAndStore(ctx context.Context, coord Coordinate) error {
	if len(s.providers) == 0 {
		return fmt.Errorf("no weather providers configured")
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		readings []ProviderReading
	)

	for _, p := range s.providers {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := p.Fetch(ctx, coord)
			if err != nil {
				log.Printf("provider %s fetch failed for %s: %v", p.Name(), coord.Key(), err)
				return
			}

			mu.Lock()
			readings = append(readings, r)
			mu.Unlock()
		}()
	}

	wg.Wait()

	if len(readings) == 0 {
		log.Printf("no successful provider readings for %s; keeping last good reading if any", coord.Key())
		return nil
	}

	s.cache.Save(aggregate(coord, readings))
	return nil
}

// Latest returns the cached reading for a coordinate.
func (s *Service) Latest(coord Coordinate) (Reading, error) {
	return s.cache.Latest(coord)
}

// aggregate averages the numeric fields of the provider readings and
// stamps the result with the newest provider timestamp.
func aggregate(coord Coordinate, readings []ProviderReading) Reading {
	var (
		sumTemp     float64
		sumHumidity float64
		sumPrecip   float64
		sumWind     float64
		newestTS    time.Time
	)

	providers := make([]string, 0, len(readings))
	for _, r := range readings {
		sumTemp += r.TemperatureC
		sumHumidity += r.HumidityPct
		sumPrecip += r.PrecipMM
		sumWind += r.WindSpeedKmh
		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}
		providers = append(providers, r.ProviderName)
	}

	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}

	n := float64(len(readings))
	return Reading{
		Coordinate:   coord,
		Timestamp:    newestTS,
		TemperatureC: sumTemp / n,
		HumidityPct:  sumHumidity / n,
		PrecipMM:     sumPrecip / n,
		WindSpeedKmh: sumWind / n,
		Providers:    providers,
	}
}
