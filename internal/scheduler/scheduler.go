package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jorgebusarello-maker/agro-pluv/internal/rain"
	"github.com/jorgebusarello-maker/agro-pluv/internal/weather"
)

// Scheduler periodically refreshes ambient conditions for the home
// location and for every registered gauge.
type Scheduler struct {
	scheduler *gocron.Scheduler
	weather   *weather.Service
	rain      *rain.Service
	home      weather.Coordinate
	interval  time.Duration
}

// New creates a Scheduler.
func New(home weather.Coordinate, interval time.Duration, ws *weather.Service, rs *rain.Service) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		weather:   ws,
		rain:      rs,
		home:      home,
		interval:  interval,
	}
}

// coordinates returns the home location plus one coordinate per gauge.
func (s *Scheduler) coordinates() []weather.Coordinate {
	coords := []weather.Coordinate{s.home}
	for _, g := range s.rain.State().Gauges {
		coords = append(coords, weather.Coordinate{Label: g.Name, Lat: g.Lat, Lng: g.Lng})
	}
	return coords
}

// effectiveInterval falls back to 15 minutes when no positive interval
// was configured. Sub-minute intervals are kept as given.
func (s *Scheduler) effectiveInterval() time.Duration {
	if s.interval <= 0 {
		return 15 * time.Minute
	}
	return s.interval
}

// Start schedules the periodic refresh job and runs it once up front so
// the dashboard has conditions soon after boot.
func (s *Scheduler) Start() error {
	interval := s.effectiveInterval()

	job := func() {
		log.Println("scheduler: refreshing ambient conditions")

		var wg sync.WaitGroup
		for _, coord := range s.coordinates() {
			coord := coord
			wg.Add(1)
			go func() {
				defer wg.Done()

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := s.weather.FetchAndStore(ctx, coord); err != nil {
					log.Printf("scheduler: fetch failed for %s: %v", coord.Key(), err)
				}
			}()
		}
		wg.Wait()
	}

	// gocron takes the duration directly, keeping its full resolution.
	if _, err := s.scheduler.Every(interval).Do(job); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	go job()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
