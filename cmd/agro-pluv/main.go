package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"

	httpapi "github.com/jorgebusarello-maker/agro-pluv/internal/api/http"
	"github.com/jorgebusarello-maker/agro-pluv/internal/config"
	"github.com/jorgebusarello-maker/agro-pluv/internal/rain"
	"github.com/jorgebusarello-maker/agro-pluv/internal/scheduler"
	"github.com/jorgebusarello-maker/agro-pluv/internal/store"
	"github.com/jorgebusarello-maker/agro-pluv/internal/weather"
	"github.com/jorgebusarello-maker/agro-pluv/internal/weather/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Durable state: a single JSON snapshot rehydrated at startup.
	fileStore, err := store.Open(cfg.DataDir, rain.AppState{
		SelectedSeasonStart: cfg.SeasonStart,
		SelectedSeasonEnd:   cfg.SeasonEnd,
	})
	if err != nil {
		log.Fatalf("failed to open state store: %v", err)
	}

	clock := clockwork.NewRealClock()
	rainSvc := rain.NewService(fileStore, clock)

	// Ambient weather collaborator: readings are cached in memory and
	// never written into the persisted state.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	home := weather.Coordinate{Label: "home", Lat: cfg.HomeLat, Lng: cfg.HomeLng}

	var weatherSvc *weather.Service
	if cfg.WeatherFetchInterval > 0 {
		cache := weather.NewCache(2 * cfg.WeatherFetchInterval)
		weatherSvc = weather.NewService(cache, []weather.Provider{
			providers.NewOpenMeteoProvider(httpClient),
		})

		sched := scheduler.New(home, cfg.WeatherFetchInterval, weatherSvc, rainSvc)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("INFO: weather fetch disabled (WEATHER_FETCH_INTERVAL=0)")
	}

	app := fiber.New(fiber.Config{
		AppName:               "agro-pluv",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "agro-pluv",
		})
	})

	httpapi.RegisterRoutes(app, rainSvc, weatherSvc, home, clock)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
