package httpapi

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"

	"github.com/jorgebusarello-maker/agro-pluv/internal/export"
	"github.com/jorgebusarello-maker/agro-pluv/internal/rain"
	"github.com/jorgebusarello-maker/agro-pluv/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
// weatherSvc may be nil when the ambient weather collaborator is disabled.
func RegisterRoutes(app *fiber.App, rainSvc *rain.Service, weatherSvc *weather.Service, home weather.Coordinate, clock clockwork.Clock) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	v1 := app.Group("/api/v1")

	registerGaugeRoutes(v1, rainSvc)
	registerMeasurementRoutes(v1, rainSvc)
	registerStatsRoutes(v1, rainSvc)

	v1.Get("/export/kml", func(c *fiber.Ctx) error {
		state := rainSvc.State()
		doc := export.GenerateKML(state.Gauges, state.Measurements)

		c.Set(fiber.HeaderContentType, export.ContentType)
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename=%q`, export.FileName(clock.Now())))
		return c.SendString(doc)
	})

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		if weatherSvc == nil {
			return fiber.NewError(fiber.StatusNotFound, "weather collaborator is disabled")
		}
		reading, err := weatherSvc.Latest(home)
		if err != nil {
			if errors.Is(err, weather.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather reading available yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read weather data")
		}
		return c.JSON(reading)
	})
}

// gaugeRequest is the payload for creating a gauge. Lat/Lng are plain
// JSON numbers; non-numeric input fails at decode time with a 400
// rather than being coerced.
type gaugeRequest struct {
	Name   string  `json:"name" validate:"required"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	AreaID string  `json:"areaId"`
}

func registerGaugeRoutes(v1 fiber.Router, svc *rain.Service) {
	v1.Get("/gauges", func(c *fiber.Ctx) error {
		return c.JSON(svc.State().Gauges)
	})

	v1.Post("/gauges", func(c *fiber.Ctx) error {
		var req gaugeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		gauge, err := svc.AddGauge(req.Name, req.Lat, req.Lng, req.AreaID)
		if err != nil {
			return mapServiceError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(gauge)
	})

	v1.Delete("/gauges/:id", func(c *fiber.Ctx) error {
		if err := svc.DeleteGauge(c.Params("id")); err != nil {
			return mapServiceError(err)
		}
		// Deleting an unknown ID is a no-op, not an error.
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/gauges/:id/accumulated", func(c *fiber.Ctx) error {
		id := c.Params("id")
		return c.JSON(fiber.Map{
			"gaugeId":     id,
			"accumulated": svc.Accumulated(id),
		})
	})
}

// measurementRequest is the payload for creating or editing a measurement.
type measurementRequest struct {
	GaugeID string  `json:"gaugeId" validate:"required"`
	Date    string  `json:"date" validate:"required,datetime=2006-01-02"`
	Amount  float64 `json:"amount" validate:"gte=0"`
	Notes   string  `json:"notes"`
}

// measurementView is a measurement enriched with its resolved gauge
// name for display. Dangling gauge references resolve to a placeholder.
type measurementView struct {
	rain.Measurement
	GaugeName string `json:"gaugeName"`
}

func registerMeasurementRoutes(v1 fiber.Router, svc *rain.Service) {
	v1.Get("/measurements", func(c *fiber.Ctx) error {
		state := svc.State()

		sorted := rain.SortedByDateDesc(state.Measurements)
		views := make([]measurementView, 0, len(sorted))
		for _, m := range sorted {
			views = append(views, measurementView{
				Measurement: m,
				GaugeName:   rain.GaugeName(state.Gauges, m.GaugeID),
			})
		}
		return c.JSON(views)
	})

	v1.Post("/measurements", func(c *fiber.Ctx) error {
		var req measurementRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		m, err := svc.AddMeasurement(req.GaugeID, req.Date, req.Amount, req.Notes)
		if err != nil {
			return mapServiceError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	})

	v1.Put("/measurements/:id", func(c *fiber.Ctx) error {
		var req measurementRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		updated := rain.Measurement{
			ID:      c.Params("id"),
			GaugeID: req.GaugeID,
			Date:    req.Date,
			Amount:  req.Amount,
			Notes:   req.Notes,
		}
		if err := svc.EditMeasurement(updated); err != nil {
			return mapServiceError(err)
		}
		return c.JSON(updated)
	})

	v1.Delete("/measurements/:id", func(c *fiber.Ctx) error {
		if err := svc.DeleteMeasurement(c.Params("id")); err != nil {
			return mapServiceError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func registerStatsRoutes(v1 fiber.Router, svc *rain.Service) {
	v1.Get("/stats/summary", func(c *fiber.Ctx) error {
		return c.JSON(svc.Summary())
	})

	v1.Get("/stats/daily", func(c *fiber.Ctx) error {
		days := c.QueryInt("days", 7)
		if days < 1 || days > 31 {
			return fiber.NewError(fiber.StatusBadRequest, "days must be between 1 and 31")
		}
		return c.JSON(svc.DailySeries(days))
	})
}

// mapServiceError translates domain errors into HTTP responses.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, rain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, rain.ErrEmptyName), errors.Is(err, rain.ErrInvalidAmount),
		errors.Is(err, rain.ErrInvalidDate), errors.Is(err, rain.ErrInvalidCoordinate):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
