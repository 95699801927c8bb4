package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorgebusarello-maker/agro-pluv/internal/rain"
	"github.com/jorgebusarello-maker/agro-pluv/internal/store"
	"github.com/jorgebusarello-maker/agro-pluv/internal/weather"
)

func newTestApp(t *testing.T) (*fiber.App, *rain.Service) {
	t.Helper()

	fileStore, err := store.Open(t.TempDir(), rain.AppState{
		SelectedSeasonStart: "2023-10-01",
		SelectedSeasonEnd:   "2024-05-31",
	})
	require.NoError(t, err)

	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC))
	svc := rain.NewService(fileStore, clock)

	app := fiber.New()
	home := weather.Coordinate{Label: "home", Lat: -15.78, Lng: -47.92}
	RegisterRoutes(app, svc, nil, home, clock)
	return app, svc
}

func doJSON(t *testing.T, app *fiber.App, method, target, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestGaugeEndpoints(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("create", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/gauges", `{"name":"Talhão 04","lat":-15.78,"lng":-47.92}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var g rain.Gauge
		decode(t, resp, &g)
		assert.NotEmpty(t, g.ID)
		assert.Equal(t, "Talhão 04", g.Name)
	})

	t.Run("missing name is a 400", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/gauges", `{"lat":-15.78,"lng":-47.92}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("non-numeric coordinate is a 400, never coerced", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/gauges", `{"name":"Sede","lat":"abc","lng":-47.92}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("list", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/gauges", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var gauges []rain.Gauge
		decode(t, resp, &gauges)
		assert.Len(t, gauges, 1)
	})

	t.Run("delete unknown id is a 204 no-op", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/v1/gauges/no-such-id", "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestMeasurementEndpoints(t *testing.T) {
	app, svc := newTestApp(t)

	g, err := svc.AddGauge("G1", -15.78, -47.92, "")
	require.NoError(t, err)

	t.Run("create", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/measurements",
			`{"gaugeId":"`+g.ID+`","date":"2024-01-10","amount":25.5}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var m rain.Measurement
		decode(t, resp, &m)
		assert.NotEmpty(t, m.ID)
		assert.Equal(t, 25.5, m.Amount)
	})

	t.Run("negative amount is a 400", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/measurements",
			`{"gaugeId":"`+g.ID+`","date":"2024-01-10","amount":-1}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid date is a 400", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/v1/measurements",
			`{"gaugeId":"`+g.ID+`","date":"10/01/2024","amount":1}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("edit unknown id is a 404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/v1/measurements/ghost",
			`{"gaugeId":"`+g.ID+`","date":"2024-01-10","amount":5}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete unknown id is a 204 no-op", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/v1/measurements/ghost", "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("history resolves dangling gauge to placeholder", func(t *testing.T) {
		_, err := svc.AddMeasurement("deleted-gauge", "2024-01-09", 3.0, "")
		require.NoError(t, err)

		resp := doJSON(t, app, http.MethodGet, "/api/v1/measurements", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var views []struct {
			rain.Measurement
			GaugeName string `json:"gaugeName"`
		}
		decode(t, resp, &views)
		require.Len(t, views, 2)

		// Date descending.
		assert.Equal(t, "2024-01-10", views[0].Date)
		assert.Equal(t, "G1", views[0].GaugeName)
		assert.Equal(t, rain.UnknownGaugeName, views[1].GaugeName)
	})
}

func TestStatsEndpoints(t *testing.T) {
	app, svc := newTestApp(t) // clock pinned to 2024-01-10

	g, err := svc.AddGauge("G1", -15.78, -47.92, "")
	require.NoError(t, err)
	_, err = svc.AddMeasurement(g.ID, "2024-01-10", 25.5, "")
	require.NoError(t, err)
	_, err = svc.AddMeasurement(g.ID, "2024-01-15", 10.0, "")
	require.NoError(t, err)

	t.Run("summary", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/stats/summary", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var s rain.Summary
		decode(t, resp, &s)
		assert.Equal(t, 25.5, s.MaxReading)
		assert.Equal(t, 25.5, s.WeeklyTotal)
		assert.Equal(t, 35.5, s.MonthlyTotal)
		assert.Equal(t, 35.5, s.SeasonTotal)
	})

	t.Run("daily series has exactly n entries", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/stats/daily?days=14", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var points []rain.DailyPoint
		decode(t, resp, &points)
		assert.Len(t, points, 14)
	})

	t.Run("days out of range is a 400", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/stats/daily?days=0", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/v1/stats/daily?days=99", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("accumulated per gauge", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/v1/gauges/"+g.ID+"/accumulated", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			GaugeID     string  `json:"gaugeId"`
			Accumulated float64 `json:"accumulated"`
		}
		decode(t, resp, &body)
		assert.Equal(t, 35.5, body.Accumulated)
	})
}

func TestExportEndpoint(t *testing.T) {
	app, svc := newTestApp(t)

	g, err := svc.AddGauge("Talhão 04", -15.78, -47.92, "")
	require.NoError(t, err)
	_, err = svc.AddMeasurement(g.ID, "2024-01-10", 25.5, "")
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/export/kml", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.google-earth.kml+xml", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "Mapa_Chuva_2024-01-10.kml")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(body), "<coordinates>-47.92,-15.78,0</coordinates>")
	assert.Contains(t, string(body), "Chuva Total Acumulada: 25.5 mm")
}

func TestWeatherEndpointDisabled(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/weather/current", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
