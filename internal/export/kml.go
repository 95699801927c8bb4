// Package export renders the current gauge map as a KML document for
// use in Google Earth and farm-management GIS tools.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jorgebusarello-maker/agro-pluv/internal/common"
	"github.com/jorgebusarello-maker/agro-pluv/internal/rain"
)

// ContentType is the MIME type for KML downloads.
const ContentType = "application/vnd.google-earth.kml+xml"

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// GenerateKML emits one point placemark per gauge, annotated with the
// gauge's accumulated rainfall. KML coordinates are longitude-first.
func GenerateKML(gauges []rain.Gauge, measurements []rain.Measurement) string {
	var placemarks strings.Builder
	for _, gauge := range gauges {
		total := rain.AccumulatedPerGauge(measurements, gauge.ID)
		fmt.Fprintf(&placemarks, `
    <Placemark>
      <name>%s</name>
      <description>Chuva Total Acumulada: %s mm</description>
      <Point>
        <coordinates>%g,%g,0</coordinates>
      </Point>
    </Placemark>`,
			xmlEscaper.Replace(gauge.Name), common.FormatMM(total), gauge.Lng, gauge.Lat)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <name>Mapa de Chuva - AgroRain</name>
    <description>Monitoramento Pluviométrico da Safra</description>%s
  </Document>
</kml>`, placemarks.String())
}

// FileName builds the dated download name, e.g. "Mapa_Chuva_2024-01-15.kml".
func FileName(now time.Time) string {
	return fmt.Sprintf("Mapa_Chuva_%s.kml", now.Format(rain.DateLayout))
}
