package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/kyxap1/geoip-legacy/internal/types"
)

const defaultMapHeight = 400

// mapCSP relaxes the default policy for the inline sizing style on the map
// container. Scripts stay limited to the page's own origin.
const mapCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'"

var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Locations</title></head>
<body>
<div id="map" style="{{.Style}}" data-resize="false">
<ul>
{{- range .Locations}}
<li class="marker" data-ip="{{.IP}}" data-lat="{{.Lat}}" data-lng="{{.Lng}}">{{.IP}}: {{.Lat}}, {{.Lng}}</li>
{{- end}}
</ul>
</div>
<script type="application/json" id="locations">{{.Locations}}</script>
</body>
</html>
`))

type mapPage struct {
	Style     template.CSS
	Locations []types.BatchLocation
}

// mapStyle sizes the map container: width in pixels or full width when 0,
// height in pixels.
func mapStyle(width, height int) template.CSS {
	w := "100%"
	if width > 0 {
		w = fmt.Sprintf("%dpx", width)
	}
	return template.CSS(fmt.Sprintf("width: %s; height: %dpx", w, height))
}

func positiveInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid dimension %q", s)
	}
	return n, nil
}

// MapHandler renders a page with one marker per address in ip_string.
// Addresses that cannot be resolved are placed at 0,0.
func (h *APIHandler) MapHandler(w http.ResponseWriter, r *http.Request) {
	width, err := positiveInt(r.FormValue("width"), 0)
	if err != nil {
		h.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := positiveInt(r.FormValue("height"), defaultMapHeight)
	if err != nil {
		h.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	ips := splitIPList(r.FormValue("ip_string"))
	if len(ips) > h.batchMax {
		h.sendJSONError(w, http.StatusBadRequest, fmt.Sprintf("too many addresses: %d > %d", len(ips), h.batchMax))
		return
	}

	locations, err := h.dbManager.GetLocations(r.Context(), ips)
	if err != nil {
		h.sendJSONError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if locations == nil {
		locations = []types.BatchLocation{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", mapCSP)
	if err := mapTemplate.Execute(w, mapPage{Style: mapStyle(width, height), Locations: locations}); err != nil {
		h.logger.Warnf("Failed to render map: %v", err)
	}
}
