package handlers

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/kyxap1/geoip-legacy/internal/geoip"
	"github.com/kyxap1/geoip-legacy/internal/legacydb"
	"github.com/kyxap1/geoip-legacy/internal/types"
)

// DefaultBatchMax caps the number of addresses in one /locations request
const DefaultBatchMax = 100

// APIHandler handles HTTP requests
type APIHandler struct {
	dbManager geoip.DatabaseManagerInterface
	logger    *logrus.Logger
	limiter   *rate.Limiter
	batchMax  int
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error     string `json:"error" xml:"error"`
	Message   string `json:"message" xml:"message"`
	Timestamp string `json:"timestamp" xml:"timestamp"`
	Status    int    `json:"status" xml:"status"`
}

// LocationsResponse is the body of /locations
type LocationsResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// TimeZoneResponse is the body of /timezone
type TimeZoneResponse struct {
	IP       string `json:"ip" xml:"ip"`
	TimeZone string `json:"time_zone" xml:"time_zone"`
	Known    bool   `json:"known" xml:"known"`
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(dbManager geoip.DatabaseManagerInterface, logger *logrus.Logger) *APIHandler {
	return &APIHandler{
		dbManager: dbManager,
		logger:    logger,
		batchMax:  DefaultBatchMax,
	}
}

// WithRateLimit limits the whole API to rps requests per second with the
// given burst. A non-positive rps disables limiting.
func (h *APIHandler) WithRateLimit(rps float64, burst int) *APIHandler {
	if rps <= 0 {
		h.limiter = nil
		return h
	}
	h.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return h
}

// WithBatchMax sets the maximum number of addresses per batch request
func (h *APIHandler) WithBatchMax(n int) *APIHandler {
	if n > 0 {
		h.batchMax = n
	}
	return h
}

// statusForError maps lookup errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, legacydb.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, legacydb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, geoip.ErrNotInitialized), errors.Is(err, legacydb.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func newErrorResponse(statusCode int, errorMsg string) ErrorResponse {
	return ErrorResponse{
		Error:     http.StatusText(statusCode),
		Message:   errorMsg,
		Timestamp: time.Now().Format(time.RFC3339),
		Status:    statusCode,
	}
}

// sendJSONError sends a standardized JSON error response
func (h *APIHandler) sendJSONError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(newErrorResponse(statusCode, errorMsg))
}

// sendXMLError sends a standardized XML error response
func (h *APIHandler) sendXMLError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(newErrorResponse(statusCode, errorMsg))
}

// sendCSVError sends a standardized CSV error response
func (h *APIHandler) sendCSVError(w http.ResponseWriter, statusCode int, errorMsg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, "Error: %s\nMessage: %s\nStatus: %d\nTimestamp: %s\n",
		http.StatusText(statusCode),
		errorMsg,
		statusCode,
		time.Now().Format(time.RFC3339),
	)
}

// getClientIP extracts the client IP from the request
func (h *APIHandler) getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// The first entry is the originating client.
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// lookupIP returns the address a request asks about: the {ip} path variable,
// or the caller's own address.
func (h *APIHandler) lookupIP(r *http.Request) string {
	if ip, ok := mux.Vars(r)["ip"]; ok {
		return ip
	}
	return h.getClientIP(r)
}

// logStructuredRequest logs the request with structured data
func (h *APIHandler) logStructuredRequest(r *http.Request, status int, duration time.Duration, clientIP string, responseSize int64) {
	fields := logrus.Fields{
		"method":        r.Method,
		"path":          r.URL.Path,
		"query":         r.URL.RawQuery,
		"status":        status,
		"duration_ms":   duration.Milliseconds(),
		"client_ip":     clientIP,
		"user_agent":    r.UserAgent(),
		"referer":       r.Referer(),
		"response_size": responseSize,
		"remote_addr":   r.RemoteAddr,
		"host":          r.Host,
	}
	if ip, ok := mux.Vars(r)["ip"]; ok {
		fields["lookup_ip"] = ip
	}

	entry := h.logger.WithFields(fields)
	if status >= http.StatusInternalServerError {
		entry.Error("request_processed")
		return
	}
	entry.Info("request_processed")
}

// middleware wraps handlers with logging, rate limiting and security headers
func (h *APIHandler) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		if h.limiter != nil && !h.limiter.Allow() {
			wrapped.Header().Set("Retry-After", "1")
			h.sendJSONError(wrapped, http.StatusTooManyRequests, "rate limit exceeded")
		} else {
			next(wrapped, r)
		}

		h.logStructuredRequest(r, wrapped.statusCode, time.Since(startTime), h.getClientIP(r), wrapped.size)
	}
}

// responseWriter wraps http.ResponseWriter to capture status and body size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += int64(size)
	return size, err
}

// JSONHandler returns the full record as JSON
func (h *APIHandler) JSONHandler(w http.ResponseWriter, r *http.Request) {
	info, err := h.dbManager.GetLocationInfo(h.lookupIP(r))
	if err != nil {
		h.sendJSONError(w, statusForError(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// XMLHandler returns the full record as XML
func (h *APIHandler) XMLHandler(w http.ResponseWriter, r *http.Request) {
	info, err := h.dbManager.GetLocationInfo(h.lookupIP(r))
	if err != nil {
		h.sendXMLError(w, statusForError(err), err.Error())
		return
	}

	type xmlResponse struct {
		XMLName xml.Name `xml:"location"`
		*types.LocationInfo
	}

	w.Header().Set("Content-Type", "application/xml")
	w.Write([]byte(xml.Header))
	xml.NewEncoder(w).Encode(xmlResponse{LocationInfo: info})
}

// CSVHandler returns the full record as a header row and a data row
func (h *APIHandler) CSVHandler(w http.ResponseWriter, r *http.Request) {
	info, err := h.dbManager.GetLocationInfo(h.lookupIP(r))
	if err != nil {
		h.sendCSVError(w, statusForError(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	writer := csv.NewWriter(w)
	writer.Write(types.CSVHeader())
	writer.Write(info.CSVRecord())
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Warnf("Failed to write CSV response: %v", err)
	}
}

// LocationHandler returns only {lat, lng}
func (h *APIHandler) LocationHandler(w http.ResponseWriter, r *http.Request) {
	loc, err := h.dbManager.GetLocation(h.lookupIP(r))
	if err != nil {
		h.sendJSONError(w, statusForError(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loc)
}

// TimeZoneHandler returns the time zone name. Addresses without a known zone
// get an empty name and known=false.
func (h *APIHandler) TimeZoneHandler(w http.ResponseWriter, r *http.Request) {
	ip := h.lookupIP(r)
	name, ok, err := h.dbManager.GetTimeZone(ip)
	if err != nil {
		h.sendJSONError(w, statusForError(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TimeZoneResponse{IP: ip, TimeZone: name, Known: ok})
}

// splitIPList parses a comma separated ip_string. Blank entries are dropped.
func splitIPList(s string) []string {
	var ips []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ips = append(ips, part)
		}
	}
	return ips
}

// LocationsHandler resolves a comma separated ip_string (query or form)
// into a list of coordinates. Addresses that cannot be resolved get {0, 0}.
func (h *APIHandler) LocationsHandler(w http.ResponseWriter, r *http.Request) {
	ips := splitIPList(r.FormValue("ip_string"))
	if len(ips) > h.batchMax {
		h.sendJSONError(w, http.StatusBadRequest, fmt.Sprintf("too many addresses: %d > %d", len(ips), h.batchMax))
		return
	}

	w.Header().Set("Content-Type", "application/json")

	results, err := h.dbManager.GetLocations(r.Context(), ips)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(LocationsResponse{Status: "error", Data: err.Error()})
		return
	}
	if results == nil {
		results = []types.BatchLocation{}
	}
	json.NewEncoder(w).Encode(LocationsResponse{Status: "success", Data: results})
}

// HealthHandler reports whether a database is loaded
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if loaded, _ := h.dbManager.GetDatabaseStatus()["loaded"].(bool); !loaded {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// StatsHandler handles cache statistics requests
func (h *APIHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.dbManager.GetCacheStats())
}

// StatusHandler returns database file and header information
func (h *APIHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.dbManager.GetDatabaseStatus())
}

// SetupRoutes configures all HTTP routes. Fixed paths are registered before
// the catch-all /{ip} route.
func (h *APIHandler) SetupRoutes() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.middleware(h.HealthHandler)).Methods("GET")
	router.HandleFunc("/stats", h.middleware(h.StatsHandler)).Methods("GET")
	router.HandleFunc("/status", h.middleware(h.StatusHandler)).Methods("GET")
	router.HandleFunc("/locations", h.middleware(h.LocationsHandler)).Methods("GET", "POST")
	router.HandleFunc("/map", h.middleware(h.MapHandler)).Methods("GET")
	router.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods("GET")

	for prefix, handler := range map[string]http.HandlerFunc{
		"json":     h.JSONHandler,
		"xml":      h.XMLHandler,
		"csv":      h.CSVHandler,
		"location": h.LocationHandler,
		"timezone": h.TimeZoneHandler,
	} {
		wrapped := h.middleware(handler)
		router.HandleFunc("/"+prefix, wrapped).Methods("GET")
		router.HandleFunc("/"+prefix+"/", wrapped).Methods("GET")
		router.HandleFunc("/"+prefix+"/{ip}", wrapped).Methods("GET")
	}

	router.HandleFunc("/", h.middleware(h.JSONHandler)).Methods("GET")
	router.HandleFunc("/{ip}", h.middleware(h.JSONHandler)).Methods("GET")

	// OPTIONS method for CORS
	router.HandleFunc("/{path:.*}", h.middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).Methods("OPTIONS")

	return router
}
