package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mariasu11/netlog/internal/metrics"
	"github.com/mariasu11/netlog/pkg/luascript"
	"github.com/mariasu11/netlog/pkg/models"
	"github.com/mariasu11/netlog/pkg/parser"
)

// Handlers contains the HTTP handlers for the API
type Handlers struct {
	factory  *parser.Factory
	registry *parser.Registry
	logger   hclog.Logger
	metrics  *metrics.Metrics
}

// NewHandlers creates a new set of API handlers
func NewHandlers(factory *parser.Factory, registry *parser.Registry, logger hclog.Logger) *Handlers {
	return &Handlers{
		factory:  factory,
		registry: registry,
		logger:   logger,
		metrics:  metrics.GetMetrics(),
	}
}

// parseRequest is the body for single-message parse requests
type parseRequest struct {
	Message    string `json:"message"`
	DeviceType string `json:"device_type,omitempty"`
}

// parseResponse wraps a parsed record with the parser that produced it
type parseResponse struct {
	Parser     string            `json:"parser"`
	DeviceType string            `json:"device_type"`
	Record     *models.LogRecord `json:"record"`
}

// batchRequest is the body for batch parse requests
type batchRequest struct {
	Messages   []string `json:"messages"`
	DeviceType string   `json:"device_type,omitempty"`
}

// batchResponse summarizes a batch parse
type batchResponse struct {
	Received int             `json:"received"`
	Matched  int             `json:"matched"`
	Results  []parseResponse `json:"results"`
}

// ParseMessage parses a single raw log message
func (h *Handlers) ParseMessage(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Message == "" {
		h.respondWithError(w, http.StatusBadRequest, "Message is required")
		return
	}

	h.metrics.LinesReceived.Inc()

	p, err := h.resolveParser(req.DeviceType, req.Message)
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p == nil {
		h.metrics.ParseFailures.With(prometheus.Labels{"reason": "no_parser"}).Inc()
		h.respondWithError(w, http.StatusUnprocessableEntity, "No parser recognized the message")
		return
	}

	record := h.parseWithMetrics(p, req.Message)
	if record == nil {
		h.respondWithError(w, http.StatusUnprocessableEntity, "Parser "+p.Name()+" did not produce a record")
		return
	}

	h.respondWithJSON(w, http.StatusOK, parseResponse{
		Parser:     p.Name(),
		DeviceType: record.DeviceType.String(),
		Record:     record,
	})
}

// ParseBatch parses multiple raw log messages. Unrecognized lines are
// dropped from the results, mirroring batch parsing everywhere else.
func (h *Handlers) ParseBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		h.respondWithError(w, http.StatusBadRequest, "At least one message is required")
		return
	}

	// An explicit device type pins one parser for the whole batch
	var pinned parser.Parser
	if !isAutoDevice(req.DeviceType) {
		p, err := h.resolveParser(req.DeviceType, "")
		if err != nil {
			h.respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		pinned = p
	}

	results := make([]parseResponse, 0, len(req.Messages))
	for _, raw := range req.Messages {
		h.metrics.LinesReceived.Inc()

		p := pinned
		if p == nil {
			p = parser.Detect(h.factory, h.registry, raw)
		}
		if p == nil {
			h.metrics.ParseFailures.With(prometheus.Labels{"reason": "no_parser"}).Inc()
			continue
		}

		record := h.parseWithMetrics(p, raw)
		if record == nil {
			continue
		}
		results = append(results, parseResponse{
			Parser:     p.Name(),
			DeviceType: record.DeviceType.String(),
			Record:     record,
		})
	}

	h.respondWithJSON(w, http.StatusOK, batchResponse{
		Received: len(req.Messages),
		Matched:  len(results),
		Results:  results,
	})
}

// ListParsers returns every available parser, native and scripted
func (h *Handlers) ListParsers(w http.ResponseWriter, r *http.Request) {
	type parserList struct {
		Native   []parser.ParserInfo `json:"native"`
		Scripted []parser.ParserInfo `json:"scripted"`
	}

	list := parserList{
		Native:   h.factory.ParserInfos(),
		Scripted: h.registry.ParserInfos(),
	}
	h.respondWithJSON(w, http.StatusOK, list)
}

// ValidateScript checks a parser script without registering it
func (h *Handlers) ValidateScript(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Script string `json:"script"`
		Name   string `json:"name,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}
	if req.Script == "" {
		h.respondWithError(w, http.StatusBadRequest, "Script is required")
		return
	}

	name := req.Name
	if name == "" {
		name = "inline.lua"
	}

	p, err := luascript.NewParserFromString(req.Script, name, h.logger)
	defer p.Close()
	if err != nil {
		h.metrics.ScriptLoadErrors.Inc()
		h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"valid": false,
			"error": p.LastError(),
		})
		return
	}

	h.metrics.ScriptLoads.Inc()
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"valid":       true,
		"parser_name": p.Name(),
		"device_type": p.DeviceType().String(),
		"version":     p.Version(),
	})
}

// HealthCheck returns the health status of the API
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"version":          parser.DefaultVersion,
		"native_parsers":   len(h.factory.SupportedDeviceTypes()),
		"scripted_parsers": h.registry.Len(),
	})
}

// GetDocs returns API documentation
func (h *Handlers) GetDocs(w http.ResponseWriter, r *http.Request) {
	docs := map[string]interface{}{
		"name":        "netlog API",
		"version":     parser.DefaultVersion,
		"description": "A network device log parsing API",
		"endpoints": []map[string]string{
			{"path": "/api/v1/parse", "method": "POST", "description": "Parse a single log message"},
			{"path": "/api/v1/parse/batch", "method": "POST", "description": "Parse multiple log messages"},
			{"path": "/api/v1/parsers", "method": "GET", "description": "List available parsers"},
			{"path": "/api/v1/scripts/validate", "method": "POST", "description": "Validate a parser script"},
			{"path": "/api/v1/health", "method": "GET", "description": "Check API health"},
			{"path": "/metrics", "method": "GET", "description": "Prometheus metrics"},
		},
	}

	h.respondWithJSON(w, http.StatusOK, docs)
}

// resolveParser picks a parser for a request. An empty or "auto" device
// type auto-detects against the message; an explicit one must name a
// supported device family.
func (h *Handlers) resolveParser(deviceType, raw string) (parser.Parser, error) {
	if isAutoDevice(deviceType) {
		return parser.Detect(h.factory, h.registry, raw), nil
	}

	dt, err := models.ParseDeviceType(deviceType)
	if err != nil {
		return nil, err
	}
	p := h.factory.CreateParser(dt)
	if p == nil {
		return nil, &unsupportedDeviceError{deviceType: deviceType}
	}
	return p, nil
}

func (h *Handlers) parseWithMetrics(p parser.Parser, raw string) *models.LogRecord {
	h.metrics.ParseAttempts.With(prometheus.Labels{"parser": p.Name()}).Inc()

	start := time.Now()
	record := p.Parse(raw)
	h.metrics.ParseDuration.Observe(time.Since(start).Seconds())

	if record == nil {
		h.metrics.ParseFailures.With(prometheus.Labels{"reason": "no_match"}).Inc()
		return nil
	}
	h.metrics.ParseMatches.With(prometheus.Labels{"parser": p.Name()}).Inc()
	return record
}

func isAutoDevice(deviceType string) bool {
	return deviceType == "" || strings.EqualFold(deviceType, "auto")
}

type unsupportedDeviceError struct {
	deviceType string
}

func (e *unsupportedDeviceError) Error() string {
	return "no parser available for device type " + e.deviceType
}

// respondWithError sends an error response
func (h *Handlers) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithJSON sends a JSON response
func (h *Handlers) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	// Set headers
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	// Encode and send response
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
