package main

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mixlab/mixlab/pkg/logger"
	"github.com/mixlab/mixlab/pkg/mixlab"
	"github.com/mixlab/mixlab/pkg/mixlab/query"
	"github.com/mixlab/mixlab/pkg/utils"
)

// Server encapsulates the HTTP server and its dependencies
type Server struct {
	service mixlab.Service
	config  *ServerConfig
	log     mixlab.Logger
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host   string
	Port   int
	DBPath string
}

// NewServer creates a new server instance
func NewServer(service mixlab.Service, config *ServerConfig) *Server {
	return &Server{
		service: service,
		config:  config,
		log:     logger.GetLogger(),
	}
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

func (s *Server) respondText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		s.log.Errorf("Failed to write response: %v", err)
	}
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.respondText(w, "text/html; charset=utf-8", indexPage)
}

// handleQuery handles POST /query
//
// SQL failures are part of the 200 response: a statement that does not compile
// is answered with the bare "SQL error: ..." text, everything else with the
// result page.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseForm(); err != nil {
		s.log.Errorf("Failed to parse form: %v", err)
		s.respondError(w, http.StatusBadRequest, "Failed to parse form data")
		return
	}
	sqlText := r.FormValue("sql")
	s.log.Debugf("Running query: %s", sqlText)

	report, err := s.service.RunQuery(r.Context(), sqlText)
	if err != nil {
		s.log.Errorf("Failed to run query: %v", err)
		http.Error(w, "Database unavailable", http.StatusInternalServerError)
		return
	}

	if report.Kind == query.KindCompileError {
		s.respondText(w, "text/plain; charset=utf-8", report.Text())
		return
	}
	s.respondText(w, "text/html; charset=utf-8", report.Page())
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/health/metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	tables, err := s.service.TableStats(r.Context())
	if err != nil {
		s.log.Errorf("Failed to get table stats: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}

	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:       "healthy",
		DatabasePath: s.service.DBPath(),
		DatabaseSize: humanize.Bytes(utils.FileSize(s.service.DBPath())),
		Tables:       tables,
	})
}
