package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/CodeWithNed/company-vector-db/engine/answer"
	"github.com/CodeWithNed/company-vector-db/engine/domain"
	"github.com/CodeWithNed/company-vector-db/engine/ingest"
	"github.com/CodeWithNed/company-vector-db/pkg/metrics"
)

// loadService is what the load handler needs from the ingest pipeline.
type loadService interface {
	Load(ctx context.Context, employees []domain.Employee) (int, error)
}

// queryService is what the query handler needs from the answer pipeline.
type queryService interface {
	Query(ctx context.Context, query string) (*answer.Result, error)
}

// recordCounter reports the live directory size for the loaded-count gauge.
type recordCounter interface {
	Len() int
}

type server struct {
	loader   loadService
	answers  queryService
	records  recordCounter
	dataFile string
	reg      *metrics.Registry
	logger   *slog.Logger
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /load-data", s.handleLoadData)
	mux.HandleFunc("POST /query", s.handleQuery)
	mux.Handle("GET /metrics", s.reg.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "company-vector-db",
		"endpoints": map[string]string{
			"POST /load-data": "load employee data from the configured JSON file",
			"POST /query":     "semantic search over loaded employees",
			"GET /health":     "liveness check",
			"GET /metrics":    "prometheus metrics",
		},
	})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "company-vector-db",
	})
}

func (s *server) handleLoadData(w http.ResponseWriter, r *http.Request) {
	loads := s.reg.Counter("directory_loads_total", "Completed load operations.")
	failures := s.reg.Counter("directory_load_failures_total", "Failed load operations.")
	latency := s.reg.Histogram("directory_load_seconds", "Load operation latency.")
	start := time.Now()

	data, err := os.ReadFile(s.dataFile)
	if err != nil {
		failures.Inc()
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("%s file not found", s.dataFile))
			return
		}
		s.logger.Error("load: read data file", "file", s.dataFile, "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var batch ingest.LoadBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		failures.Inc()
		writeError(w, http.StatusBadRequest, "invalid employee data file")
		return
	}
	if len(batch.Results) == 0 {
		failures.Inc()
		writeError(w, http.StatusBadRequest, "No employee data found")
		return
	}

	count, err := s.loader.Load(r.Context(), batch.Results)
	if err != nil {
		failures.Inc()
		var verr *domain.ValidationError
		if errors.As(err, &verr) || errors.Is(err, domain.ErrDuplicateID) || errors.Is(err, domain.ErrEmptyBatch) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("load failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	loads.Inc()
	latency.Since(start)
	s.reg.Gauge("directory_employees_loaded", "Employees in the live directory.").Set(int64(s.records.Len()))

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Successfully loaded %d employees", count),
		"details": map[string]any{
			"loaded_count": count,
			"status":       "success",
		},
	})
}

// queryRequest is the JSON body for POST /query.
type queryRequest struct {
	Query string `json:"query"`
}

func (s *server) handleQuery(w http.ResponseWriter, r *http.Request) {
	queries := s.reg.Counter("directory_queries_total", "Queries answered.")
	failures := s.reg.Counter("directory_query_failures_total", "Failed queries.")
	latency := s.reg.Histogram("directory_query_seconds", "Query latency.")
	start := time.Now()

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failures.Inc()
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.answers.Query(r.Context(), req.Query)
	if err != nil {
		failures.Inc()
		if errors.Is(err, answer.ErrBlankQuery) {
			writeError(w, http.StatusBadRequest, "Query cannot be empty")
			return
		}
		s.logger.Error("query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	queries.Inc()
	latency.Since(start)
	writeJSON(w, http.StatusOK, result)
}
