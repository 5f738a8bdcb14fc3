package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forensica/triage/internal/analysis"
	"github.com/forensica/triage/internal/classify"
	"github.com/forensica/triage/internal/loader"
	"github.com/forensica/triage/internal/models"
	"github.com/forensica/triage/internal/render"
)

const maxRequestBody = 32 << 20 // 32 MiB

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	records, err := loader.Parse(body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Debug("analyze request", zap.Int("records", len(records)))

	report, err := s.runAnalysis(records)
	if err != nil {
		if errors.Is(err, classify.ErrMalformedRecord) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("analysis failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.countRequest("analyze", http.StatusOK)
	s.respondJSON(w, http.StatusOK, report)
}

// runAnalysis builds a one-shot session over the given records and
// generates the full report, recording metrics as it goes.
func (s *Server) runAnalysis(records []models.Record) (*models.ThreatReport, error) {
	start := time.Now()
	session := analysis.NewSession(&s.config.Analysis, s.logger)
	if err := session.SetRecords(records); err != nil {
		return nil, err
	}
	report := session.GenerateReport()
	s.metrics.AnalysesTotal.Inc()
	s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	s.metrics.RecordsPerAnalyze.Observe(float64(len(records)))
	return report, nil
}

type createBatchRequest struct {
	Name    string          `json:"name"`
	Records json.RawMessage `json:"records"`
}

func (s *Server) handleCreateBatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	var req createBatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Records) == 0 {
		s.respondError(w, http.StatusBadRequest, "records are required")
		return
	}
	records, err := loader.Parse(req.Records)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	batch := &models.Batch{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Records: records,
	}
	s.logger.Debug("ingest request", zap.String("id", batch.ID), zap.Int("records", len(records)))
	if err := s.storage.CreateBatch(r.Context(), batch); err != nil {
		s.logger.Error("batch ingest failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if s.index != nil {
		if err := s.index.IndexBatch(r.Context(), batch); err != nil {
			s.logger.Warn("batch indexing failed", zap.String("id", batch.ID), zap.Error(err))
		}
	}
	s.metrics.BatchesIngested.Inc()
	s.countRequest("batches_create", http.StatusCreated)
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": batch.ID, "status": "stored"})
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)
	batches, err := s.storage.ListBatches(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list batches failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountBatches(r.Context())
	if err != nil {
		s.logger.Error("count batches failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if batches == nil {
		batches = []*models.Batch{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"batches": batches,
		"total":   total,
	})
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	batch, err := s.storage.GetBatch(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "batch not found")
		return
	}
	s.respondJSON(w, http.StatusOK, batch)
}

func (s *Server) handleDeleteBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete batch request", zap.String("id", id))
	if err := s.storage.DeleteBatch(r.Context(), id); err != nil {
		s.respondError(w, http.StatusNotFound, "batch not found")
		return
	}
	if s.index != nil {
		if err := s.index.DeleteBatch(r.Context(), id); err != nil {
			s.logger.Warn("index cleanup failed", zap.String("id", id), zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleBatchReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	batch, err := s.storage.GetBatch(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "batch not found")
		return
	}
	report, err := s.runAnalysis(batch.Records)
	if err != nil {
		s.logger.Error("batch report failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.countRequest("batch_report", http.StatusOK)
	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleBatchGraph(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	batch, err := s.storage.GetBatch(r.Context(), id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "batch not found")
		return
	}
	session := analysis.NewSession(&s.config.Analysis, s.logger)
	if err := session.SetRecords(batch.Records); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	g := session.Graph()

	switch r.URL.Query().Get("format") {
	case "png":
		w.Header().Set("Content-Type", "image/png")
		if err := render.WritePNG(w, g, 0); err != nil {
			s.logger.Error("png render failed", zap.String("id", id), zap.Error(err))
		}
	default:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		if err := render.WriteDOT(w, g); err != nil {
			s.logger.Error("dot render failed", zap.String("id", id), zap.Error(err))
		}
	}
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s *Server) handleBatchSearch(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		s.respondError(w, http.StatusNotImplemented, "search index not enabled")
		return
	}
	id := chi.URLParam(r, "id")
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	results, err := s.index.Search(r.Context(), id, req.Query, req.Limit)
	if err != nil {
		s.logger.Error("search failed", zap.String("id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.SearchesTotal.Inc()
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"query":   req.Query,
		"results": results,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func (s *Server) countRequest(route string, status int) {
	s.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
