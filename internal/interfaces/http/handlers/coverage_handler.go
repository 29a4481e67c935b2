package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/CoverGap-Intelligence/internal/application/gapanalysis"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// CoverageHandler serves the gap analysis API.
type CoverageHandler struct {
	service      gapanalysis.Service
	logger       logging.Logger
	maxBodyBytes int64
}

// NewCoverageHandler creates a CoverageHandler.  maxBodyBytes ≤ 0 selects
// DefaultMaxBodyBytes.
func NewCoverageHandler(service gapanalysis.Service, logger logging.Logger, maxBodyBytes int64) *CoverageHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CoverageHandler{service: service, logger: logger, maxBodyBytes: maxBodyBytes}
}

// RegisterRoutes mounts the coverage endpoints on r.
func (h *CoverageHandler) RegisterRoutes(r chi.Router) {
	r.Route("/coverage", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)
		r.Post("/compare", h.Compare)
		r.Get("/benchmarks", h.Benchmarks)
		r.Get("/reports", h.ListReports)
		r.Get("/reports/{reportID}", h.GetReport)
	})
}

// analyzeBody keeps policy_text raw so that null and non-string values are
// reported instead of silently decoding to "".
type analyzeBody struct {
	PolicyText json.RawMessage `json:"policy_text"`
	Category   string          `json:"category"`
	Region     string          `json:"region"`
}

type compareBody struct {
	BaselineText  json.RawMessage `json:"baseline_text"`
	CandidateText json.RawMessage `json:"candidate_text"`
	Category      string          `json:"category"`
	Region        string          `json:"region"`
}

// ListReportsResponse wraps stored analyses.
type ListReportsResponse struct {
	Reports []*gapanalysis.AnalysisResult `json:"reports"`
	Count   int                           `json:"count"`
}

// BenchmarksResponse wraps benchmark tables.
type BenchmarksResponse struct {
	Tables []gapanalysis.BenchmarkTable `json:"tables"`
}

// Analyze handles POST /api/v1/coverage/analyze.
func (h *CoverageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeBody
	if err := decodeJSON(w, r, h.maxBodyBytes, &body); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	text, err := textField("policy_text", body.PolicyText)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	result, err := h.service.Analyze(r.Context(), &gapanalysis.AnalyzeRequest{
		PolicyText: text,
		Category:   body.Category,
		Region:     body.Region,
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Compare handles POST /api/v1/coverage/compare.
func (h *CoverageHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var body compareBody
	if err := decodeJSON(w, r, h.maxBodyBytes, &body); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	baseline, err := textField("baseline_text", body.BaselineText)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	candidate, err := textField("candidate_text", body.CandidateText)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	cmp, err := h.service.Compare(r.Context(), &gapanalysis.CompareRequest{
		BaselineText:  baseline,
		CandidateText: candidate,
		Category:      body.Category,
		Region:        body.Region,
	})
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// GetReport handles GET /api/v1/coverage/reports/{reportID}.
func (h *CoverageHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reportID")
	result, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListReports handles GET /api/v1/coverage/reports?limit=N.
func (h *CoverageHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeAppError(w, h.logger, errors.InvalidInput("limit must be a positive integer").WithDetail(v))
			return
		}
		limit = n
	}

	reports, err := h.service.ListReports(r.Context(), limit)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if reports == nil {
		reports = []*gapanalysis.AnalysisResult{}
	}
	writeJSON(w, http.StatusOK, ListReportsResponse{Reports: reports, Count: len(reports)})
}

// Benchmarks handles GET /api/v1/coverage/benchmarks?region=&category=.
func (h *CoverageHandler) Benchmarks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tables, err := h.service.Benchmarks(q.Get("region"), q.Get("category"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, BenchmarksResponse{Tables: tables})
}

//Personal.AI order the ending
