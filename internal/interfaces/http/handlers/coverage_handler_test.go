package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoverGap-Intelligence/internal/application/gapanalysis"
	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
	"github.com/turtacn/CoverGap-Intelligence/internal/testutil"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Analyze(ctx context.Context, req *gapanalysis.AnalyzeRequest) (*gapanalysis.AnalysisResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gapanalysis.AnalysisResult), args.Error(1)
}

func (m *mockService) Compare(ctx context.Context, req *gapanalysis.CompareRequest) (*coverage.Comparison, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*coverage.Comparison), args.Error(1)
}

func (m *mockService) GetReport(ctx context.Context, id string) (*gapanalysis.AnalysisResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gapanalysis.AnalysisResult), args.Error(1)
}

func (m *mockService) ListReports(ctx context.Context, limit int) ([]*gapanalysis.AnalysisResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*gapanalysis.AnalysisResult), args.Error(1)
}

func (m *mockService) Benchmarks(region, category string) ([]gapanalysis.BenchmarkTable, error) {
	args := m.Called(region, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gapanalysis.BenchmarkTable), args.Error(1)
}

func newRealHandler(t *testing.T) *CoverageHandler {
	t.Helper()
	matcher, err := coverage.NewMatcher(coverage.DefaultCatalog())
	require.NoError(t, err)
	svc, err := gapanalysis.NewService(gapanalysis.Config{Matcher: matcher, Logger: testutil.NewMockLogger()})
	require.NoError(t, err)
	return NewCoverageHandler(svc, testutil.NewMockLogger(), 0)
}

func serve(h *CoverageHandler, method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAnalyze_OK(t *testing.T) {
	h := newRealHandler(t)
	body := `{"policy_text":"Motor policy: third-party liability up to £20,000,000, fire and theft included.","region":"UK"}`

	w := serve(h, http.MethodPost, "/coverage/analyze", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var res coverage.Analysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, coverage.CategoryCar, res.Report.PolicyCategory)
	assert.Equal(t, coverage.RegionUK, res.Report.Region)
	assert.Equal(t, coverage.PathBenchmark, res.Report.Path)
	require.NotNil(t, res.ActionPlan)
}

func TestAnalyze_EmptyTextIsAccepted(t *testing.T) {
	h := newRealHandler(t)

	w := serve(h, http.MethodPost, "/coverage/analyze", `{"policy_text":""}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res coverage.Analysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, coverage.CategoryGeneral, res.Report.PolicyCategory)
	assert.Equal(t, 0, res.Report.OverallScore)
}

func TestAnalyze_RejectsBadDocuments(t *testing.T) {
	h := newRealHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing", `{"category":"car"}`},
		{"null", `{"policy_text":null}`},
		{"number", `{"policy_text":42}`},
		{"object", `{"policy_text":{"a":1}}`},
		{"malformed json", `{"policy_text":`},
		{"empty body", ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(h, http.MethodPost, "/coverage/analyze", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, string(errors.ErrCodeInvalidInput), decodeError(t, w).Code)
		})
	}
}

func TestAnalyze_BodyTooLarge(t *testing.T) {
	matcher, err := coverage.NewMatcher(coverage.DefaultCatalog())
	require.NoError(t, err)
	svc, err := gapanalysis.NewService(gapanalysis.Config{Matcher: matcher, Logger: testutil.NewMockLogger()})
	require.NoError(t, err)
	h := NewCoverageHandler(svc, nil, 64)

	body := `{"policy_text":"` + strings.Repeat("a", 200) + `"}`
	w := serve(h, http.MethodPost, "/coverage/analyze", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "request body too large", decodeError(t, w).Message)
}

func TestAnalyze_ServerErrorIsMasked(t *testing.T) {
	svc := new(mockService)
	logger := testutil.NewMockLogger()
	h := NewCoverageHandler(svc, logger, 0)

	svc.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, errors.InternalConfiguration("benchmark table UK/car is empty")).Once()

	w := serve(h, http.MethodPost, "/coverage/analyze", `{"policy_text":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, string(errors.ErrCodeInternalConfiguration), resp.Code)
	assert.Equal(t, "analysis unavailable", resp.Message)
	assert.NotContains(t, w.Body.String(), "UK/car")
	assert.True(t, logger.HasMessage("error", "request failed"))
	svc.AssertExpectations(t)
}

func TestAnalyze_ForeignErrorBecomesInternal(t *testing.T) {
	svc := new(mockService)
	h := NewCoverageHandler(svc, nil, 0)
	svc.On("Analyze", mock.Anything, mock.Anything).Return(nil, context.DeadlineExceeded).Once()

	w := serve(h, http.MethodPost, "/coverage/analyze", `{"policy_text":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, string(errors.ErrCodeInternal), decodeError(t, w).Code)
}

func TestAnalyze_PassesFieldsThrough(t *testing.T) {
	svc := new(mockService)
	h := NewCoverageHandler(svc, nil, 0)

	svc.On("Analyze", mock.Anything, mock.MatchedBy(func(req *gapanalysis.AnalyzeRequest) bool {
		return req.PolicyText != nil && *req.PolicyText == "home cover" && req.Category == "home" && req.Region == "US"
	})).Return(&gapanalysis.AnalysisResult{ID: "abc"}, nil).Once()

	w := serve(h, http.MethodPost, "/coverage/analyze", `{"policy_text":"home cover","category":"home","region":"US"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCompare(t *testing.T) {
	h := newRealHandler(t)

	body := `{"baseline_text":"Car policy with third-party liability up to £1,000,000.",` +
		`"candidate_text":"Third-party liability up to £1,000,000, fire and theft, windscreen cover."}`
	w := serve(h, http.MethodPost, "/coverage/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cmp coverage.Comparison
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cmp))
	assert.Equal(t, cmp.Baseline.PolicyCategory, cmp.Candidate.PolicyCategory)
	assert.NotEmpty(t, cmp.Deltas)

	w = serve(h, http.MethodPost, "/coverage/compare", `{"baseline_text":"x","candidate_text":null}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "candidate_text")
}

func TestGetReport(t *testing.T) {
	svc := new(mockService)
	h := NewCoverageHandler(svc, nil, 0)

	svc.On("GetReport", mock.Anything, "r-1").Return(&gapanalysis.AnalysisResult{ID: "r-1"}, nil).Once()
	svc.On("GetReport", mock.Anything, "missing").
		Return(nil, errors.New(errors.ErrCodeReportNotFound, "report not found")).Once()

	w := serve(h, http.MethodGet, "/coverage/reports/r-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"r-1"`)

	w = serve(h, http.MethodGet, "/coverage/reports/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(errors.ErrCodeReportNotFound), decodeError(t, w).Code)
	svc.AssertExpectations(t)
}

func TestListReports(t *testing.T) {
	svc := new(mockService)
	h := NewCoverageHandler(svc, nil, 0)

	svc.On("ListReports", mock.Anything, 20).Return(nil, nil).Once()
	svc.On("ListReports", mock.Anything, 5).
		Return([]*gapanalysis.AnalysisResult{{ID: "a"}, {ID: "b"}}, nil).Once()

	w := serve(h, http.MethodGet, "/coverage/reports", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reports":[],"count":0}`, w.Body.String())

	w = serve(h, http.MethodGet, "/coverage/reports?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp ListReportsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)

	for _, bad := range []string{"0", "-3", "ten"} {
		w = serve(h, http.MethodGet, "/coverage/reports?limit="+bad, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
	svc.AssertExpectations(t)
}

func TestBenchmarks(t *testing.T) {
	h := newRealHandler(t)

	w := serve(h, http.MethodGet, "/coverage/benchmarks?region=UK&category=car", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp BenchmarksResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tables, 1)
	assert.Equal(t, coverage.RegionUK, resp.Tables[0].Region)
	assert.NotEmpty(t, resp.Tables[0].Entries)

	w = serve(h, http.MethodGet, "/coverage/benchmarks?region=Atlantis", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp400 := decodeError(t, w)
	assert.Equal(t, "unknown region", resp400.Message)
	assert.Equal(t, "Atlantis", resp400.Detail)
}

//Personal.AI order the ending
