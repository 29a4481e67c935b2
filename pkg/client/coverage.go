package client

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

const coveragePath = "/api/v1/coverage"

// CoverageClient calls the /api/v1/coverage endpoints.
type CoverageClient struct {
	client *Client
}

// AnalyzeRequest is the body of POST /coverage/analyze.  Empty Category asks
// the server to infer it; empty Region uses the server default.
type AnalyzeRequest struct {
	PolicyText string `json:"policy_text"`
	Category   string `json:"category,omitempty"`
	Region     string `json:"region,omitempty"`
}

// CompareRequest is the body of POST /coverage/compare.
type CompareRequest struct {
	BaselineText  string `json:"baseline_text"`
	CandidateText string `json:"candidate_text"`
	Category      string `json:"category,omitempty"`
	Region        string `json:"region,omitempty"`
}

type listReportsResponse struct {
	Reports []*Analysis `json:"reports"`
	Count   int         `json:"count"`
}

type benchmarksResponse struct {
	Tables []BenchmarkTable `json:"tables"`
}

// Analyze runs a gap analysis on the server.
func (c *CoverageClient) Analyze(ctx context.Context, req *AnalyzeRequest) (*Analysis, error) {
	if req == nil {
		return nil, errors.InvalidInput("analyze request is required")
	}
	var out Analysis
	if err := c.client.post(ctx, coveragePath+"/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compare diffs two versions of a policy.
func (c *CoverageClient) Compare(ctx context.Context, req *CompareRequest) (*Comparison, error) {
	if req == nil {
		return nil, errors.InvalidInput("compare request is required")
	}
	var out Comparison
	if err := c.client.post(ctx, coveragePath+"/compare", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReport fetches a persisted analysis.  A missing report is an *APIError
// for which IsNotFound is true.
func (c *CoverageClient) GetReport(ctx context.Context, id string) (*Analysis, error) {
	if id == "" {
		return nil, errors.InvalidInput("report id is required")
	}
	var out Analysis
	if err := c.client.get(ctx, coveragePath+"/reports/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReports returns up to limit analyses, newest first.  limit <= 0 uses
// the server default.
func (c *CoverageClient) ListReports(ctx context.Context, limit int) ([]*Analysis, error) {
	path := coveragePath + "/reports"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out listReportsResponse
	if err := c.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

// Benchmarks lists benchmark tables, optionally filtered.
func (c *CoverageClient) Benchmarks(ctx context.Context, region, category string) ([]BenchmarkTable, error) {
	q := url.Values{}
	if region != "" {
		q.Set("region", region)
	}
	if category != "" {
		q.Set("category", category)
	}
	path := coveragePath + "/benchmarks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out benchmarksResponse
	if err := c.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Tables, nil
}

// Health calls /healthz.
func (c *Client) Health(ctx context.Context) (*Liveness, error) {
	var out Liveness
	if err := c.get(ctx, "/healthz", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ready calls /readyz.  When the server is not ready the per-component
// report is returned together with the *APIError.  A 503 is retried like any
// server error, so probes usually want WithRetryMax(0).
func (c *Client) Ready(ctx context.Context) (*Readiness, error) {
	var out Readiness
	err := c.get(ctx, "/readyz", &out)
	if err == nil {
		return &out, nil
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
		if jsonErr := json.Unmarshal(apiErr.Body, &out); jsonErr == nil && out.Status != "" {
			return &out, err
		}
	}
	return nil, err
}

//Personal.AI order the ending
