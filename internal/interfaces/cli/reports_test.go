package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoverGap-Intelligence/internal/app"
	"github.com/turtacn/CoverGap-Intelligence/internal/config"
	"github.com/turtacn/CoverGap-Intelligence/pkg/client"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

func offlineServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	a, err := app.New(context.Background(), cfg, nil, app.Options{Version: "test"})
	require.NoError(t, err)
	srv := httptest.NewServer(a.Router())
	t.Cleanup(func() {
		srv.Close()
		_ = a.Close()
	})
	return srv
}

func stubReports(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/coverage/reports":
			_, _ = w.Write([]byte(`{"count":1,"reports":[{"id":"r-1","generated_at":"2026-03-01T10:00:00Z",` +
				`"report":{"policy_category":"home","region":"UK","overall_score":50,"total_gap_count":4,"critical_gap_count":2}}]}`))
		case "/api/v1/coverage/reports/r-1":
			_, _ = w.Write([]byte(`{"id":"r-1","generated_at":"2026-03-01T10:00:00Z","report":{"policy_category":"home",` +
				`"region":"UK","analysis_path":"benchmark","overall_score":50,"total_gap_count":1,"critical_gap_count":1,` +
				`"findings":[{"coverage_name":"Contents cover","status":"missing","severity":"critical"},` +
				`{"coverage_name":"Buildings cover","status":"adequate","severity":"critical"}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"GAP_003","message":"report not found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReportsList_Table(t *testing.T) {
	srv := stubReports(t)
	out, err := execute(t, "", "reports", "list", "--server", srv.URL, "--limit", "5", "-o", "table")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[2], "r-1")
	assert.Contains(t, lines[2], "2026-03-01T10:00:00Z")
	assert.Contains(t, lines[2], "home")
}

func TestReportsList_EmptyStore(t *testing.T) {
	srv := offlineServer(t)
	out, err := execute(t, "", "reports", "list", "--server", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "No stored analyses.\n", out)
}

func TestReportsList_BadLimit(t *testing.T) {
	_, err := execute(t, "", "reports", "list", "--limit", "0")
	assert.True(t, errors.IsInvalidInput(err))
}

func TestReportsGet_Text(t *testing.T) {
	srv := stubReports(t)
	out, err := execute(t, "", "reports", "get", "r-1", "--server", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Report r-1 (2026-03-01T10:00:00Z)")
	assert.Contains(t, out, "UK/home via benchmark: score 50%, 1 gaps (1 critical)")
	assert.Contains(t, out, "  - Contents cover: missing (critical)")
	assert.NotContains(t, out, "Buildings cover")
}

func TestReportsGet_NotFound(t *testing.T) {
	srv := offlineServer(t)
	_, err := execute(t, "", "reports", "get", "nope", "--server", srv.URL)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, 1, ExitCode(err))
}

func TestReports_DefaultServerFromConfig(t *testing.T) {
	var got string
	orig := newAPIClient
	newAPIClient = func(baseURL string) (*client.Client, error) {
		got = baseURL
		return nil, errors.InvalidInput("stop")
	}
	t.Cleanup(func() { newAPIClient = orig })

	path := writeFile(t, "covergap.yaml", "server:\n  port: 9191\n")
	_, err := execute(t, "", "reports", "list", "--config", path)
	assert.True(t, errors.IsInvalidInput(err))
	assert.Equal(t, "http://localhost:9191", got)
}

func TestHealth_Ready(t *testing.T) {
	srv := offlineServer(t)
	out, err := execute(t, "", "health", "--server", srv.URL, "-o", "json")
	require.NoError(t, err)

	var ready client.Readiness
	require.NoError(t, json.Unmarshal([]byte(out), &ready))
	assert.Equal(t, "ready", ready.Status)
}

func TestHealth_NotReady(t *testing.T) {
	orig := newAPIClient
	newAPIClient = func(baseURL string) (*client.Client, error) {
		return client.NewClient(baseURL, client.WithRetryMax(0))
	}
	t.Cleanup(func() { newAPIClient = orig })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"not_ready","components":{"redis":{"status":"unhealthy","error":"refused"},"postgres":{"status":"healthy"}}}`))
	}))
	t.Cleanup(srv.Close)

	out, err := execute(t, "", "health", "--server", srv.URL)
	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
	assert.Equal(t, "status: not_ready\n  postgres: healthy\n  redis: unhealthy (refused)\n", out)
}

//Personal.AI order the ending
