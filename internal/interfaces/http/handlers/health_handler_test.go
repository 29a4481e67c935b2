package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okChecker(name string) HealthChecker {
	return CheckerFunc{ComponentName: name, Fn: func(context.Context) error { return nil }}
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := NewHealthHandler("1.2.3", CheckerFunc{ComponentName: "postgres", Fn: func(context.Context) error {
		t.Fatal("liveness must not probe dependencies")
		return nil
	}})

	w := httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp LivenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alive", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestHealthHandler_Readiness(t *testing.T) {
	t.Run("no checkers", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewHealthHandler("dev").Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ready"}`, w.Body.String())
	})

	t.Run("all healthy", func(t *testing.T) {
		h := NewHealthHandler("dev", okChecker("postgres"), okChecker("redis"))
		w := httptest.NewRecorder()
		h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ready", resp.Status)
		assert.Len(t, resp.Components, 2)
		assert.Equal(t, "healthy", resp.Components["redis"].Status)
	})

	t.Run("one failing", func(t *testing.T) {
		failing := CheckerFunc{ComponentName: "redis", Fn: func(context.Context) error {
			return stderrors.New("connection refused")
		}}
		h := NewHealthHandler("dev", okChecker("postgres"), failing)
		w := httptest.NewRecorder()
		h.Readiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp ReadinessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "unhealthy", resp.Components["redis"].Status)
		assert.Equal(t, "connection refused", resp.Components["redis"].Error)
		assert.Equal(t, "healthy", resp.Components["postgres"].Status)
	})
}

//Personal.AI order the ending
