package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/activity-rank/internal/config"
	"github.com/campuspulse/activity-rank/internal/registry"
	"github.com/campuspulse/activity-rank/internal/timeparse"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg, err := registry.Load()
	require.NoError(t, err)

	cfg := config.ServerConfig{
		Port:           0,
		AllowedOrigins: []string{"*"},
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}
	return New(cfg, reg, timeparse.NewCache(timeparse.DefaultMaxEntries), nil, "en")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestRankEndpoint(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"records": [
			{"id":"usc","title":"USC Airport Pickup","address_text":"Los Angeles","start_raw":"2024-08-01 08:00:00","end_raw":"2024-08-01 10:00:00"},
			{"id":"ucla","title":"UCLA Welcome","address_text":"Los Angeles","start_raw":"2099-09-01 08:00:00","end_raw":"2099-09-01 10:00:00"}
		],
		"reference": {"school":"UCLA"}
	}`

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/rank", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Records []struct {
			ID        string `json:"id"`
			Status    string `json:"status"`
			StartDate string `json:"start_date"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Records, 2)

	// Active reference-matching record first, with its display split.
	assert.Equal(t, "ucla", resp.Records[0].ID)
	assert.Equal(t, "available", resp.Records[0].Status)
	assert.Equal(t, "2099-09-01", resp.Records[0].StartDate)
	assert.Equal(t, "ended", resp.Records[1].Status)
}

func TestRankEndpoint_EmptyRecords(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/rank", strings.NewReader(`{"records":[]}`))
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNearestEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nearest?lat=34.0689&lng=-118.4452", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "UCLA")
}

func TestNearestEndpoint_MissingCoords(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/nearest", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLabelEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/label?tz=America+Central&date=2024-07-15&lang=en", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CDT")
}

func TestLabelEndpoint_TimestampGoesThroughCache(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/v1/label?tz=America+Central&timestamp=2024-01-15+18:00:00&lang=en", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "CST")
	assert.Equal(t, int64(1), s.cache.Stats().Misses)
}

func TestListActivities_NoStore(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/activities", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRateLimit(t *testing.T) {
	reg, err := registry.Load()
	require.NoError(t, err)

	cfg := config.ServerConfig{
		AllowedOrigins: []string{"*"},
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	}
	s := New(cfg, reg, timeparse.NewCache(timeparse.DefaultMaxEntries), nil, "en")

	first := httptest.NewRecorder()
	s.Handler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	s.Handler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
