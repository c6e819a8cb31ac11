package router

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/rainflow/internal/config"
	"github.com/soltixdb/rainflow/internal/logging"
	"github.com/soltixdb/rainflow/internal/metrics"
	"github.com/soltixdb/rainflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "0123456789abcdef0123456789abcdef"

func newTestApp(t *testing.T, mutate func(*config.Config)) *fiber.App {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	app, err := New(logging.Nop(), metrics.New("rainflow"), *cfg)
	require.NoError(t, err)
	return app
}

func TestRouter_Routes(t *testing.T) {
	app := newTestApp(t, nil)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{"GET", "/health", "", fiber.StatusOK},
		{"GET", "/metrics", "", fiber.StatusOK},
		{"POST", "/v1/reversals", `{"series": [1, 3, 2]}`, fiber.StatusOK},
		{"POST", "/v1/cycles", `{"series": [1, 3, 2]}`, fiber.StatusOK},
		{"POST", "/v1/counts", `{"series": [1, 3, 2], "nbins": 2}`, fiber.StatusOK},
		{"GET", "/v1/counts", "", fiber.StatusNotFound},
		{"GET", "/nope", "", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRouter_CountsEndToEnd(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Counting = config.CountingConfig{Mode: "binsize", BinSize: 5, MaxBins: 100}
	})

	req := httptest.NewRequest("POST", "/v1/counts",
		strings.NewReader(`{"series": [-2, 1, -3, 5, -1, 3, -4, 4, -2]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(logging.RequestIDHeader))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var counts models.CountsResponse
	require.NoError(t, json.Unmarshal(body, &counts))
	assert.Equal(t, "binsize", string(counts.Mode))
	assert.Equal(t, 4.0, counts.Total)
	assert.Len(t, counts.Bins, 2)
}

func TestRouter_Auth(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Auth = config.AuthConfig{Enabled: true, APIKeys: []string{testAPIKey}}
	})

	send := func(key string) int {
		req := httptest.NewRequest("POST", "/v1/reversals", strings.NewReader(`{"series": [1, 2]}`))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusUnauthorized, send(""))
	assert.Equal(t, fiber.StatusUnauthorized, send("wrong"))
	assert.Equal(t, fiber.StatusOK, send(testAPIKey))

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "health is not protected")
}

func TestRouter_MetricsDisabled(t *testing.T) {
	app := newTestApp(t, func(cfg *config.Config) {
		cfg.Metrics.Enabled = false
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRouter_InvalidCountingDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Counting.Mode = "bogus"

	_, err := New(logging.Nop(), nil, *cfg)
	assert.Error(t, err)
}
