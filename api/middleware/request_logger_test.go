// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/log"
)

type loggerConfig struct {
	enabled bool
	slow    time.Duration
	log5xx  bool
}

// serve runs one POST /slashes request through the middleware and returns
// the decoded JSON log records.
func serve(t *testing.T, cfg loggerConfig, status int, delay time.Duration) []map[string]any {
	var buf bytes.Buffer
	logger := log.New(log.NewHandler(&buf, log.LvlInfo, true, false))

	enabled := &atomic.Bool{}
	enabled.Store(cfg.enabled)
	handler := RequestLoggerMiddleware(logger, enabled, cfg.slow, cfg.log5xx)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(delay)
			if status != http.StatusOK {
				w.WriteHeader(status)
			}
			w.Write([]byte("{}"))
		}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/slashes?status=pending", strings.NewReader(`{"id":1}`))
	handler.ServeHTTP(rr, req)
	require.Equal(t, status, rr.Code)

	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestRequestLoggerRecord(t *testing.T) {
	records := serve(t, loggerConfig{enabled: true}, http.StatusOK, 0)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "API Request", rec["msg"])
	assert.Equal(t, "/slashes?status=pending", rec["URI"])
	assert.Equal(t, http.MethodPost, rec["Method"])
	assert.Equal(t, float64(http.StatusOK), rec["Status"])
	assert.Equal(t, `{"id":1}`, rec["Body"])
	assert.Contains(t, rec, "Timestamp")
	assert.Contains(t, rec, "DurationMs")
}

func TestRequestLoggerConditions(t *testing.T) {
	tests := []struct {
		name   string
		cfg    loggerConfig
		status int
		delay  time.Duration
		logged bool
	}{
		{"disabled", loggerConfig{}, http.StatusOK, 0, false},
		{"slow query", loggerConfig{slow: 10 * time.Millisecond}, http.StatusOK, 20 * time.Millisecond, true},
		{"fast query", loggerConfig{slow: time.Second}, http.StatusOK, 0, false},
		{"500 logged", loggerConfig{log5xx: true}, http.StatusInternalServerError, 0, true},
		{"503 logged", loggerConfig{log5xx: true}, http.StatusServiceUnavailable, 0, true},
		{"500 without flag", loggerConfig{}, http.StatusInternalServerError, 0, false},
		{"400 never", loggerConfig{log5xx: true}, http.StatusBadRequest, 0, false},
		{"implicit 200", loggerConfig{log5xx: true}, http.StatusOK, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := serve(t, tt.cfg, tt.status, tt.delay)
			if tt.logged {
				assert.Len(t, records, 1)
			} else {
				assert.Empty(t, records)
			}
		})
	}
}

func TestRequestLoggerToggle(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.NewHandler(&buf, log.LvlInfo, true, false))
	enabled := &atomic.Bool{}
	handler := RequestLoggerMiddleware(logger, enabled, 0, false)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/machines", nil))
	assert.Zero(t, buf.Len())

	enabled.Store(true)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/machines", nil))
	assert.Contains(t, buf.String(), `"URI":"/machines"`)
}
