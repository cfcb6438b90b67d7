// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPILogs(t *testing.T) {
	var enabled atomic.Bool
	router := mux.NewRouter()
	New(&enabled).Mount(router, "/admin/apilogs")

	serve := func(method string, body []byte) (*LogStatus, int) {
		req := httptest.NewRequest(method, "/admin/apilogs", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			return nil, rr.Code
		}
		var status LogStatus
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
		return &status, rr.Code
	}

	status, code := serve(http.MethodGet, nil)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, status.Enabled)

	status, code = serve(http.MethodPost, []byte(`{"enabled":true}`))
	require.Equal(t, http.StatusOK, code)
	assert.True(t, status.Enabled)
	assert.True(t, enabled.Load())

	_, code = serve(http.MethodPost, []byte(`{"enabled":"yes"}`))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, enabled.Load())
}
