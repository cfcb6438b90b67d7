// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/test/testchain"
)

func TestHealthStatus(t *testing.T) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	defer tc.Close()

	h := newHealth(tc.Repo(), 10*time.Second)
	h.check()

	status := h.status()
	assert.False(t, status.Healthy, "not packing")
	assert.Equal(t, tc.GenesisBlock().Header().ID(), status.BlockIngestion.ID)

	h.PackingStatus(true)
	assert.True(t, h.status().Healthy)

	packed, err := tc.MintBlock()
	require.NoError(t, err)
	h.check()
	status = h.status()
	assert.Equal(t, packed.Block.Header().ID(), status.BlockIngestion.ID)
	assert.Equal(t, uint32(1), status.BlockIngestion.Number)

	// stale
	h.newBestBlock = time.Now().Add(-time.Minute)
	assert.False(t, h.status().Healthy)
}

func TestHealthAPI(t *testing.T) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	defer tc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := New(ctx, tc.Repo(), 10*time.Second)
	router := mux.NewRouter()
	api.Mount(router, "/admin/health")

	get := func() (*Status, int) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/health", nil))
		var status Status
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
		return &status, rr.Code
	}

	_, code := get()
	assert.Equal(t, http.StatusServiceUnavailable, code)

	api.PackingStatus(true)
	require.Eventually(t, func() bool {
		_, code := get()
		return code == http.StatusOK
	}, 3*time.Second, 50*time.Millisecond)
}
