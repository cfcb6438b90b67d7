// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashes_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/api/slashes"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/genesis"
	"github.com/rentnet/rentnet/test/testchain"
)

func httpGet(t *testing.T, url string, v any) int {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode == http.StatusOK && v != nil {
		require.NoError(t, json.Unmarshal(body, v))
	}
	return res.StatusCode
}

func TestSlashes(t *testing.T) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	defer tc.Close()
	router := mux.NewRouter()
	slashes.New(tc.Repo()).Mount(router, "/slashes")
	ts := httptest.NewServer(router)
	defer ts.Close()

	var list []*slashes.Slash
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/slashes", &list))
	assert.Empty(t, list)

	require.NoError(t, tc.OnboardMachine("gpu-01", 5, onlineprofile.Info{GPUType: "A100", GPUNum: 1, CalcPoint: 900}))
	_, err = tc.ReportFault("gpu-01", 6, "gpu-lost", true)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/slashes?status=pending", &list))
	require.Len(t, list, 1)
	ps := list[0]
	assert.Equal(t, "pending", ps.Status)
	assert.Equal(t, "gpu-01", ps.MachineID)
	assert.NotZero(t, ps.SlashAmount)
	assert.Greater(t, ps.ExecTime, ps.SlashTime)
	require.NotNil(t, ps.Reporter)
	assert.Equal(t, genesis.DevAccounts()[6].Address, *ps.Reporter)
	assert.Contains(t, ps.RewardTo, genesis.DevAccounts()[6].Address)
	assert.Nil(t, ps.Review)

	var got slashes.Slash
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/slashes/"+strconv.FormatUint(ps.ID, 10), &got))
	assert.Equal(t, *ps, got)

	list = nil
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/slashes?status=executed", &list))
	assert.Empty(t, list)

	var none *slashes.Slash
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/slashes/999", &none))
	assert.Nil(t, none)

	assert.Equal(t, http.StatusBadRequest, httpGet(t, ts.URL+"/slashes?status=done", nil))
}
