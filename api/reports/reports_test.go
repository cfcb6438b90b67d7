// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reports_test

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

	"github.com/rentnet/rentnet/api/reports"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/genesis"
	"github.com/rentnet/rentnet/test/testchain"
)

func newTestServer(t *testing.T) (*testchain.Chain, *httptest.Server) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	router := mux.NewRouter()
	reports.New(tc.Repo()).Mount(router, "/reports")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		tc.Close()
	})

	require.NoError(t, tc.OnboardMachine("gpu-01", 5, onlineprofile.Info{GPUType: "A100", GPUNum: 1, CalcPoint: 900}))
	return tc, ts
}

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

func TestConfirmedReport(t *testing.T) {
	tc, ts := newTestServer(t)
	id, err := tc.ReportFault("gpu-01", 6, "gpu-lost", true)
	require.NoError(t, err)

	var ids []uint64
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/reports?status=fault-confirmed", &ids))
	assert.Equal(t, []uint64{id}, ids)

	ids = nil
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/reports?status=verifying", &ids))
	assert.Empty(t, ids)

	var r reports.Report
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/reports/"+strconv.FormatUint(id, 10), &r))
	assert.Equal(t, id, r.ID)
	assert.Equal(t, genesis.DevAccounts()[6].Address, r.Reporter)
	assert.Equal(t, "gpu-01", r.MachineID)
	assert.Equal(t, "gpu-lost", r.Fault)
	assert.Equal(t, "fault-confirmed", r.Status)
	assert.NotZero(t, r.SlashID)
	require.NotNil(t, r.Task)
	assert.Equal(t, "report", r.Task.Kind)
	assert.True(t, r.Task.Finalized)
	assert.Len(t, r.Task.Revealed, len(testchain.Committee))
}

func TestRejectedReport(t *testing.T) {
	tc, ts := newTestServer(t)
	id, err := tc.ReportFault("gpu-01", 6, "slow", false)
	require.NoError(t, err)

	var r reports.Report
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/reports/"+strconv.FormatUint(id, 10), &r))
	assert.Equal(t, "fault-rejected", r.Status)
}

func TestReportQueries(t *testing.T) {
	_, ts := newTestServer(t)

	var r *reports.Report
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/reports/99", &r))
	assert.Nil(t, r)

	assert.Equal(t, http.StatusBadRequest, httpGet(t, ts.URL+"/reports", nil))
	assert.Equal(t, http.StatusBadRequest, httpGet(t, ts.URL+"/reports?status=open", nil))
	assert.Equal(t, http.StatusNotFound, httpGet(t, ts.URL+"/reports/abc", nil))
}
