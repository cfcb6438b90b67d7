// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committees_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/api/committees"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/genesis"
	"github.com/rentnet/rentnet/test/testchain"
)

func newTestServer(t *testing.T) (*testchain.Chain, *httptest.Server) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	router := mux.NewRouter()
	committees.New(tc.Repo()).Mount(router, "/committees")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		tc.Close()
	})
	return tc, ts
}

func TestListCommittees(t *testing.T) {
	_, ts := newTestServer(t)

	var list []*committees.Listed
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/committees", &list))
	require.Len(t, list, len(testchain.Committee))
	for _, l := range list {
		assert.Equal(t, "normal", l.Status)
	}

	list = nil
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/committees?status=chill", &list))
	assert.Empty(t, list)

	assert.Equal(t, http.StatusBadRequest, httpGet(t, ts.URL+"/committees?status=asleep", nil))
}

func TestGetMember(t *testing.T) {
	tc, ts := newTestServer(t)
	acc := genesis.DevAccounts()[testchain.Committee[0]]

	var m committees.Member
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/committees/"+acc.Address.String(), &m))
	assert.Equal(t, acc.Address, m.Address)
	assert.Equal(t, "normal", m.Status)
	assert.Equal(t, crypto.CompressPubkey(&acc.PrivateKey.PublicKey), []byte(m.BoxPubkey))
	assert.NotZero(t, m.Stake.Staked)
	assert.Equal(t, m.Stake.Staked, m.Stake.Free)
	assert.Empty(t, m.Machines.Finished)

	require.NoError(t, tc.OnboardMachine("gpu-01", 5, onlineprofile.Info{GPUType: "A100", GPUNum: 1, CalcPoint: 900}))

	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/committees/"+acc.Address.String(), &m))
	assert.Equal(t, []string{"gpu-01"}, m.Machines.Finished)
	assert.Empty(t, m.Machines.Booked)
	assert.Empty(t, m.Reports.Finished)
}

func TestGetNonMember(t *testing.T) {
	_, ts := newTestServer(t)

	var m committees.Member
	require.Equal(t, http.StatusOK, httpGet(t, ts.URL+"/committees/"+genesis.DevAccounts()[8].Address.String(), &m))
	assert.Equal(t, "none", m.Status)
	assert.Zero(t, m.Stake.Staked)

	assert.Equal(t, http.StatusBadRequest, httpGet(t, ts.URL+"/committees/0xzz", nil))
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
