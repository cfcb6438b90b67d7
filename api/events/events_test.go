// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/api/events"
	"github.com/rentnet/rentnet/genesis"
	"github.com/rentnet/rentnet/logdb"
	"github.com/rentnet/rentnet/test/testchain"
)

const limit = 5

type testServer struct {
	*httptest.Server
	chain *testchain.Chain
	add   *action.Action
}

func newTestServer(t *testing.T) *testServer {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)
	router := mux.NewRouter()
	events.New(tc.Repo(), tc.LogDB(), limit).Mount(router, "/logs/events")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		tc.Close()
	})

	add := tc.Sign(&action.AddMachine{MachineID: "gpu-01", GPUNum: 1, Price: 10}, 5)
	_, err = tc.MintBlock(add)
	require.NoError(t, err)
	return &testServer{ts, tc, add}
}

func (ts *testServer) get(t *testing.T, query string) ([]*events.FilteredEvent, int) {
	res, err := http.Get(ts.URL + "/logs/events" + query) //#nosec G107
	require.NoError(t, err)
	return decode(t, res)
}

func (ts *testServer) post(t *testing.T, filter any) ([]*events.FilteredEvent, int) {
	data, err := json.Marshal(filter)
	require.NoError(t, err)
	res, err := http.Post(ts.URL+"/logs/events", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return decode(t, res)
}

func decode(t *testing.T, res *http.Response) ([]*events.FilteredEvent, int) {
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if res.StatusCode != http.StatusOK {
		return nil, res.StatusCode
	}
	var evs []*events.FilteredEvent
	require.NoError(t, json.Unmarshal(body, &evs))
	return evs, res.StatusCode
}

func TestQueryEvents(t *testing.T) {
	ts := newTestServer(t)
	owner := genesis.DevAccounts()[5].Address

	evs, code := ts.get(t, "?module=onlineprofile&name=bonded")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, evs, 1)
	ev := evs[0]
	assert.Equal(t, "gpu-01", ev.Subject)
	assert.Equal(t, owner, ev.Account)
	assert.NotZero(t, ev.Amount)
	assert.Equal(t, ts.add.ID(), ev.Meta.ActionID)
	assert.Equal(t, uint32(1), ev.Meta.BlockNumber)

	evs, code = ts.get(t, "?account="+owner.String()+"&actionID="+ts.add.ID().String())
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, evs)
	for _, ev := range evs {
		assert.Equal(t, ts.add.ID(), ev.Meta.ActionID)
	}

	evs, code = ts.get(t, "?module=onlineprofile&from=2")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, evs)
}

func TestFilterEvents(t *testing.T) {
	ts := newTestServer(t)
	from := uint64(0)

	evs, code := ts.post(t, &events.EventFilter{
		CriteriaSet: []*events.EventCriteria{
			{Module: "onlineprofile", Name: "bonded"},
			{Module: "verification", Name: "booked"},
		},
		Range:   &events.Range{Unit: "block", From: &from},
		Options: &events.Options{Limit: limit},
		Order:   logdb.DESC,
	})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, evs, 1+len(testchain.Committee))
	for i := 1; i < len(evs); i++ {
		assert.Equal(t, "booked", evs[i-1].Name, "housekeeping events come last")
	}
	assert.Equal(t, "bonded", evs[len(evs)-1].Name)
}

func TestFilterEventsLimits(t *testing.T) {
	ts := newTestServer(t)

	_, code := ts.post(t, &events.EventFilter{Options: &events.Options{Limit: limit + 1}})
	assert.Equal(t, http.StatusForbidden, code)

	// more matches than the limit without pagination
	_, code = ts.post(t, &events.EventFilter{})
	assert.Equal(t, http.StatusForbidden, code)

	evs, code := ts.post(t, &events.EventFilter{Options: &events.Options{Offset: 1, Limit: 2}})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, evs, 2)

	_, code = ts.post(t, &events.EventFilter{Order: "sideways"})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = ts.post(t, map[string]any{"criteriaSet": []any{nil}})
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = ts.get(t, "?unit=era")
	assert.Equal(t, http.StatusBadRequest, code)

	_, code = ts.get(t, "?from=5&to=1")
	assert.Equal(t, http.StatusBadRequest, code)
}
