// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/test/testchain"
)

func newTestServer(t *testing.T, backtraceLimit uint32) (*testchain.Chain, *httptest.Server, *Subscriptions) {
	tc, err := testchain.NewDefault()
	require.NoError(t, err)

	subs := New(tc.Repo(), tc.LogDB(), []string{"*"}, backtraceLimit)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		ts.Close()
		subs.Close()
		tc.Close()
	})
	return tc, ts, subs
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, res, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	res.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readBlock(t *testing.T, conn *websocket.Conn) *BlockMessage {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg BlockMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return &msg
}

func TestSubscribeBlocks(t *testing.T) {
	tc, ts, _ := newTestServer(t, 10)
	for range 2 {
		_, err := tc.MintBlock()
		require.NoError(t, err)
	}

	conn := dial(t, ts, "/subscriptions/block?pos=1")
	assert.Equal(t, uint32(1), readBlock(t, conn).Number)
	assert.Equal(t, uint32(2), readBlock(t, conn).Number)

	packed, err := tc.MintBlock()
	require.NoError(t, err)
	msg := readBlock(t, conn)
	assert.Equal(t, uint32(3), msg.Number)
	assert.Equal(t, packed.Block.Header().ID(), msg.ID)
}

func TestSubscribeEvents(t *testing.T) {
	tc, ts, _ := newTestServer(t, 10)
	conn := dial(t, ts, "/subscriptions/event?module=onlineprofile&name=bonded")

	add := tc.Sign(&action.AddMachine{MachineID: "gpu-01", GPUNum: 2, Price: 100}, 5)
	_, err := tc.MintBlock(add)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg EventMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "bonded", msg.Name)
	assert.Equal(t, "gpu-01", msg.Subject)
	assert.Equal(t, add.ID(), msg.ActionID)
}

func TestSubscribeBadPosition(t *testing.T) {
	tc, ts, _ := newTestServer(t, 1)
	for range 3 {
		_, err := tc.MintBlock()
		require.NoError(t, err)
	}
	u := "ws" + strings.TrimPrefix(ts.URL, "http")

	_, res, err := websocket.DefaultDialer.Dial(u+"/subscriptions/block?pos=0", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	_, res, err = websocket.DefaultDialer.Dial(u+"/subscriptions/block?pos=100", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	_, res, err = websocket.DefaultDialer.Dial(u+"/subscriptions/unknown", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestMessageCache(t *testing.T) {
	cache := newMessageCache(10)
	calls := 0
	create := func() ([]byte, error) {
		calls++
		return []byte("msg"), nil
	}
	tc, _, _ := newTestServer(t, 10)
	id := tc.GenesisBlock().Header().ID()

	msg, created, err := cache.GetOrAdd(id, create)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []byte("msg"), msg)

	_, created, err = cache.GetOrAdd(id, create)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, calls)
}
