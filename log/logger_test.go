// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextFollowsDefault(t *testing.T) {
	l := WithContext("pkg", "committee")

	var buf bytes.Buffer
	SetDefault(NewHandler(&buf, LvlDebug, true, false))
	defer SetDefault(DiscardHandler())

	l.With("member", "0x01").Info("booked", "machine", "gpu-01")
	l.Trace("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "committee", rec["pkg"])
	assert.Equal(t, "0x01", rec["member"])
	assert.Equal(t, "gpu-01", rec["machine"])
	assert.Equal(t, "booked", rec["msg"])

	assert.True(t, l.Enabled(slog.LevelInfo))
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, FromLegacyLevel(LvlInfo))
	assert.Equal(t, FromLegacyLevel(LvlTrace), FromLegacyLevel(9))
	assert.Equal(t, FromLegacyLevel(LvlCrit), FromLegacyLevel(-1))
}

func TestLeveledHandler(t *testing.T) {
	var (
		buf   bytes.Buffer
		level slog.LevelVar
	)
	level.Set(LevelWarn)
	SetDefault(NewLeveledHandler(&buf, &level, true, false))
	defer SetDefault(DiscardHandler())

	l := WithContext("pkg", "slash")
	l.Info("hidden")
	assert.Empty(t, buf.String())

	level.Set(LevelDebug)
	l.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewBypassesRoot(t *testing.T) {
	SetDefault(DiscardHandler())

	var buf bytes.Buffer
	l := New(NewHandler(&buf, LvlInfo, true, false), "pkg", "api")
	l.With("uri", "/machines").Info("API Request")
	l.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "api", rec["pkg"])
	assert.Equal(t, "/machines", rec["uri"])
	assert.False(t, l.Enabled(slog.LevelDebug))
}
