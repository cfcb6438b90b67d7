// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// DiscardHandler returns a no-op handler
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// NewHandler builds the root handler used by the node.
// verbosity takes the legacy 0-5 levels, anything above 5 is trace.
func NewHandler(w io.Writer, verbosity int, jsonLogs bool, useColor bool) slog.Handler {
	var inner slog.Handler
	if jsonLogs {
		inner = ethlog.JSONHandler(w)
	} else {
		inner = ethlog.NewTerminalHandler(w, useColor)
	}
	glog := ethlog.NewGlogHandler(inner)
	glog.Verbosity(FromLegacyLevel(verbosity))
	return glog
}

// Levels accepted by the admin endpoint, including geth's extra ones.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// NewLeveledHandler is like NewHandler but its level follows level, so it
// can be changed while the node runs.
func NewLeveledHandler(w io.Writer, level *slog.LevelVar, jsonLogs bool, useColor bool) slog.Handler {
	return &leveledHandler{NewHandler(w, LvlTrace, jsonLogs, useColor), level}
}

type leveledHandler struct {
	slog.Handler
	level *slog.LevelVar
}

func (h *leveledHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level.Level() && h.Handler.Enabled(ctx, l)
}

func (h *leveledHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &leveledHandler{h.Handler.WithAttrs(attrs), h.level}
}

func (h *leveledHandler) WithGroup(name string) slog.Handler {
	return &leveledHandler{h.Handler.WithGroup(name), h.level}
}

// FromLegacyLevel maps a legacy verbosity to a slog level.
func FromLegacyLevel(verbosity int) slog.Level {
	if verbosity > LvlTrace {
		verbosity = LvlTrace
	}
	if verbosity < LvlCrit {
		verbosity = LvlCrit
	}
	return ethlog.FromLegacyLevel(verbosity)
}
