// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Legacy verbosity levels, as accepted by the --verbosity flag.
const (
	LvlCrit = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

// Logger writes key/value pairs to the process-wide root logger.
type Logger interface {
	With(ctx ...any) Logger
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
	Enabled(level slog.Level) bool
}

// WithContext returns a logger carrying ctx on every record.
// The root handler is resolved on each write, so package level loggers
// created during init follow later calls to SetDefault.
func WithContext(ctx ...any) Logger {
	return &logger{ctx: ctx}
}

type logger struct {
	ctx []any
}

func (l *logger) root() ethlog.Logger {
	if len(l.ctx) == 0 {
		return ethlog.Root()
	}
	return ethlog.Root().With(l.ctx...)
}

func (l *logger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	return &logger{ctx: append(merged, ctx...)}
}

func (l *logger) Trace(msg string, ctx ...any) { l.root().Trace(msg, ctx...) }
func (l *logger) Debug(msg string, ctx ...any) { l.root().Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.root().Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.root().Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.root().Error(msg, ctx...) }
func (l *logger) Crit(msg string, ctx ...any)  { l.root().Crit(msg, ctx...) }

func (l *logger) Enabled(level slog.Level) bool {
	return ethlog.Root().Enabled(context.Background(), level)
}

// New returns a logger writing to h instead of the root handler.
func New(h slog.Handler, ctx ...any) Logger {
	return &handlerLogger{ethlog.NewLogger(h).With(ctx...)}
}

type handlerLogger struct {
	l ethlog.Logger
}

func (l *handlerLogger) With(ctx ...any) Logger       { return &handlerLogger{l.l.With(ctx...)} }
func (l *handlerLogger) Trace(msg string, ctx ...any) { l.l.Trace(msg, ctx...) }
func (l *handlerLogger) Debug(msg string, ctx ...any) { l.l.Debug(msg, ctx...) }
func (l *handlerLogger) Info(msg string, ctx ...any)  { l.l.Info(msg, ctx...) }
func (l *handlerLogger) Warn(msg string, ctx ...any)  { l.l.Warn(msg, ctx...) }
func (l *handlerLogger) Error(msg string, ctx ...any) { l.l.Error(msg, ctx...) }
func (l *handlerLogger) Crit(msg string, ctx ...any)  { l.l.Crit(msg, ctx...) }
func (l *handlerLogger) Enabled(level slog.Level) bool {
	return l.l.Enabled(context.Background(), level)
}

// SetDefault replaces the root handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

func Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...any) { ethlog.Root().Error(msg, ctx...) }
