// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rentnet/rentnet/actionpool"
	"github.com/rentnet/rentnet/api/accounts"
	"github.com/rentnet/rentnet/api/actions"
	"github.com/rentnet/rentnet/api/blocks"
	"github.com/rentnet/rentnet/api/committees"
	"github.com/rentnet/rentnet/api/events"
	"github.com/rentnet/rentnet/api/machines"
	"github.com/rentnet/rentnet/api/middleware"
	"github.com/rentnet/rentnet/api/node"
	"github.com/rentnet/rentnet/api/orders"
	"github.com/rentnet/rentnet/api/params"
	"github.com/rentnet/rentnet/api/reports"
	"github.com/rentnet/rentnet/api/slashes"
	"github.com/rentnet/rentnet/api/subscriptions"
	"github.com/rentnet/rentnet/api/tasks"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/logdb"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	BacktraceLimit       uint32
	LogsLimit            uint64
	PprofOn              bool
	SkipLogs             bool
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	RequestLogger        log.Logger
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	NodeInfo             node.Info
}

// New return api router
func New(
	repo *chain.Repository,
	pool *actionpool.ActionPool,
	logDB *logdb.LogDB,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(repo).
		Mount(router, "/accounts")
	blocks.New(repo).
		Mount(router, "/blocks")
	actions.New(repo, pool).
		Mount(router, "/actions")
	params.New(repo).
		Mount(router, "/params")
	committees.New(repo).
		Mount(router, "/committees")
	tasks.New(repo).
		Mount(router, "/tasks")
	machines.New(repo).
		Mount(router, "/machines")
	reports.New(repo).
		Mount(router, "/reports")
	orders.New(repo).
		Mount(router, "/orders")
	slashes.New(repo).
		Mount(router, "/slashes")
	node.New(repo, pool, opts.NodeInfo).
		Mount(router, "/node")

	var eventDB *logdb.LogDB
	if !opts.SkipLogs {
		eventDB = logDB
		events.New(repo, logDB, opts.LogsLimit).
			Mount(router, "/logs/events")
	}
	subs := subscriptions.New(repo, eventDB, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id", "x-rentnet-ver"}),
	)(handler)

	if opts.EnableReqLogger != nil {
		reqLogger := opts.RequestLogger
		if reqLogger == nil {
			reqLogger = logger
		}
		handler = middleware.RequestLoggerMiddleware(reqLogger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
