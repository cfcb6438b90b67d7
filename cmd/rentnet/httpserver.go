// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/co"
	"github.com/rentnet/rentnet/metrics"
)

// startServer serves handler on addr in the background. It returns the
// listening address and a func to stop the server.
func startServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen addr [%v]", addr)
	}

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return listener.Addr().String(), func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	listenAddr, closeFunc, err := startServer(addr, handler)
	if err != nil {
		return "", nil, errors.Wrap(err, "API server")
	}
	return "http://" + listenAddr + "/", closeFunc, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	listenAddr, closeFunc, err := startServer(addr, handlers.CompressHandler(router))
	if err != nil {
		return "", nil, errors.Wrap(err, "metrics server")
	}
	return "http://" + listenAddr + "/metrics", closeFunc, nil
}

func startAdminServer(addr string, handler http.Handler) (string, func(), error) {
	listenAddr, closeFunc, err := startServer(addr, handler)
	if err != nil {
		return "", nil, errors.Wrap(err, "admin server")
	}
	return "http://" + listenAddr + "/admin", closeFunc, nil
}
