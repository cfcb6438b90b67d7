// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co holds goroutine helpers.
package co

import (
	"sync"
	"sync/atomic"
)

// Goes tracks a group of background goroutines so their owner can wait for
// them on shutdown. The zero value is ready to use.
type Goes struct {
	wg      sync.WaitGroup
	running atomic.Int64
}

// Go runs f in a new goroutine of the group.
func (g *Goes) Go(f func()) {
	g.running.Add(1)
	g.wg.Go(func() {
		defer g.running.Add(-1)
		f()
	})
}

// Running returns the number of goroutines still running.
func (g *Goes) Running() int {
	return int(g.running.Load())
}

// Wait blocks until every goroutine started by Go has returned.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel closed once the group drains.
func (g *Goes) Done() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	return done
}
