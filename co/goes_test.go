// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoes(t *testing.T) {
	var (
		goes Goes
		n    atomic.Int32
	)
	for range 10 {
		goes.Go(func() {
			time.Sleep(10 * time.Millisecond)
			n.Add(1)
		})
	}

	select {
	case <-goes.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("goes not done")
	}
	goes.Wait()
	assert.Equal(t, int32(10), n.Load())
	assert.Zero(t, goes.Running())
}

func TestGoesRunning(t *testing.T) {
	var goes Goes
	release := make(chan struct{})
	for range 3 {
		goes.Go(func() { <-release })
	}
	assert.Equal(t, 3, goes.Running())

	close(release)
	goes.Wait()
	assert.Equal(t, 0, goes.Running())
}
