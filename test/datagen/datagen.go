// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random values for tests.
package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/rentnet/rentnet/rentnet"
)

func RandBytes32() (b rentnet.Bytes32) {
	rand.Read(b[:])
	return
}

func RandAddress() (addr rentnet.Address) {
	rand.Read(addr[:])
	return
}

func RandUint64() uint64 {
	return mathrand.Uint64() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}
