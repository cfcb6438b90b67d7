// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vrf

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/rentnet"
)

func TestProveVerify(t *testing.T) {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)

	alpha := Alpha(rentnet.Bytes32{1}, 7)
	beta, pi, err := Prove(sk, alpha)
	require.NoError(t, err)

	got, err := Verify(&sk.PublicKey, alpha, pi)
	require.NoError(t, err)
	assert.Equal(t, beta, got)

	// deterministic
	beta2, _, err := Prove(sk, alpha)
	require.NoError(t, err)
	assert.Equal(t, Seed(beta), Seed(beta2))

	_, err = Verify(&sk.PublicKey, Alpha(rentnet.Bytes32{1}, 8), pi)
	assert.Error(t, err)

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	_, err = Verify(&other.PublicKey, alpha, pi)
	assert.Error(t, err)
}

func TestAlpha(t *testing.T) {
	a := Alpha(rentnet.Bytes32{1}, 1)
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, Alpha(rentnet.Bytes32{1}, 2))
	assert.NotEqual(t, a, Alpha(rentnet.Bytes32{2}, 1))
}
