// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vrf produces and checks the verifiable random seed of blocks.
package vrf

import (
	"crypto/ecdsa"
	"encoding/binary"

	"github.com/vechain/go-ecvrf"

	"github.com/rentnet/rentnet/rentnet"
)

var vrf = ecvrf.NewSecp256k1Sha256Tai()

// Prove constructs a VRF proof `pi` for the given input `alpha`,
// using the private key `sk`. The hash output is returned as `beta`.
func Prove(sk *ecdsa.PrivateKey, alpha []byte) (beta, pi []byte, err error) {
	return vrf.Prove(sk, alpha)
}

// Verify checks the proof `pi` of the message `alpha` against the given
// public key `pk`. The hash output is returned as `beta`.
func Verify(pk *ecdsa.PublicKey, alpha, pi []byte) (beta []byte, err error) {
	return vrf.Verify(pk, alpha, pi)
}

// Alpha returns the VRF input for block number num, chained on the parent seed.
func Alpha(parentSeed rentnet.Bytes32, num uint32) []byte {
	alpha := make([]byte, 36)
	copy(alpha, parentSeed[:])
	binary.BigEndian.PutUint32(alpha[32:], num)
	return alpha
}

// Seed derives a block seed from the VRF output.
func Seed(beta []byte) rentnet.Bytes32 {
	return rentnet.Blake2b(beta)
}
