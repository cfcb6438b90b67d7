// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package action

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/crypto/secp256k1"

	"github.com/rentnet/rentnet/rentnet"
)

// Signer recovers the address that signed the action.
func (a *Action) Signer() (signer rentnet.Address, err error) {
	if cached := a.cache.signer.Load(); cached != nil {
		return *cached, nil
	}
	if len(a.body.Signature) != 65 {
		return rentnet.Address{}, secp256k1.ErrInvalidSignatureLen
	}
	hash := a.SigningHash()
	pub, err := crypto.SigToPub(hash[:], a.body.Signature)
	if err != nil {
		return rentnet.Address{}, err
	}
	signer = rentnet.Address(crypto.PubkeyToAddress(*pub))
	a.cache.signer.Store(&signer)
	return signer, nil
}

// Sign signs an action using the provided private key.
func Sign(a *Action, pk *ecdsa.PrivateKey) (*Action, error) {
	hash := a.SigningHash()
	sig, err := crypto.Sign(hash[:], pk)
	if err != nil {
		return nil, fmt.Errorf("unable to sign action: %w", err)
	}
	return a.WithSignature(sig), nil
}

// MustSign signs an action and panics on failure.
func MustSign(a *Action, pk *ecdsa.PrivateKey) *Action {
	signed, err := Sign(a, pk)
	if err != nil {
		panic(err)
	}
	return signed
}
