// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package action defines the signed requests accepted by the engine.
package action

import (
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/rentnet"
)

// Action is an immutable signed request.
type Action struct {
	body body

	cache struct {
		signingHash atomic.Pointer[rentnet.Bytes32]
		signer      atomic.Pointer[rentnet.Address]
		id          atomic.Pointer[rentnet.Bytes32]
		size        atomic.Uint64
	}
}

// body describes details of an action.
type body struct {
	ChainTag  byte
	Nonce     uint64
	Kind      Kind
	Payload   []byte
	Signature []byte
}

// ChainTag returns the last byte of the genesis block id.
func (a *Action) ChainTag() byte {
	return a.body.ChainTag
}

// Nonce returns the nonce chosen by the signer.
func (a *Action) Nonce() uint64 {
	return a.body.Nonce
}

// Kind returns the kind of the payload.
func (a *Action) Kind() Kind {
	return a.body.Kind
}

// Payload decodes the payload.
func (a *Action) Payload() (Payload, error) {
	return DecodePayload(a.body.Kind, a.body.Payload)
}

// Signature returns the signature.
func (a *Action) Signature() []byte {
	return append([]byte(nil), a.body.Signature...)
}

// SigningHash returns the hash of the action without signature.
func (a *Action) SigningHash() rentnet.Bytes32 {
	if cached := a.cache.signingHash.Load(); cached != nil {
		return *cached
	}
	h := rentnet.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			a.body.ChainTag,
			a.body.Nonce,
			a.body.Kind,
			a.body.Payload,
		})
	})
	a.cache.signingHash.Store(&h)
	return h
}

// ID returns the id of the action. It depends on the signer, so an unsigned
// action has no valid id.
func (a *Action) ID() (id rentnet.Bytes32) {
	if cached := a.cache.id.Load(); cached != nil {
		return *cached
	}
	defer func() { a.cache.id.Store(&id) }()

	signer, err := a.Signer()
	if err != nil {
		return
	}
	hash := a.SigningHash()
	return rentnet.Blake2b(hash[:], signer[:])
}

// WithSignature creates a new action with signature set.
func (a *Action) WithSignature(sig []byte) *Action {
	newAction := Action{
		body: a.body,
	}
	newAction.body.Signature = append([]byte(nil), sig...)
	return &newAction
}

// Size returns the encoded size.
func (a *Action) Size() uint64 {
	if cached := a.cache.size.Load(); cached != 0 {
		return cached
	}
	var c writeCounter
	rlp.Encode(&c, a)
	a.cache.size.Store(uint64(c))
	return uint64(c)
}

// EncodeRLP implements rlp.Encoder.
func (a *Action) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &a.body)
}

// DecodeRLP implements rlp.Decoder.
func (a *Action) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	*a = Action{body: body}
	return nil
}

// Validate checks the payload decodes and the action is signed.
func (a *Action) Validate(chainTag byte) error {
	if a.body.ChainTag != chainTag {
		return errors.New("chain tag mismatch")
	}
	if _, err := a.Payload(); err != nil {
		return errors.Wrap(err, "payload")
	}
	if _, err := a.Signer(); err != nil {
		return err
	}
	return nil
}

func (a *Action) String() string {
	signer, _ := a.Signer()
	return "Action(" + a.ID().AbbrevString() + " " + a.body.Kind.String() + " from " + signer.String() + ")"
}

type writeCounter uint64

func (c *writeCounter) Write(b []byte) (int, error) {
	*c += writeCounter(len(b))
	return len(b), nil
}

// Actions is a list of actions.
type Actions []*Action

// RootHash computes the root hash of the ids of actions.
func (as Actions) RootHash() rentnet.Bytes32 {
	return rentnet.Blake2bFn(func(w io.Writer) {
		for _, a := range as {
			id := a.ID()
			w.Write(id[:])
		}
	})
}
