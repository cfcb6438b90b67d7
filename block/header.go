// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rentnet/rentnet/rentnet"
)

// Header contains almost all information about a block, except block body.
// It's immutable.
type Header struct {
	body headerBody

	cache struct {
		signingHash atomic.Pointer[rentnet.Bytes32]
		signer      atomic.Pointer[rentnet.Address]
		id          atomic.Pointer[rentnet.Bytes32]
	}
}

// headerBody body of header
type headerBody struct {
	ParentID  rentnet.Bytes32
	Timestamp uint64

	// Seed is the VRF output of the proposer over the parent seed, Proof proves it.
	Seed  rentnet.Bytes32
	Proof []byte

	ActionsRoot  rentnet.Bytes32
	ReceiptsRoot rentnet.Bytes32
	StateRoot    rentnet.Bytes32

	Signature []byte
}

// ParentID returns id of parent block.
func (h *Header) ParentID() rentnet.Bytes32 {
	return h.body.ParentID
}

// Number returns sequential number of this block.
func (h *Header) Number() uint32 {
	// inferred from parent id
	return Number(h.body.ParentID) + 1
}

// Timestamp returns timestamp of this block.
func (h *Header) Timestamp() uint64 {
	return h.body.Timestamp
}

// Seed returns the random seed of this block.
func (h *Header) Seed() rentnet.Bytes32 {
	return h.body.Seed
}

// Proof returns the VRF proof of the seed.
func (h *Header) Proof() []byte {
	return append([]byte(nil), h.body.Proof...)
}

// ActionsRoot returns the root hash of actions contained in this block.
func (h *Header) ActionsRoot() rentnet.Bytes32 {
	return h.body.ActionsRoot
}

// ReceiptsRoot returns the root hash of action receipts.
func (h *Header) ReceiptsRoot() rentnet.Bytes32 {
	return h.body.ReceiptsRoot
}

// StateRoot commits to the state after this block being applied. It chains the
// parent state root with the hash of the changes made by this block.
func (h *Header) StateRoot() rentnet.Bytes32 {
	return h.body.StateRoot
}

// Signature returns signature.
func (h *Header) Signature() []byte {
	return append([]byte(nil), h.body.Signature...)
}

// ID computes id of block.
// The block ID is defined as: blockNumber + hash(signingHash, signer)[4:].
func (h *Header) ID() (id rentnet.Bytes32) {
	if cached := h.cache.id.Load(); cached != nil {
		return *cached
	}
	defer func() {
		// overwrite first 4 bytes of block hash to block number.
		binary.BigEndian.PutUint32(id[:], h.Number())
		h.cache.id.Store(&id)
	}()

	signer, err := h.Signer()
	if err != nil {
		return
	}
	hash := h.SigningHash()
	return rentnet.Blake2b(hash[:], signer[:])
}

// SigningHash computes hash of all header fields excluding signature.
func (h *Header) SigningHash() rentnet.Bytes32 {
	if cached := h.cache.signingHash.Load(); cached != nil {
		return *cached
	}
	hash := rentnet.Blake2bFn(func(w io.Writer) {
		rlp.Encode(w, []any{
			h.body.ParentID,
			h.body.Timestamp,
			h.body.Seed,
			h.body.Proof,
			h.body.ActionsRoot,
			h.body.ReceiptsRoot,
			h.body.StateRoot,
		})
	})
	h.cache.signingHash.Store(&hash)
	return hash
}

// Signer extract signer of the block from signature.
func (h *Header) Signer() (signer rentnet.Address, err error) {
	if h.Number() == 0 {
		// special case for genesis block
		return rentnet.Address{}, nil
	}
	if cached := h.cache.signer.Load(); cached != nil {
		return *cached, nil
	}
	hash := h.SigningHash()
	pub, err := crypto.SigToPub(hash[:], h.body.Signature)
	if err != nil {
		return rentnet.Address{}, err
	}
	signer = rentnet.Address(crypto.PubkeyToAddress(*pub))
	h.cache.signer.Store(&signer)
	return signer, nil
}

// WithSignature create a new Header object with signature set.
func (h *Header) WithSignature(sig []byte) *Header {
	cpy := Header{body: h.body}
	cpy.body.Signature = append([]byte(nil), sig...)
	return &cpy
}

// EncodeRLP implements rlp.Encoder
func (h *Header) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &h.body)
}

// DecodeRLP implements rlp.Decoder.
func (h *Header) DecodeRLP(s *rlp.Stream) error {
	var body headerBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*h = Header{body: body}
	return nil
}

func (h *Header) String() string {
	signer, err := h.Signer()
	var signerStr string
	if err != nil {
		signerStr = "N/A"
	} else {
		signerStr = signer.String()
	}

	return fmt.Sprintf(`Header(%v):
	Number:         %v
	ParentID:       %v
	Timestamp:      %v
	Signer:         %v
	Seed:           %v
	ActionsRoot:    %v
	ReceiptsRoot:   %v
	StateRoot:      %v
	Signature:      0x%x`, h.ID(), h.Number(), h.body.ParentID, h.body.Timestamp, signerStr,
		h.body.Seed, h.body.ActionsRoot, h.body.ReceiptsRoot, h.body.StateRoot, h.body.Signature)
}

// Number extract block number from block id.
func Number(blockID rentnet.Bytes32) uint32 {
	// first 4 bytes are over written by block number (big endian).
	return binary.BigEndian.Uint32(blockID[:])
}
