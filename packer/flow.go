// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import (
	"crypto/ecdsa"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/runtime"
)

// Flow the flow of packing a new block.
type Flow struct {
	packer       *Packer
	parentHeader *block.Header
	runtime      *runtime.Runtime
	proof        []byte
	actions      action.Actions
	receipts     action.Receipts
	started      time.Time
}

func newFlow(packer *Packer, parentHeader *block.Header, rt *runtime.Runtime, proof []byte) *Flow {
	return &Flow{
		packer:       packer,
		parentHeader: parentHeader,
		runtime:      rt,
		proof:        proof,
		started:      time.Now(),
	}
}

// ParentHeader returns parent block header.
func (f *Flow) ParentHeader() *block.Header {
	return f.parentHeader
}

// Number returns the number of the block being packed.
func (f *Flow) Number() uint32 {
	return f.runtime.BlockNumber()
}

// When the target time of the block.
func (f *Flow) When() uint64 {
	return f.runtime.Env().Timestamp
}

// Adopt try to execute the given action.
// If the action is valid it will be adopted by the new block, even when it reverts.
func (f *Flow) Adopt(a *action.Action) error {
	if len(f.actions) >= rentnet.MaxActionsPerBlock {
		return errBlockFull
	}
	if _, err := runtime.ResolveAction(a, f.packer.repo.ChainTag()); err != nil {
		return badActionError{err.Error()}
	}

	receipt, err := f.runtime.ExecuteAction(a)
	if err != nil {
		if errors.Is(err, runtime.ErrKnownAction) {
			return errKnownAction
		}
		return err
	}
	metricActionKindCounter().AddWithLabel(1, map[string]string{
		"kind":     a.Kind().String(),
		"reverted": boolLabel(receipt.Reverted),
	})
	f.actions = append(f.actions, a)
	f.receipts = append(f.receipts, receipt)
	return nil
}

// Pack runs the block housekeeping, then builds and signs the new block.
func (f *Flow) Pack(privateKey *ecdsa.PrivateKey) (*Packed, error) {
	if f.packer.master != rentnet.Address(crypto.PubkeyToAddress(privateKey.PublicKey)) {
		return nil, errPrivateKeyMismatch
	}

	evs, err := f.runtime.Housekeep()
	if err != nil {
		return nil, errors.Wrap(err, "housekeep")
	}

	stage := f.runtime.State().Stage()
	env := f.runtime.Env()
	builder := new(block.Builder).
		ParentID(f.parentHeader.ID()).
		Timestamp(env.Timestamp).
		Seed(env.Seed, f.proof).
		ReceiptsRoot(f.receipts.RootHash()).
		StateRoot(stage.ChainedRoot(f.parentHeader.StateRoot()))
	for _, a := range f.actions {
		builder.Action(a)
	}
	newBlock := builder.Build()

	sig, err := crypto.Sign(newBlock.Header().SigningHash().Bytes(), privateKey)
	if err != nil {
		return nil, err
	}

	metricBlockPackedDuration().ObserveWithLabels(
		time.Since(f.started).Milliseconds(),
		map[string]string{"actions": sizeLabel(len(f.actions))},
	)
	return &Packed{
		Block:    newBlock.WithSignature(sig),
		Receipts: f.receipts,
		Stage:    stage,
		Events:   evs,
	}, nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func sizeLabel(n int) string {
	switch {
	case n == 0:
		return "empty"
	case n < 100:
		return "small"
	default:
		return "large"
	}
}
