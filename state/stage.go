// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"encoding/binary"
	"io"
	"slices"

	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/kv"
	"github.com/rentnet/rentnet/rentnet"
)

// Stage abstracts changes to be committed, ordered by key.
type Stage struct {
	keys   [][]byte
	values [][]byte
}

func newStage(changes map[storageKey][]byte) *Stage {
	keys := make([][]byte, 0, len(changes))
	byKey := make(map[string][]byte, len(changes))
	for k, v := range changes {
		dk := k.dbKey()
		keys = append(keys, dk)
		byKey[string(dk)] = v
	}
	slices.SortFunc(keys, bytes.Compare)

	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = byKey[string(k)]
	}
	return &Stage{keys: keys, values: values}
}

// Len returns the number of changed storage entries.
func (s *Stage) Len() int {
	return len(s.keys)
}

// Hash computes the digest of the change set. It only depends on the final
// value of each changed entry.
func (s *Stage) Hash() rentnet.Bytes32 {
	return rentnet.Blake2bFn(func(w io.Writer) {
		var n [4]byte
		for i, k := range s.keys {
			w.Write(k)
			binary.BigEndian.PutUint32(n[:], uint32(len(s.values[i])))
			w.Write(n[:])
			w.Write(s.values[i])
		}
	})
}

// ChainedRoot chains the change set hash onto the parent state root.
func (s *Stage) ChainedRoot(parent rentnet.Bytes32) rentnet.Bytes32 {
	h := s.Hash()
	return rentnet.Blake2b(parent[:], h[:])
}

// Commit writes the changes into putter.
func (s *Stage) Commit(putter kv.Putter) error {
	for i, k := range s.keys {
		var err error
		if len(s.values[i]) == 0 {
			err = putter.Delete(k)
		} else {
			err = putter.Put(k, s.values[i])
		}
		if err != nil {
			return errors.Wrap(err, "commit state")
		}
	}
	return nil
}
