// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/rentnet/rentnet/kv"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/stackedmap"
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr rentnet.Address
	key  rentnet.Bytes32
}

func (k storageKey) dbKey() []byte {
	out := make([]byte, 0, rentnet.AddressLength+32)
	out = append(out, k.addr[:]...)
	return append(out, k.key[:]...)
}

// State manages the world state.
type State struct {
	db kv.Getter
	sm *stackedmap.StackedMap[storageKey, []byte]
}

// New create state object reading committed values from db.
func New(db kv.Getter) *State {
	s := &State{db: db}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key storageKey) ([]byte, bool, error) {
	v, err := s.db.Get(key.dbKey())
	if err != nil {
		if s.db.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

// GetRawStorage returns the raw storage value for given address and key.
// A missing value is returned as nil.
func (s *State) GetRawStorage(addr rentnet.Address, key rentnet.Bytes32) ([]byte, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set the raw storage value. Empty raw deletes the value.
func (s *State) SetRawStorage(addr rentnet.Address, key rentnet.Bytes32, raw []byte) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr rentnet.Address, key rentnet.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr rentnet.Address, key rentnet.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision < 0 || revision >= s.sm.Depth() {
		panic("state: invalid revision")
	}
	s.sm.PopTo(revision)
}

// Stage collects the pending changes for commit.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey][]byte)
	s.sm.Journal(func(k storageKey, v []byte) bool {
		changes[k] = v
		return true
	})
	return newStage(changes)
}
