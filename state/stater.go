// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/rentnet/rentnet/kv"
)

const storeName = kv.Bucket("s.")

// Stater is the state creator.
type Stater struct {
	store kv.Store
}

// NewStater create a new stater over the given store.
func NewStater(store kv.Store) *Stater {
	return &Stater{storeName.NewStore(store)}
}

// NewState create a new state over the committed values.
func (s *Stater) NewState() *State {
	return New(s.store)
}

// Store returns the bucketed store where stages are committed.
func (s *Stater) Store() kv.Store {
	return s.store
}

// NewPutter wraps a putter of the underlying store, so that a stage can be
// committed within a bulk shared with other data.
func (s *Stater) NewPutter(p kv.Putter) kv.Putter {
	return storeName.NewPutter(p)
}
