// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/state"
)

// Isolate runs fn under a state checkpoint. When fn fails, the state changes
// and events it made are dropped and its error is returned unchanged.
func Isolate(st *state.State, log *events.Log, fn func() error) error {
	checkpoint := st.NewCheckpoint()
	mark := log.Len()
	if err := fn(); err != nil {
		st.RevertTo(checkpoint)
		log.Truncate(mark)
		return err
	}
	return nil
}
