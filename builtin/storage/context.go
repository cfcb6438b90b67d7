// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package storage

import (
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

// Context binds a builtin module address to the state it stores into.
type Context struct {
	address rentnet.Address
	state   *state.State
}

func NewContext(address rentnet.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() rentnet.Address {
	return c.address
}

// Slot derives a storage slot from a human readable name.
func Slot(name string) rentnet.Bytes32 {
	return rentnet.BytesToBytes32([]byte(name))
}
