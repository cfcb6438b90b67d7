// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/rentnet/rentnet/rentnet"
)

// module names a builtin module and the account its storage lives under.
type module struct {
	Name    string
	Address rentnet.Address
}

func newModule(name string) *module {
	return &module{
		name,
		rentnet.BytesToAddress([]byte(name)),
	}
}
