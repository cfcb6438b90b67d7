// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committee

import "github.com/rentnet/rentnet/builtin/reverts"

var (
	ErrAlreadyCommittee = reverts.New("already committee")
	ErrNotCommittee     = reverts.New("not committee")
	ErrStatusNotAllowed = reverts.New("committee status not allowed")
	ErrStakeNotEnough   = reverts.New("stake not enough")
	ErrStakeInUse       = reverts.New("stake in use")
	ErrOverflow         = reverts.New("stake overflow")
	ErrEmptyBoxPubkey   = reverts.New("empty box pubkey")
	ErrNothingToClaim   = reverts.New("no reward to claim")
)
