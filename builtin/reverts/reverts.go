// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts separates rejected actions from node failures. A revert
// rolls back the action and lands in its receipt; any other error aborts the
// block.
package reverts

import "errors"

// ErrRevert rejects an action for a reason the sender can correct.
type ErrRevert struct {
	reason string
}

func New(reason string) *ErrRevert {
	return &ErrRevert{reason}
}

func (e *ErrRevert) Error() string { return e.reason }

// IsRevertErr reports whether err or anything it wraps is a revert.
func IsRevertErr(err error) bool {
	var revert *ErrRevert
	return errors.As(err, &revert)
}

// Reason returns the bare reason of the revert wrapped by err, without the
// context added while it propagated. It is empty when err is not a revert.
func Reason(err error) string {
	var revert *ErrRevert
	if errors.As(err, &revert) {
		return revert.reason
	}
	return ""
}
