// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package packer

import "github.com/pkg/errors"

var (
	errBlockFull          = errors.New("block is full")
	errKnownAction        = errors.New("known action")
	errParentNotBest      = errors.New("parent is not the best block")
	errTimestampTooEarly  = errors.New("timestamp not after parent")
	errPrivateKeyMismatch = errors.New("private key mismatch")
)

// IsBlockFull block is full of actions.
func IsBlockFull(err error) bool {
	return errors.Is(err, errBlockFull)
}

// IsKnownAction the action was executed before.
func IsKnownAction(err error) bool {
	return errors.Is(err, errKnownAction)
}

// IsBadAction not a valid action.
func IsBadAction(err error) bool {
	return errors.As(err, &badActionError{})
}

type badActionError struct {
	msg string
}

func (e badActionError) Error() string {
	return "bad action: " + e.msg
}
