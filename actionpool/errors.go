// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actionpool

import "github.com/pkg/errors"

var errKnownAction = errors.New("known action")

// IsKnownAction returns whether the error means the action was seen before.
func IsKnownAction(err error) bool {
	return errors.Cause(err) == errKnownAction
}

// badActionError indicates the action itself is malformed.
type badActionError struct {
	msg string
}

func (e badActionError) Error() string {
	return "bad action: " + e.msg
}

// IsBadAction returns whether the error is a bad action error.
func IsBadAction(err error) bool {
	_, ok := errors.Cause(err).(badActionError)
	return ok
}

// actionRejectedError indicates the action is well formed but can not be pooled now.
type actionRejectedError struct {
	msg string
}

func (e actionRejectedError) Error() string {
	return "action rejected: " + e.msg
}

// IsActionRejected returns whether the error is an action rejected error.
func IsActionRejected(err error) bool {
	_, ok := errors.Cause(err).(actionRejectedError)
	return ok
}
