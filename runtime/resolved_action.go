// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/rentnet"
)

// ResolvedAction is an action with its signer recovered and payload decoded.
type ResolvedAction struct {
	Action  *action.Action
	Origin  rentnet.Address
	Payload action.Payload
}

// ResolveAction resolves the action and performs basic validation.
func ResolveAction(a *action.Action, chainTag byte) (*ResolvedAction, error) {
	if a.ChainTag() != chainTag {
		return nil, errors.Errorf("chain tag mismatch: want %#x, got %#x", chainTag, a.ChainTag())
	}
	if a.Size() > rentnet.MaxActionSize {
		return nil, errors.New("action too large")
	}
	origin, err := a.Signer()
	if err != nil {
		return nil, errors.Wrap(err, "recover signer")
	}
	payload, err := a.Payload()
	if err != nil {
		return nil, errors.Wrap(err, "decode payload")
	}
	return &ResolvedAction{a, origin, payload}, nil
}
