// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes actions against the builtin modules of a block.
package runtime

import (
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/builtin"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/builtin/storage"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var logger = log.WithContext("pkg", "runtime")

var (
	// ErrKnownAction is returned for an action already executed in the chain.
	ErrKnownAction = errors.New("action already executed")

	// Actions is the account keeping executed action ids.
	Actions      = rentnet.BytesToAddress([]byte("Actions"))
	slotExecuted = storage.Slot("runtime-executed")
)

// Runtime is to support action execution.
type Runtime struct {
	state    *state.State
	chainTag byte
	modules  *builtin.Modules
	executed *storage.Mapping[rentnet.Bytes32, uint32]
}

// New create a Runtime object.
func New(state *state.State, env *builtin.Env, chainTag byte) *Runtime {
	return &Runtime{
		state:    state,
		chainTag: chainTag,
		modules:  builtin.New(state, env, &events.Log{}),
		executed: storage.NewMapping[rentnet.Bytes32, uint32](storage.NewContext(Actions, state), slotExecuted),
	}
}

func (rt *Runtime) State() *state.State       { return rt.state }
func (rt *Runtime) Env() *builtin.Env         { return rt.modules.Env }
func (rt *Runtime) Modules() *builtin.Modules { return rt.modules }
func (rt *Runtime) Events() []*events.Event   { return rt.modules.Log.All() }
func (rt *Runtime) BlockNumber() uint32       { return rt.modules.Env.Number }

// IsExecuted returns the block an action was executed in.
func (rt *Runtime) IsExecuted(id rentnet.Bytes32) (uint32, bool, error) {
	ok, err := rt.executed.Exists(id)
	if err != nil || !ok {
		return 0, false, err
	}
	num, err := rt.executed.Get(id)
	return num, true, err
}

// ExecuteAction executes a signed action. A rejected action yields a reverted
// receipt and leaves no state change but the record of its id. An error means
// the action can not be included in the block.
func (rt *Runtime) ExecuteAction(a *action.Action) (*action.Receipt, error) {
	resolved, err := ResolveAction(a, rt.chainTag)
	if err != nil {
		return nil, err
	}
	id := a.ID()
	if _, known, err := rt.IsExecuted(id); err != nil {
		return nil, err
	} else if known {
		return nil, ErrKnownAction
	}

	mark := rt.modules.Log.Len()
	receipt := &action.Receipt{ActionID: id, Origin: resolved.Origin, Kind: a.Kind()}
	err = reverts.Isolate(rt.state, rt.modules.Log, func() error {
		return rt.dispatch(resolved.Origin, resolved.Payload)
	})
	if err != nil {
		if !reverts.IsRevertErr(err) {
			return nil, errors.Wrapf(err, "execute %v", a)
		}
		receipt.Reverted = true
		receipt.Error = err.Error()
		logger.Debug("action reverted", "id", id, "kind", a.Kind(), "reason", reverts.Reason(err))
	}
	receipt.Events = rt.modules.Log.Since(mark)

	if err := rt.executed.Set(id, rt.BlockNumber()); err != nil {
		return nil, err
	}
	return receipt, nil
}

// Housekeep runs the per block tick of all modules and returns the events it emitted.
func (rt *Runtime) Housekeep() ([]*events.Event, error) {
	mark := rt.modules.Log.Len()
	if err := rt.modules.Housekeep(); err != nil {
		return nil, err
	}
	return rt.modules.Log.Since(mark), nil
}
