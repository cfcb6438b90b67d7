// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin binds the engine modules to their accounts and to a block.
package builtin

import (
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/ledger"
	"github.com/rentnet/rentnet/builtin/maintaincommittee"
	"github.com/rentnet/rentnet/builtin/onlinecommittee"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/random"
	"github.com/rentnet/rentnet/builtin/rentmachine"
	"github.com/rentnet/rentnet/builtin/slash"
	"github.com/rentnet/rentnet/builtin/verification"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/state"
)

var logger = log.WithContext("pkg", "builtin")

// Builtin modules.
var (
	Params            = newModule("Params")
	Ledger            = newModule("Ledger")
	Committee         = newModule("Committee")
	Random            = newModule("Random")
	Verification      = newModule("Verification")
	Slash             = newModule("Slash")
	OnlineProfile     = newModule("OnlineProfile")
	MaintainCommittee = newModule("MaintainCommittee")
	RentMachine       = newModule("RentMachine")
)

// Modules are all engine modules bound to one state and block.
type Modules struct {
	Env               *Env
	Log               *events.Log
	Params            *params.Params
	Ledger            *ledger.Ledger
	Committee         *committee.Committee
	Random            *random.Random
	Verification      *verification.Verification
	Slash             *slash.Slash
	OnlineProfile     *onlineprofile.OnlineProfile
	OnlineCommittee   *onlinecommittee.OnlineCommittee
	MaintainCommittee *maintaincommittee.MaintainCommittee
	RentMachine       *rentmachine.RentMachine
}

// New binds the modules to st. Events of all modules are appended to log.
func New(st *state.State, env *Env, log *events.Log) *Modules {
	m := &Modules{Env: env, Log: log}
	m.Params = params.New(Params.Address, st)
	m.Ledger = ledger.New(Ledger.Address, st)
	m.Committee = committee.New(Committee.Address, st, m.Params, m.Ledger, log)
	m.Random = random.New(Random.Address, st, env)
	m.Verification = verification.New(Verification.Address, st, m.Params, log)
	m.Slash = slash.New(Slash.Address, st, m.Params, m.Ledger, m.Committee, log)
	m.OnlineProfile = onlineprofile.New(OnlineProfile.Address, st, m.Params, m.Ledger, m.Committee, log)
	m.OnlineCommittee = onlinecommittee.New(st, log, m.Params, m.Committee, m.Random, m.Verification, m.OnlineProfile, m.Slash)
	m.MaintainCommittee = maintaincommittee.New(MaintainCommittee.Address, st, log, m.Params, m.Ledger,
		m.Committee, m.Random, m.Verification, m.OnlineProfile, m.Slash)
	m.RentMachine = rentmachine.New(RentMachine.Address, st, log, m.Params, m.Ledger, m.OnlineProfile)

	m.Slash.Handle(slash.TargetMachineStake, m.OnlineProfile.StakeSettler())
	m.Slash.Handle(slash.TargetReportDeposit, m.MaintainCommittee.DepositSettler())
	return m
}

// Housekeep runs the per block tick: rent expiry, committee assignment and
// task resolution, due slashes, then era rewards.
func (m *Modules) Housekeep() error {
	now := m.Env.Number
	if err := m.RentMachine.Housekeep(now); err != nil {
		return errors.Wrap(err, "rent")
	}
	if err := m.OnlineCommittee.Housekeep(now); err != nil {
		return errors.Wrap(err, "online committee")
	}
	if err := m.MaintainCommittee.Housekeep(now); err != nil {
		return errors.Wrap(err, "maintain committee")
	}
	executed, err := m.Slash.Housekeep(now)
	if err != nil {
		return errors.Wrap(err, "slash")
	}
	paid, err := m.OnlineProfile.Housekeep(now)
	if err != nil {
		return errors.Wrap(err, "era reward")
	}
	if executed > 0 || paid > 0 {
		logger.Info("housekeeping done", "block", now, "slashes", executed, "era-reward", paid)
	}
	return nil
}
