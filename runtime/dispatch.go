// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/builtin/maintaincommittee"
	"github.com/rentnet/rentnet/builtin/onlinecommittee"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/rentnet"
)

// dispatch routes a payload to the module handling it.
func (rt *Runtime) dispatch(origin rentnet.Address, payload action.Payload) error {
	m := rt.modules
	now := m.Env.Number

	switch p := payload.(type) {
	case *action.Transfer:
		return m.Ledger.Transfer(origin, p.To, p.Amount)
	case *action.SetParam:
		return m.Params.SetByCouncil(origin, params.Key(p.Key), p.Value)
	case *action.SetCouncil:
		if err := m.Params.RequireCouncil(origin); err != nil {
			return err
		}
		return m.Params.SetCouncil(p.Members)

	case *action.AddCommittee:
		return m.Committee.Add(origin, p.Member)
	case *action.KickCommittee:
		return m.Committee.Kick(origin, p.Member)
	case *action.SetBoxPubkey:
		return m.Committee.SetBoxPubkey(origin, p.Pubkey)
	case *action.Chill:
		return m.Committee.Chill(origin)
	case *action.UndoChill:
		return m.Committee.UndoChill(origin)
	case *action.ExitCommittee:
		return m.Committee.Exit(origin)
	case *action.AddStake:
		return m.Committee.AddStake(origin, p.Amount)
	case *action.ReduceStake:
		return m.Committee.ReduceStake(origin, p.Amount)
	case *action.ClaimCommitteeReward:
		_, err := m.Committee.ClaimReward(origin, m.Ledger)
		return err

	case *action.AddMachine:
		return m.OnlineProfile.AddMachine(origin, p.MachineID, p.GPUNum, p.Price, now)
	case *action.ResubmitMachine:
		return m.OnlineProfile.Resubmit(origin, p.MachineID)
	case *action.ExitMachine:
		return m.OnlineProfile.ExitMachine(origin, p.MachineID)
	case *action.ClaimMachineReward:
		_, err := m.OnlineProfile.ClaimRewards(origin, m.Ledger)
		return err
	case *action.SubmitMachineHash:
		return m.OnlineCommittee.SubmitConfirmHash(origin, p.MachineID, p.Hash, now)
	case *action.SubmitMachineRaw:
		v := &onlinecommittee.Verdict{Support: p.Support, Info: p.Info}
		return m.OnlineCommittee.SubmitConfirmRaw(origin, p.MachineID, v, p.Salt, now)

	case *action.ReportFault:
		_, err := m.MaintainCommittee.ReportFault(origin, p.MachineID, maintaincommittee.FaultKind(p.Fault), now)
		return err
	case *action.SubmitReportHash:
		return m.MaintainCommittee.SubmitConfirmHash(origin, p.ReportID, p.Hash, now)
	case *action.SubmitReportRaw:
		v := &maintaincommittee.Verdict{IsFault: p.IsFault, Detail: p.Detail}
		return m.MaintainCommittee.SubmitConfirmRaw(origin, p.ReportID, v, p.Salt, now)

	case *action.ApplySlashReview:
		return m.Slash.ApplyReview(p.SlashID, origin, p.Reason, now)
	case *action.CancelSlash:
		return m.Slash.Cancel(origin, p.SlashID)
	case *action.RejectSlashReview:
		return m.Slash.RejectReview(origin, p.SlashID)

	case *action.Rent:
		_, err := m.RentMachine.Rent(origin, p.MachineID, p.GPUNum, p.Duration, now)
		return err
	case *action.ConfirmRent:
		return m.RentMachine.ConfirmRent(origin, p.OrderID, now)
	case *action.TerminateRent:
		return m.RentMachine.TerminateRent(origin, p.OrderID)
	}
	panic(fmt.Sprintf("unhandled payload %T", payload))
}
