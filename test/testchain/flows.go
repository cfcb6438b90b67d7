// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"fmt"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/builtin/maintaincommittee"
	"github.com/rentnet/rentnet/builtin/onlinecommittee"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/genesis"
	"github.com/rentnet/rentnet/rentnet"
)

// Committee holds the dev account indexes of the devnet committee.
var Committee = []int{1, 2, 3}

// MachinePrice is the per era price used by OnboardMachine.
const MachinePrice = 1_000

func salt(idx int) []byte {
	return genesis.DevAccounts()[idx].Address.Bytes()
}

// OnboardMachine adds a machine owned by the dev account at owner and has the
// whole committee approve info in the next block.
func (c *Chain) OnboardMachine(id rentnet.MachineID, owner int, info onlineprofile.Info) error {
	if _, err := c.MintBlock(c.Sign(&action.AddMachine{MachineID: id, GPUNum: info.GPUNum, Price: MachinePrice}, owner)); err != nil {
		return err
	}
	verdict := &onlinecommittee.Verdict{Support: true, Info: info}
	var hashes, raws []*action.Action
	for _, idx := range Committee {
		hash := onlinecommittee.Commitment(id, verdict, salt(idx))
		hashes = append(hashes, c.Sign(&action.SubmitMachineHash{MachineID: id, Hash: hash}, idx))
		raws = append(raws, c.Sign(&action.SubmitMachineRaw{MachineID: id, Support: true, Info: info, Salt: salt(idx)}, idx))
	}
	if _, err := c.MintBlock(append(hashes, raws...)...); err != nil {
		return err
	}
	m, err := c.Modules().OnlineProfile.Machine(id)
	if err != nil {
		return err
	}
	if m == nil || m.Status != onlineprofile.Online {
		return fmt.Errorf("machine %v not online", id)
	}
	return nil
}

// ReportFault files a fault on id and has the whole committee reveal isFault in
// the next block. It returns the report id.
func (c *Chain) ReportFault(id rentnet.MachineID, reporter int, fault string, isFault bool) (uint64, error) {
	if _, err := c.MintBlock(c.Sign(&action.ReportFault{MachineID: id, Fault: fault}, reporter)); err != nil {
		return 0, err
	}
	ids, err := c.Modules().MaintainCommittee.MachineReports(id)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("machine %v not reported", id)
	}
	reportID := ids[len(ids)-1]

	verdict := &maintaincommittee.Verdict{IsFault: isFault, Detail: fault}
	var hashes, raws []*action.Action
	for _, idx := range Committee {
		hash := maintaincommittee.Commitment(reportID, verdict, salt(idx))
		hashes = append(hashes, c.Sign(&action.SubmitReportHash{ReportID: reportID, Hash: hash}, idx))
		raws = append(raws, c.Sign(&action.SubmitReportRaw{ReportID: reportID, IsFault: isFault, Detail: fault, Salt: salt(idx)}, idx))
	}
	if _, err := c.MintBlock(append(hashes, raws...)...); err != nil {
		return 0, err
	}
	return reportID, nil
}
