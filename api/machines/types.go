// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package machines

import (
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/builtin/rentmachine"
	"github.com/rentnet/rentnet/rentnet"
)

type Info struct {
	GPUType   string `json:"gpuType"`
	GPUNum    uint32 `json:"gpuNum"`
	GPUMemGB  uint64 `json:"gpuMemGB"`
	CPUCores  uint32 `json:"cpuCores"`
	MemoryGB  uint64 `json:"memoryGB"`
	DiskGB    uint64 `json:"diskGB"`
	CalcPoint uint64 `json:"calcPoint"`
}

// Machine is the profile of a bonded machine.
type Machine struct {
	ID          string            `json:"id"`
	Owner       rentnet.Address   `json:"owner"`
	GPUNum      uint32            `json:"gpuNum"`
	Price       uint64            `json:"price"`
	Stake       uint64            `json:"stake"`
	Status      string            `json:"status"`
	Info        *Info             `json:"info"`
	BondTime    uint32            `json:"bondTime"`
	OnlineTime  uint32            `json:"onlineTime"`
	Grade       uint64            `json:"grade"`
	Committees  []rentnet.Address `json:"committees"`
	TotalReward uint64            `json:"totalReward"`
	UsedGPU     []uint32          `json:"usedGPU"`
	Orders      []uint64          `json:"orders"`
	Reports     []uint64          `json:"reports"`
}

func convertMachine(m *onlineprofile.Machine, gpuOrder *rentmachine.MachineGPUOrder, reports []uint64) *Machine {
	out := &Machine{
		ID:          m.ID.String(),
		Owner:       m.Owner,
		GPUNum:      m.GPUNum,
		Price:       m.Price,
		Stake:       m.Stake,
		Status:      m.Status.String(),
		BondTime:    m.BondTime,
		OnlineTime:  m.OnlineTime,
		Grade:       m.Grade,
		Committees:  m.Committees,
		TotalReward: m.TotalReward,
		UsedGPU:     []uint32{},
		Orders:      []uint64{},
		Reports:     reports,
	}
	if out.Committees == nil {
		out.Committees = []rentnet.Address{}
	}
	if out.Reports == nil {
		out.Reports = []uint64{}
	}
	if m.Info != nil {
		out.Info = &Info{
			GPUType:   m.Info.GPUType,
			GPUNum:    m.Info.GPUNum,
			GPUMemGB:  m.Info.GPUMemGB,
			CPUCores:  m.Info.CPUCores,
			MemoryGB:  m.Info.MemoryGB,
			DiskGB:    m.Info.DiskGB,
			CalcPoint: m.Info.CalcPoint,
		}
	}
	if gpuOrder != nil {
		if gpuOrder.UsedGPU != nil {
			out.UsedGPU = gpuOrder.UsedGPU
		}
		if gpuOrder.RentOrder != nil {
			out.Orders = gpuOrder.RentOrder
		}
	}
	return out
}
