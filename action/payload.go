// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package action

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/rentnet"
)

// Kind identifies the payload of an action.
type Kind uint8

const (
	KindTransfer Kind = iota + 1
	KindSetParam
	KindSetCouncil

	KindAddCommittee
	KindKickCommittee
	KindSetBoxPubkey
	KindChill
	KindUndoChill
	KindExitCommittee
	KindAddStake
	KindReduceStake
	KindClaimCommitteeReward

	KindAddMachine
	KindResubmitMachine
	KindExitMachine
	KindClaimMachineReward
	KindSubmitMachineHash
	KindSubmitMachineRaw

	KindReportFault
	KindSubmitReportHash
	KindSubmitReportRaw

	KindApplySlashReview
	KindCancelSlash
	KindRejectSlashReview

	KindRent
	KindConfirmRent
	KindTerminateRent

	kindEnd
)

var kindNames = map[Kind]string{
	KindTransfer:             "transfer",
	KindSetParam:             "set-param",
	KindSetCouncil:           "set-council",
	KindAddCommittee:         "add-committee",
	KindKickCommittee:        "kick-committee",
	KindSetBoxPubkey:         "set-box-pubkey",
	KindChill:                "chill",
	KindUndoChill:            "undo-chill",
	KindExitCommittee:        "exit-committee",
	KindAddStake:             "add-stake",
	KindReduceStake:          "reduce-stake",
	KindClaimCommitteeReward: "claim-committee-reward",
	KindAddMachine:           "add-machine",
	KindResubmitMachine:      "resubmit-machine",
	KindExitMachine:          "exit-machine",
	KindClaimMachineReward:   "claim-machine-reward",
	KindSubmitMachineHash:    "submit-machine-hash",
	KindSubmitMachineRaw:     "submit-machine-raw",
	KindReportFault:          "report-fault",
	KindSubmitReportHash:     "submit-report-hash",
	KindSubmitReportRaw:      "submit-report-raw",
	KindApplySlashReview:     "apply-slash-review",
	KindCancelSlash:          "cancel-slash",
	KindRejectSlashReview:    "reject-slash-review",
	KindRent:                 "rent",
	KindConfirmRent:          "confirm-rent",
	KindTerminateRent:        "terminate-rent",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Payload is the typed content of an action.
type Payload interface {
	Kind() Kind
}

type (
	Transfer struct {
		To     rentnet.Address
		Amount uint64
	}
	SetParam struct {
		Key   string
		Value uint64
	}
	SetCouncil struct {
		Members []rentnet.Address
	}

	AddCommittee struct {
		Member rentnet.Address
	}
	KickCommittee struct {
		Member rentnet.Address
	}
	SetBoxPubkey struct {
		Pubkey []byte
	}
	Chill                struct{}
	UndoChill            struct{}
	ExitCommittee        struct{}
	AddStake             struct{ Amount uint64 }
	ReduceStake          struct{ Amount uint64 }
	ClaimCommitteeReward struct{}

	AddMachine struct {
		MachineID rentnet.MachineID
		GPUNum    uint32
		Price     uint64 // per era
	}
	ResubmitMachine    struct{ MachineID rentnet.MachineID }
	ExitMachine        struct{ MachineID rentnet.MachineID }
	ClaimMachineReward struct{}
	SubmitMachineHash  struct {
		MachineID rentnet.MachineID
		Hash      rentnet.Bytes32
	}
	SubmitMachineRaw struct {
		MachineID rentnet.MachineID
		Support   bool
		Info      onlineprofile.Info
		Salt      []byte
	}

	ReportFault struct {
		MachineID rentnet.MachineID
		Fault     string
	}
	SubmitReportHash struct {
		ReportID uint64
		Hash     rentnet.Bytes32
	}
	SubmitReportRaw struct {
		ReportID uint64
		IsFault  bool
		Detail   string
		Salt     []byte
	}

	ApplySlashReview struct {
		SlashID uint64
		Reason  string
	}
	CancelSlash       struct{ SlashID uint64 }
	RejectSlashReview struct{ SlashID uint64 }

	Rent struct {
		MachineID rentnet.MachineID
		GPUNum    uint32
		Duration  uint32 // blocks
	}
	ConfirmRent   struct{ OrderID uint64 }
	TerminateRent struct{ OrderID uint64 }
)

func (Transfer) Kind() Kind             { return KindTransfer }
func (SetParam) Kind() Kind             { return KindSetParam }
func (SetCouncil) Kind() Kind           { return KindSetCouncil }
func (AddCommittee) Kind() Kind         { return KindAddCommittee }
func (KickCommittee) Kind() Kind        { return KindKickCommittee }
func (SetBoxPubkey) Kind() Kind         { return KindSetBoxPubkey }
func (Chill) Kind() Kind                { return KindChill }
func (UndoChill) Kind() Kind            { return KindUndoChill }
func (ExitCommittee) Kind() Kind        { return KindExitCommittee }
func (AddStake) Kind() Kind             { return KindAddStake }
func (ReduceStake) Kind() Kind          { return KindReduceStake }
func (ClaimCommitteeReward) Kind() Kind { return KindClaimCommitteeReward }
func (AddMachine) Kind() Kind           { return KindAddMachine }
func (ResubmitMachine) Kind() Kind      { return KindResubmitMachine }
func (ExitMachine) Kind() Kind          { return KindExitMachine }
func (ClaimMachineReward) Kind() Kind   { return KindClaimMachineReward }
func (SubmitMachineHash) Kind() Kind    { return KindSubmitMachineHash }
func (SubmitMachineRaw) Kind() Kind     { return KindSubmitMachineRaw }
func (ReportFault) Kind() Kind          { return KindReportFault }
func (SubmitReportHash) Kind() Kind     { return KindSubmitReportHash }
func (SubmitReportRaw) Kind() Kind      { return KindSubmitReportRaw }
func (ApplySlashReview) Kind() Kind     { return KindApplySlashReview }
func (CancelSlash) Kind() Kind          { return KindCancelSlash }
func (RejectSlashReview) Kind() Kind    { return KindRejectSlashReview }
func (Rent) Kind() Kind                 { return KindRent }
func (ConfirmRent) Kind() Kind          { return KindConfirmRent }
func (TerminateRent) Kind() Kind        { return KindTerminateRent }

var payloadFactory = map[Kind]func() Payload{
	KindTransfer:             func() Payload { return &Transfer{} },
	KindSetParam:             func() Payload { return &SetParam{} },
	KindSetCouncil:           func() Payload { return &SetCouncil{} },
	KindAddCommittee:         func() Payload { return &AddCommittee{} },
	KindKickCommittee:        func() Payload { return &KickCommittee{} },
	KindSetBoxPubkey:         func() Payload { return &SetBoxPubkey{} },
	KindChill:                func() Payload { return &Chill{} },
	KindUndoChill:            func() Payload { return &UndoChill{} },
	KindExitCommittee:        func() Payload { return &ExitCommittee{} },
	KindAddStake:             func() Payload { return &AddStake{} },
	KindReduceStake:          func() Payload { return &ReduceStake{} },
	KindClaimCommitteeReward: func() Payload { return &ClaimCommitteeReward{} },
	KindAddMachine:           func() Payload { return &AddMachine{} },
	KindResubmitMachine:      func() Payload { return &ResubmitMachine{} },
	KindExitMachine:          func() Payload { return &ExitMachine{} },
	KindClaimMachineReward:   func() Payload { return &ClaimMachineReward{} },
	KindSubmitMachineHash:    func() Payload { return &SubmitMachineHash{} },
	KindSubmitMachineRaw:     func() Payload { return &SubmitMachineRaw{} },
	KindReportFault:          func() Payload { return &ReportFault{} },
	KindSubmitReportHash:     func() Payload { return &SubmitReportHash{} },
	KindSubmitReportRaw:      func() Payload { return &SubmitReportRaw{} },
	KindApplySlashReview:     func() Payload { return &ApplySlashReview{} },
	KindCancelSlash:          func() Payload { return &CancelSlash{} },
	KindRejectSlashReview:    func() Payload { return &RejectSlashReview{} },
	KindRent:                 func() Payload { return &Rent{} },
	KindConfirmRent:          func() Payload { return &ConfirmRent{} },
	KindTerminateRent:        func() Payload { return &TerminateRent{} },
}

// DecodePayload decodes the payload of kind. The result is a pointer to one
// of the payload structs.
func DecodePayload(kind Kind, data []byte) (Payload, error) {
	newPayload, ok := payloadFactory[kind]
	if !ok {
		return nil, fmt.Errorf("unknown action kind %d", uint8(kind))
	}
	p := newPayload()
	if err := rlp.DecodeBytes(data, p); err != nil {
		return nil, err
	}
	return p, nil
}
