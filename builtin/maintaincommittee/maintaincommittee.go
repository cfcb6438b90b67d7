// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package maintaincommittee handles fault reports on serving machines.
package maintaincommittee

import (
	"strconv"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/consensus"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/itemlist"
	"github.com/rentnet/rentnet/builtin/ledger"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/builtin/slash"
	"github.com/rentnet/rentnet/builtin/storage"
	"github.com/rentnet/rentnet/builtin/verification"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var logger = log.WithContext("pkg", "maintaincommittee")

const kind = verification.FaultReport

var (
	slotReports   = storage.Slot("maintain-reports")
	slotByStatus  = storage.Slot("maintain-by-status")
	slotByMachine = storage.Slot("maintain-by-machine")
	slotNextID    = storage.Slot("maintain-next-id")
)

// Commitment returns the hash a member submits before revealing v.
func Commitment(reportID uint64, v *Verdict, salt []byte) rentnet.Bytes32 {
	return verification.Commitment(kind, subject(reportID), v.Encode(), salt)
}

func subject(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// MaintainCommittee keeps fault reports and drives their verification.
type MaintainCommittee struct {
	state     *state.State
	log       *events.Log
	reports   *storage.Mapping[storage.Uint64Key, *Report]
	byStatus  *storage.Mapping[storage.Uint64Key, []uint64]
	byMachine *storage.Mapping[rentnet.MachineID, []uint64]
	nextID    *storage.Uint64

	params       *params.Params
	ledger       ledger.Adapter
	registry     verification.Registry
	random       verification.Chooser
	verification *verification.Verification
	profile      *onlineprofile.OnlineProfile
	slash        *slash.Slash
	events       *events.Emitter
}

func New(
	addr rentnet.Address,
	state *state.State,
	log *events.Log,
	params *params.Params,
	ledger ledger.Adapter,
	registry verification.Registry,
	random verification.Chooser,
	verification *verification.Verification,
	profile *onlineprofile.OnlineProfile,
	slash *slash.Slash,
) *MaintainCommittee {
	sctx := storage.NewContext(addr, state)
	return &MaintainCommittee{
		state:        state,
		log:          log,
		reports:      storage.NewMapping[storage.Uint64Key, *Report](sctx, slotReports),
		byStatus:     storage.NewMapping[storage.Uint64Key, []uint64](sctx, slotByStatus),
		byMachine:    storage.NewMapping[rentnet.MachineID, []uint64](sctx, slotByMachine),
		nextID:       storage.NewUint64(sctx, slotNextID),
		params:       params,
		ledger:       ledger,
		registry:     registry,
		random:       random,
		verification: verification,
		profile:      profile,
		slash:        slash,
		events:       events.NewEmitter("maintaincommittee", log),
	}
}

//
// Getters - no state change
//

// Report returns the report of id, nil if not found.
func (mc *MaintainCommittee) Report(id uint64) (*Report, error) {
	r, err := mc.reports.Get(storage.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrapf(err, "get report %d", id)
	}
	return r, nil
}

// List returns ids of reports with status.
func (mc *MaintainCommittee) List(status Status) ([]uint64, error) {
	return mc.byStatus.Get(storage.Uint64Key(status))
}

// MachineReports returns ids of all reports on a machine.
func (mc *MaintainCommittee) MachineReports(id rentnet.MachineID) ([]uint64, error) {
	return mc.byMachine.Get(id)
}

func (mc *MaintainCommittee) mustReport(id uint64) (*Report, error) {
	r, err := mc.Report(id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrReportNotFound
	}
	return r, nil
}

//
// Actions
//

// ReportFault files a fault report on a serving machine, reserving the report deposit.
func (mc *MaintainCommittee) ReportFault(reporter rentnet.Address, machineID rentnet.MachineID, fault FaultKind, now uint32) (uint64, error) {
	if fault == "" {
		return 0, ErrEmptyFaultKind
	}
	m, err := mc.profile.Machine(machineID)
	if err != nil {
		return 0, err
	}
	if m == nil || !m.Status.IsServing() {
		return 0, ErrMachineNotServed
	}
	ids, err := mc.MachineReports(machineID)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		r, err := mc.mustReport(id)
		if err != nil {
			return 0, err
		}
		if r.Status == WaitingVerify || r.Status == Verifying {
			return 0, ErrAlreadyReported
		}
	}

	deposit, err := mc.params.Get(params.ReportDeposit)
	if err != nil {
		return 0, err
	}
	if err := mc.ledger.Reserve(reporter, deposit); err != nil {
		return 0, err
	}
	id, err := mc.nextID.Add(1)
	if err != nil {
		return 0, err
	}
	r := &Report{
		ID:         id,
		Reporter:   reporter,
		MachineID:  machineID,
		Kind:       fault,
		Deposit:    deposit,
		ReportTime: now,
	}
	if err := mc.byMachine.Set(machineID, itemlist.Add(ids, id)); err != nil {
		return 0, err
	}
	if err := mc.setStatus(r, WaitingVerify); err != nil {
		return 0, err
	}
	logger.Debug("fault reported", "report", id, "machine", machineID, "kind", fault)
	mc.events.Emit("reported", subject(id), reporter, deposit, machineID.String())
	return id, nil
}

// SubmitConfirmHash records the commitment of a booked member.
func (mc *MaintainCommittee) SubmitConfirmHash(who rentnet.Address, reportID uint64, hash rentnet.Bytes32, now uint32) error {
	return mc.verification.SubmitHash(kind, subject(reportID), who, hash, now)
}

// SubmitConfirmRaw reveals the verdict of a member.
func (mc *MaintainCommittee) SubmitConfirmRaw(who rentnet.Address, reportID uint64, v *Verdict, salt []byte, now uint32) error {
	return mc.verification.SubmitRaw(kind, subject(reportID), who, v.Encode(), salt, now)
}

//
// Housekeeping
//

// Housekeep books committees for waiting reports, then resolves due tasks.
func (mc *MaintainCommittee) Housekeep(now uint32) error {
	waiting, err := mc.List(WaitingVerify)
	if err != nil {
		return err
	}
	for _, id := range waiting {
		var booked bool
		err := reverts.Isolate(mc.state, mc.log, func() (err error) {
			booked, err = mc.book(id, now)
			return
		})
		if err != nil {
			if !reverts.IsRevertErr(err) {
				return err
			}
			logger.Warn("book report reverted", "report", id, "err", err)
			continue
		}
		if !booked {
			logger.Debug("not enough committee to verify reports", "waiting", len(waiting))
			break
		}
	}

	due, err := mc.verification.Due(kind, now)
	if err != nil {
		return err
	}
	for _, sid := range due {
		id, err := strconv.ParseUint(sid, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "report subject %q", sid)
		}
		err = reverts.Isolate(mc.state, mc.log, func() error { return mc.resolve(id, now) })
		if err != nil {
			if !reverts.IsRevertErr(err) {
				return err
			}
			logger.Warn("resolve report reverted", "report", id, "err", err)
		}
	}
	return nil
}

func (mc *MaintainCommittee) book(id uint64, now uint32) (bool, error) {
	r, err := mc.mustReport(id)
	if err != nil {
		return false, err
	}
	members, lock, err := verification.Assign(mc.params, mc.registry, mc.random)
	if err != nil || members == nil {
		return false, err
	}
	if _, err := mc.verification.Book(kind, subject(id), members, lock, now); err != nil {
		return false, err
	}
	return true, mc.setStatus(r, Verifying)
}

func (mc *MaintainCommittee) resolve(id uint64, now uint32) error {
	r, err := mc.mustReport(id)
	if err != nil {
		return err
	}
	task, err := mc.verification.Task(kind, subject(id))
	if err != nil {
		return err
	}
	reveals, unruly, err := mc.verification.Reveals(kind, subject(id))
	if err != nil {
		return err
	}
	var votes []consensus.Vote
	for _, rv := range reveals {
		var v Verdict
		if err := rlp.DecodeBytes(rv.Raw, &v); err != nil {
			unruly = append(unruly, rv.Member)
			continue
		}
		votes = append(votes, consensus.Vote{Member: rv.Member, Support: v.IsFault, Observation: v.Encode()})
	}
	res := consensus.ResolveMajority(votes, unruly)

	if err := mc.verification.Finalize(kind, subject(id), res); err != nil {
		return err
	}
	reward, err := mc.params.Get(params.VerifyReward)
	if err != nil {
		return err
	}
	if err := verification.Settle(mc.registry, mc.slash, task, res, reward, now); err != nil {
		return errors.Wrap(err, "settle committee")
	}

	switch res.Outcome {
	case consensus.Confirmed:
		err = mc.confirmFault(r, res.Honest, now)
	case consensus.Refused:
		err = mc.rejectReport(r, res.Honest, now)
	default:
		if err = mc.ledger.Unreserve(r.Reporter, r.Deposit); err == nil {
			err = mc.setStatus(r, Inconclusive)
		}
	}
	if err != nil {
		return err
	}
	logger.Debug("report verified", "report", id, "machine", r.MachineID, "outcome", res.Outcome)
	return nil
}

// confirmFault takes the machine offline, returns the deposit and slashes the
// owner in favour of the reporter and the honest members.
func (mc *MaintainCommittee) confirmFault(r *Report, honest []rentnet.Address, now uint32) error {
	m, err := mc.profile.Machine(r.MachineID)
	if err != nil {
		return err
	}
	if m.Status.IsServing() {
		if err := mc.profile.MarkFault(r.MachineID); err != nil {
			return err
		}
	}
	if err := mc.ledger.Unreserve(r.Reporter, r.Deposit); err != nil {
		return err
	}
	percent, err := mc.params.Get(params.FaultSlashPercent)
	if err != nil {
		return err
	}
	if amount := rentnet.PerbillFromPercent(percent).Mul(m.Stake); amount > 0 {
		reporter := r.Reporter
		rewardTo := append([]rentnet.Address{reporter}, honest...)
		r.SlashID, err = mc.slash.Create(&slash.PendingSlash{
			Target:      slash.TargetMachineStake,
			Reason:      "machine-fault",
			MachineID:   r.MachineID,
			Subject:     subject(r.ID),
			SlashWho:    []rentnet.Address{m.Owner},
			SlashAmount: amount,
			Reporter:    &reporter,
			RewardTo:    rewardTo,
		}, now)
		if err != nil {
			return err
		}
	}
	return mc.setStatus(r, FaultConfirmed)
}

// rejectReport slashes the report deposit in favour of the honest members.
func (mc *MaintainCommittee) rejectReport(r *Report, honest []rentnet.Address, now uint32) error {
	reporter := r.Reporter
	id, err := mc.slash.Create(&slash.PendingSlash{
		Target:      slash.TargetReportDeposit,
		Reason:      "false-report",
		MachineID:   r.MachineID,
		Subject:     subject(r.ID),
		SlashWho:    []rentnet.Address{reporter},
		SlashAmount: r.Deposit,
		Reporter:    &reporter,
		RewardTo:    honest,
	}, now)
	if err != nil {
		return err
	}
	r.SlashID = id
	return mc.setStatus(r, FaultRejected)
}

func (mc *MaintainCommittee) setStatus(r *Report, to Status) error {
	if r.Status != 0 {
		ids, err := mc.List(r.Status)
		if err != nil {
			return err
		}
		if err := mc.byStatus.Set(storage.Uint64Key(r.Status), itemlist.Remove(ids, r.ID)); err != nil {
			return err
		}
	}
	ids, err := mc.List(to)
	if err != nil {
		return err
	}
	if err := mc.byStatus.Set(storage.Uint64Key(to), itemlist.Add(ids, r.ID)); err != nil {
		return err
	}
	r.Status = to
	if err := mc.reports.Set(storage.Uint64Key(r.ID), r); err != nil {
		return err
	}
	mc.events.Emit("status", subject(r.ID), r.Reporter, 0, to.String())
	return nil
}

// DepositSettler settles slashes of report deposits.
type DepositSettler struct {
	ledger ledger.Adapter
}

var _ slash.Settler = (*DepositSettler)(nil)

// DepositSettler returns the settler of slash.TargetReportDeposit.
func (mc *MaintainCommittee) DepositSettler() *DepositSettler {
	return &DepositSettler{mc.ledger}
}

func (d *DepositSettler) Settle(ps *slash.PendingSlash) error {
	for _, who := range ps.SlashWho {
		if err := committee.Distribute(d.ledger, who, ps.SlashAmount, ps.RewardTo); err != nil {
			return err
		}
	}
	return nil
}

// Release refunds the deposit.
func (d *DepositSettler) Release(ps *slash.PendingSlash) error {
	for _, who := range ps.SlashWho {
		if err := d.ledger.Unreserve(who, ps.SlashAmount); err != nil {
			return err
		}
	}
	return nil
}
