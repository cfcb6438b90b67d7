// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package onlinecommittee brings bonded machines online through committee verification.
package onlinecommittee

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/consensus"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/builtin/slash"
	"github.com/rentnet/rentnet/builtin/verification"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/metrics"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var (
	logger = log.WithContext("pkg", "onlinecommittee")

	metricBooked   = metrics.LazyLoadCounterVec("verification_booked_count", []string{"kind"})
	metricResolved = metrics.LazyLoadCounterVec("verification_resolved_count", []string{"kind", "outcome"})
)

const kind = verification.MachineOnline

// Verdict is what a committee member reveals about a machine.
type Verdict struct {
	Support bool
	Info    onlineprofile.Info
}

// Encode returns the normalized encoding committed to. Refusals carry no info,
// so all refusals are equal.
func (v *Verdict) Encode() []byte {
	n := *v
	if !n.Support {
		n.Info = onlineprofile.Info{}
	}
	data, err := rlp.EncodeToBytes(&n)
	if err != nil {
		panic(err)
	}
	return data
}

// Commitment returns the hash a member submits before revealing v.
func Commitment(id rentnet.MachineID, v *Verdict, salt []byte) rentnet.Bytes32 {
	return verification.Commitment(kind, id.String(), v.Encode(), salt)
}

// OnlineCommittee drives machine onboarding.
type OnlineCommittee struct {
	state        *state.State
	log          *events.Log
	params       *params.Params
	registry     verification.Registry
	random       verification.Chooser
	verification *verification.Verification
	profile      *onlineprofile.OnlineProfile
	slash        *slash.Slash
}

func New(
	state *state.State,
	log *events.Log,
	params *params.Params,
	registry verification.Registry,
	random verification.Chooser,
	verification *verification.Verification,
	profile *onlineprofile.OnlineProfile,
	slash *slash.Slash,
) *OnlineCommittee {
	return &OnlineCommittee{
		state:        state,
		log:          log,
		params:       params,
		registry:     registry,
		random:       random,
		verification: verification,
		profile:      profile,
		slash:        slash,
	}
}

// SubmitConfirmHash records the commitment of a booked member.
func (o *OnlineCommittee) SubmitConfirmHash(who rentnet.Address, id rentnet.MachineID, hash rentnet.Bytes32, now uint32) error {
	return o.verification.SubmitHash(kind, id.String(), who, hash, now)
}

// SubmitConfirmRaw reveals the verdict of a member.
func (o *OnlineCommittee) SubmitConfirmRaw(who rentnet.Address, id rentnet.MachineID, v *Verdict, salt []byte, now uint32) error {
	return o.verification.SubmitRaw(kind, id.String(), who, v.Encode(), salt, now)
}

// Housekeep books committees for queued machines, then resolves due tasks.
// Machines and tasks failing with a revert are skipped and retried later.
func (o *OnlineCommittee) Housekeep(now uint32) error {
	queued, err := o.profile.List(onlineprofile.WaitingVerify)
	if err != nil {
		return err
	}
	for _, id := range queued {
		var booked bool
		err := reverts.Isolate(o.state, o.log, func() (err error) {
			booked, err = o.book(id, now)
			return
		})
		if err != nil {
			if !reverts.IsRevertErr(err) {
				return err
			}
			logger.Warn("book machine reverted", "machine", id, "err", err)
			continue
		}
		if !booked {
			logger.Debug("not enough committee to verify machines", "waiting", len(queued))
			break
		}
	}

	due, err := o.verification.Due(kind, now)
	if err != nil {
		return err
	}
	for _, id := range due {
		err := reverts.Isolate(o.state, o.log, func() error {
			return o.resolve(rentnet.MachineID(id), now)
		})
		if err != nil {
			if !reverts.IsRevertErr(err) {
				return err
			}
			logger.Warn("resolve machine reverted", "machine", id, "err", err)
		}
	}
	return nil
}

func (o *OnlineCommittee) book(id rentnet.MachineID, now uint32) (bool, error) {
	members, lock, err := verification.Assign(o.params, o.registry, o.random)
	if err != nil || members == nil {
		return false, err
	}
	if err := o.profile.StartVerify(id); err != nil {
		return false, err
	}
	if _, err := o.verification.Book(kind, id.String(), members, lock, now); err != nil {
		return false, err
	}
	metricBooked().AddWithLabel(1, map[string]string{"kind": kind.String()})
	return true, nil
}

// votes decodes the reveals of a task. An undecodable reveal counts as no reveal.
func votes(reveals []verification.Reveal, unruly []rentnet.Address) ([]consensus.Vote, map[string]*Verdict, []rentnet.Address) {
	var (
		out      []consensus.Vote
		verdicts = make(map[string]*Verdict)
	)
	for _, r := range reveals {
		var v Verdict
		if err := rlp.DecodeBytes(r.Raw, &v); err != nil {
			unruly = append(unruly, r.Member)
			continue
		}
		obs := v.Encode()
		verdicts[string(obs)] = &v
		out = append(out, consensus.Vote{Member: r.Member, Support: v.Support, Observation: obs})
	}
	return out, verdicts, unruly
}

func (o *OnlineCommittee) resolve(id rentnet.MachineID, now uint32) error {
	task, err := o.verification.Task(kind, id.String())
	if err != nil {
		return err
	}
	reveals, unruly, err := o.verification.Reveals(kind, id.String())
	if err != nil {
		return err
	}
	vs, verdicts, unruly := votes(reveals, unruly)
	res := consensus.Resolve(vs, unruly)

	if err := o.verification.Finalize(kind, id.String(), res); err != nil {
		return err
	}
	reward, err := o.params.Get(params.VerifyReward)
	if err != nil {
		return err
	}
	if err := verification.Settle(o.registry, o.slash, task, res, reward, now); err != nil {
		return errors.Wrap(err, "settle committee")
	}

	switch res.Outcome {
	case consensus.Confirmed:
		info := verdicts[string(res.Majority)].Info
		err := o.profile.ConfirmOnline(id, &info, res.Honest, now)
		if err == nil {
			break
		}
		if !errors.Is(err, onlineprofile.ErrGPUNumMismatch) {
			return err
		}
		// the committee found fewer or more gpus than the owner bonded
		logger.Debug("verified gpu number mismatch", "machine", id, "verified", info.GPUNum)
		fallthrough
	case consensus.Refused:
		if err := o.profile.Refuse(id); err != nil {
			return err
		}
		if err := o.slashOwner(id, res.Honest, now); err != nil {
			return err
		}
	default:
		if err := o.profile.Refuse(id); err != nil {
			return err
		}
	}
	metricResolved().AddWithLabel(1, map[string]string{"kind": kind.String(), "outcome": res.Outcome.String()})
	logger.Debug("machine verified", "machine", id, "outcome", res.Outcome,
		"honest", len(res.Honest), "inconsistent", len(res.Inconsistent), "unruly", len(res.Unruly))
	return nil
}

// slashOwner records a pending slash of RefuseSlashPercent of the machine stake.
func (o *OnlineCommittee) slashOwner(id rentnet.MachineID, rewardTo []rentnet.Address, now uint32) error {
	m, err := o.profile.Machine(id)
	if err != nil {
		return err
	}
	percent, err := o.params.Get(params.RefuseSlashPercent)
	if err != nil {
		return err
	}
	amount := rentnet.PerbillFromPercent(percent).Mul(m.Stake)
	if amount == 0 {
		return nil
	}
	_, err = o.slash.Create(&slash.PendingSlash{
		Target:      slash.TargetMachineStake,
		Reason:      "machine-refused",
		MachineID:   id,
		Subject:     id.String(),
		SlashWho:    []rentnet.Address{m.Owner},
		SlashAmount: amount,
		RewardTo:    rewardTo,
	}, now)
	return err
}
