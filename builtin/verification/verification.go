// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package verification runs the hash-then-reveal protocol committee members
// follow to verify a claim.
//
// A booked member first submits Commitment(kind, id, raw, salt) and, once all
// commitments are in or the hash window is over, reveals raw and salt. The
// task is then resolved by the owning module and finalized here.
package verification

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/consensus"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/itemlist"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/storage"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var logger = log.WithContext("pkg", "verification")

var (
	slotTasks  = storage.Slot("verification-tasks")
	slotOps    = storage.Slot("verification-ops")
	slotOpen   = storage.Slot("verification-open")
	slotStages = storage.Slot("verification-stages")
)

// Reveal is a revealed observation.
type Reveal struct {
	Member rentnet.Address
	Raw    []byte
}

// Verification stores tasks and member progress.
type Verification struct {
	tasks  *storage.Mapping[storage.CompositeKey, *Task]
	ops    *storage.Mapping[storage.CompositeKey, *MemberOp]
	open   *storage.Mapping[storage.Uint64Key, []string]
	stages *storage.Mapping[storage.CompositeKey, *Stages]

	params *params.Params
	events *events.Emitter
}

func New(addr rentnet.Address, state *state.State, params *params.Params, log *events.Log) *Verification {
	sctx := storage.NewContext(addr, state)
	return &Verification{
		tasks:  storage.NewMapping[storage.CompositeKey, *Task](sctx, slotTasks),
		ops:    storage.NewMapping[storage.CompositeKey, *MemberOp](sctx, slotOps),
		open:   storage.NewMapping[storage.Uint64Key, []string](sctx, slotOpen),
		stages: storage.NewMapping[storage.CompositeKey, *Stages](sctx, slotStages),
		params: params,
		events: events.NewEmitter("verification", log),
	}
}

func taskKey(kind Kind, id string) storage.CompositeKey {
	return storage.CompositeKey{storage.Uint64Key(kind), storage.StringKey(id)}
}

func opKey(kind Kind, id string, who rentnet.Address) storage.CompositeKey {
	return storage.CompositeKey{storage.Uint64Key(kind), storage.StringKey(id), who}
}

func stagesKey(who rentnet.Address, kind Kind) storage.CompositeKey {
	return storage.CompositeKey{who, storage.Uint64Key(kind)}
}

//
// Getters - no state change
//

// Task returns the task of a subject, nil if never booked.
func (v *Verification) Task(kind Kind, id string) (*Task, error) {
	t, err := v.tasks.Get(taskKey(kind, id))
	if err != nil {
		return nil, errors.Wrapf(err, "get %v task %s", kind, id)
	}
	return t, nil
}

// Op returns the progress of who on a task, nil if who was not booked.
func (v *Verification) Op(kind Kind, id string, who rentnet.Address) (*MemberOp, error) {
	return v.ops.Get(opKey(kind, id, who))
}

// Ops returns the progress of every member of a task.
func (v *Verification) Ops(kind Kind, id string) (map[rentnet.Address]*MemberOp, error) {
	t, err := v.Task(kind, id)
	if err != nil || t == nil {
		return nil, err
	}
	out := make(map[rentnet.Address]*MemberOp, len(t.Members))
	for _, m := range t.Members {
		op, err := v.Op(kind, id, m)
		if err != nil {
			return nil, err
		}
		out[m] = op
	}
	return out, nil
}

// Open returns the subjects of kind with an open task, sorted.
func (v *Verification) Open(kind Kind) ([]string, error) {
	return v.open.Get(storage.Uint64Key(kind))
}

// Stages returns the subjects of kind who works on, by stage.
func (v *Verification) Stages(who rentnet.Address, kind Kind) (*Stages, error) {
	s, err := v.stages.Get(stagesKey(who, kind))
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = &Stages{}
	}
	return s, nil
}

// Due returns the open tasks of kind that can be resolved at now.
func (v *Verification) Due(kind Kind, now uint32) ([]string, error) {
	open, err := v.Open(kind)
	if err != nil {
		return nil, err
	}
	var due []string
	for _, id := range open {
		t, err := v.Task(kind, id)
		if err != nil {
			return nil, err
		}
		if t == nil {
			panic(fmt.Sprintf("open %v task %s not found", kind, id))
		}
		if t.IsDue(now) {
			due = append(due, id)
		}
	}
	return due, nil
}

// Reveals returns the revealed observations of a task and the members that
// did not reveal.
func (v *Verification) Reveals(kind Kind, id string) ([]Reveal, []rentnet.Address, error) {
	t, err := v.Task(kind, id)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, ErrTaskNotFound
	}
	var (
		reveals []Reveal
		unruly  []rentnet.Address
	)
	for _, m := range t.Members {
		if !itemlist.ContainsFunc(t.Revealed, m) {
			unruly = append(unruly, m)
			continue
		}
		op, err := v.Op(kind, id, m)
		if err != nil {
			return nil, nil, err
		}
		reveals = append(reveals, Reveal{Member: m, Raw: op.Raw})
	}
	return reveals, unruly, nil
}

//
// Mutators
//

// Book opens a task assigning members to verify a subject. A finalized task
// of the same subject is replaced. lock is the stake each member has locked
// for the task.
func (v *Verification) Book(kind Kind, id string, members []rentnet.Address, lock uint64, now uint32) (*Task, error) {
	if len(members) == 0 {
		return nil, ErrEmptyMembers
	}
	old, err := v.Task(kind, id)
	if err != nil {
		return nil, err
	}
	if old != nil && old.Status == TaskOpen {
		return nil, ErrTaskExists
	}
	hashWindow, err := v.params.Get(params.HashWindow)
	if err != nil {
		return nil, err
	}
	rawWindow, err := v.params.Get(params.RawWindow)
	if err != nil {
		return nil, err
	}

	t := &Task{
		Kind:         kind,
		SubjectID:    id,
		StakeLocked:  lock,
		BookTime:     now,
		HashDeadline: now + uint32(hashWindow),
	}
	t.RawDeadline = t.HashDeadline + uint32(rawWindow)
	for _, m := range members {
		t.Members = itemlist.AddFunc(t.Members, m)
	}
	for _, m := range t.Members {
		if err := v.ops.Set(opKey(kind, id, m), &MemberOp{Status: Booked, BookedTime: now}); err != nil {
			return nil, err
		}
		if err := v.updateStages(m, kind, func(s *Stages) {
			s.Booked = itemlist.Add(s.Booked, id)
		}); err != nil {
			return nil, err
		}
	}
	if err := v.tasks.Set(taskKey(kind, id), t); err != nil {
		return nil, err
	}
	if err := v.setOpen(kind, id, true); err != nil {
		return nil, err
	}

	logger.Debug("task booked", "kind", kind, "subject", id, "members", len(t.Members), "hashDeadline", t.HashDeadline)
	for _, m := range t.Members {
		v.events.Emit("booked", id, m, 0, kind.String())
	}
	return t, nil
}

// member loads an open task and the op of who on it.
func (v *Verification) member(kind Kind, id string, who rentnet.Address) (*Task, *MemberOp, error) {
	t, err := v.Task(kind, id)
	if err != nil {
		return nil, nil, err
	}
	if t == nil || t.Status != TaskOpen {
		return nil, nil, ErrTaskNotFound
	}
	if !itemlist.ContainsFunc(t.Members, who) {
		return nil, nil, ErrNotInBookList
	}
	op, err := v.Op(kind, id, who)
	if err != nil {
		return nil, nil, err
	}
	if op == nil {
		panic(fmt.Sprintf("booked member %v has no op on %v %s", who, kind, id))
	}
	return t, op, nil
}

// SubmitHash records the commitment of who.
func (v *Verification) SubmitHash(kind Kind, id string, who rentnet.Address, hash rentnet.Bytes32, now uint32) error {
	t, op, err := v.member(kind, id, who)
	if err != nil {
		return err
	}
	if op.Status != Booked {
		return ErrAlreadySubmitHash
	}
	if now >= t.HashDeadline {
		return ErrTimeNotAllow
	}

	op.Status = HashSubmitted
	op.ConfirmHash = hash
	op.HashTime = now
	if err := v.ops.Set(opKey(kind, id, who), op); err != nil {
		return err
	}
	t.Hashed = itemlist.AddFunc(t.Hashed, who)
	if err := v.tasks.Set(taskKey(kind, id), t); err != nil {
		return err
	}
	if err := v.updateStages(who, kind, func(s *Stages) {
		s.Booked = itemlist.Remove(s.Booked, id)
		s.Hashed = itemlist.Add(s.Hashed, id)
	}); err != nil {
		return err
	}
	v.events.Emit("hash-submitted", id, who, 0, kind.String())
	return nil
}

// SubmitRaw reveals the observation of who. Reveals open once every member
// has committed or the hash window is over.
func (v *Verification) SubmitRaw(kind Kind, id string, who rentnet.Address, raw, salt []byte, now uint32) error {
	t, op, err := v.member(kind, id, who)
	if err != nil {
		return err
	}
	switch op.Status {
	case Booked:
		return ErrNotSubmitHash
	case HashSubmitted:
	default:
		return ErrAlreadySubmitRaw
	}
	if now >= t.RawDeadline {
		return ErrTimeNotAllow
	}
	if len(t.Hashed) < len(t.Members) && now < t.HashDeadline {
		return ErrTimeNotAllow
	}
	if Commitment(kind, id, raw, salt) != op.ConfirmHash {
		return ErrInfoNotMatchHash
	}

	op.Status = RawSubmitted
	op.Raw = raw
	op.ConfirmTime = now
	if err := v.ops.Set(opKey(kind, id, who), op); err != nil {
		return err
	}
	t.Revealed = itemlist.AddFunc(t.Revealed, who)
	if err := v.tasks.Set(taskKey(kind, id), t); err != nil {
		return err
	}
	if err := v.updateStages(who, kind, func(s *Stages) {
		s.Hashed = itemlist.Remove(s.Hashed, id)
		s.Confirmed = itemlist.Add(s.Confirmed, id)
	}); err != nil {
		return err
	}
	v.events.Emit("raw-submitted", id, who, 0, kind.String())
	return nil
}

// Finalize closes a task, assigning every member its terminal status from res:
// majority members get the outcome, other responders are Refused and members
// that never revealed are TimedOut.
func (v *Verification) Finalize(kind Kind, id string, res *consensus.Resolution) error {
	t, err := v.Task(kind, id)
	if err != nil {
		return err
	}
	if t == nil || t.Status != TaskOpen {
		return ErrTaskNotFound
	}

	for _, m := range t.Members {
		op, err := v.Op(kind, id, m)
		if err != nil {
			return err
		}
		var final OpStatus
		switch {
		case itemlist.ContainsFunc(res.Unruly, m):
			final = TimedOut
		case itemlist.ContainsFunc(res.Honest, m) && res.Outcome == consensus.Confirmed:
			final = Confirmed
		default:
			final = Refused
		}
		if op.Status.IsTerminal() {
			panic(fmt.Sprintf("member %v of open %v task %s is already %v", m, kind, id, op.Status))
		}
		op.Status = final
		if err := v.ops.Set(opKey(kind, id, m), op); err != nil {
			return err
		}
		if err := v.updateStages(m, kind, func(s *Stages) {
			s.Booked = itemlist.Remove(s.Booked, id)
			s.Hashed = itemlist.Remove(s.Hashed, id)
			s.Confirmed = itemlist.Remove(s.Confirmed, id)
			if final == Confirmed {
				s.Finished = itemlist.Add(s.Finished, id)
			}
		}); err != nil {
			return err
		}
	}

	t.Status = TaskFinalized
	if err := v.tasks.Set(taskKey(kind, id), t); err != nil {
		return err
	}
	if err := v.setOpen(kind, id, false); err != nil {
		return err
	}
	logger.Debug("task finalized", "kind", kind, "subject", id, "outcome", res.Outcome)
	v.events.Emit("finalized", id, rentnet.Address{}, 0, res.Outcome.String())
	return nil
}

func (v *Verification) setOpen(kind Kind, id string, open bool) error {
	ids, err := v.Open(kind)
	if err != nil {
		return err
	}
	if open {
		ids = itemlist.Add(ids, id)
	} else {
		ids = itemlist.Remove(ids, id)
	}
	return v.open.Set(storage.Uint64Key(kind), ids)
}

func (v *Verification) updateStages(who rentnet.Address, kind Kind, fn func(*Stages)) error {
	s, err := v.Stages(who, kind)
	if err != nil {
		return err
	}
	fn(s)
	return v.stages.Set(stagesKey(who, kind), s)
}
