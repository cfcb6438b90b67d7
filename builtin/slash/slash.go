// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package slash holds slashes in a review window before they move stake.
package slash

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/itemlist"
	"github.com/rentnet/rentnet/builtin/ledger"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/builtin/storage"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/metrics"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var (
	logger = log.WithContext("pkg", "slash")

	metricSlashes = metrics.LazyLoadCounterVec("slash_count", []string{"target", "result"})

	slotSlashes = storage.Slot("slash-slashes")
	slotByState = storage.Slot("slash-by-result")
	slotNextID  = storage.Slot("slash-next-id")
)

// Settler moves the stake of a target kind when a slash settles.
type Settler interface {
	// Settle takes the slashed amount from every slashed party.
	Settle(s *PendingSlash) error
	// Release frees whatever the slash kept locked, without taking anything.
	Release(s *PendingSlash) error
}

// Slash keeps pending and settled slashes.
type Slash struct {
	state    *state.State
	log      *events.Log
	slashes  *storage.Mapping[storage.Uint64Key, *PendingSlash]
	byResult *storage.Mapping[storage.Uint64Key, []uint64]
	nextID   *storage.Uint64

	params   *params.Params
	ledger   ledger.Adapter
	settlers map[Target]Settler
	events   *events.Emitter
}

// New creates the slash module. Committee slashes settle through mgr; other
// targets need a Settler registered with Handle.
func New(addr rentnet.Address, state *state.State, params *params.Params, ledger ledger.Adapter, mgr committee.Manager, log *events.Log) *Slash {
	sctx := storage.NewContext(addr, state)
	s := &Slash{
		state:    state,
		log:      log,
		slashes:  storage.NewMapping[storage.Uint64Key, *PendingSlash](sctx, slotSlashes),
		byResult: storage.NewMapping[storage.Uint64Key, []uint64](sctx, slotByState),
		nextID:   storage.NewUint64(sctx, slotNextID),
		params:   params,
		ledger:   ledger,
		settlers: make(map[Target]Settler),
		events:   events.NewEmitter("slash", log),
	}
	s.settlers[TargetCommittee] = &committeeSettler{mgr}
	return s
}

// Handle registers the settler of target.
func (s *Slash) Handle(target Target, settler Settler) {
	s.settlers[target] = settler
}

//
// Getters - no state change
//

// Get returns the slash of id, nil if not found.
func (s *Slash) Get(id uint64) (*PendingSlash, error) {
	ps, err := s.slashes.Get(storage.Uint64Key(id))
	if err != nil {
		return nil, errors.Wrapf(err, "get slash %d", id)
	}
	return ps, nil
}

// IDs returns ids of slashes with result, in ascending order.
func (s *Slash) IDs(result Result) ([]uint64, error) {
	return s.byResult.Get(storage.Uint64Key(result))
}

// List returns slashes with result, in ascending id order.
func (s *Slash) List(result Result) ([]*PendingSlash, error) {
	ids, err := s.IDs(result)
	if err != nil {
		return nil, err
	}
	out := make([]*PendingSlash, 0, len(ids))
	for _, id := range ids {
		ps, err := s.mustGet(id)
		if err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, nil
}

func (s *Slash) mustGet(id uint64) (*PendingSlash, error) {
	ps, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		panic(fmt.Sprintf("indexed slash %d not found", id))
	}
	return ps, nil
}

//
// Mutators
//

// Create records a pending slash, executable SlashDelay blocks after now.
// ID, SlashTime, ExecTime and Result of ps are assigned here.
func (s *Slash) Create(ps *PendingSlash, now uint32) (uint64, error) {
	if _, ok := s.settlers[ps.Target]; !ok {
		return 0, ErrUnknownTarget
	}
	delay, err := s.params.Get(params.SlashDelay)
	if err != nil {
		return 0, err
	}
	id, err := s.nextID.Add(1)
	if err != nil {
		return 0, err
	}
	ps.ID = id
	ps.SlashTime = now
	ps.ExecTime = now + uint32(delay)
	ps.Result = Pending
	ps.Review = nil
	if err := s.slashes.Set(storage.Uint64Key(id), ps); err != nil {
		return 0, err
	}
	if err := s.index(id, Pending, true); err != nil {
		return 0, err
	}

	logger.Debug("slash created", "id", id, "target", ps.Target, "reason", ps.Reason, "who", len(ps.SlashWho), "amount", ps.SlashAmount)
	for _, who := range ps.SlashWho {
		s.events.Emit("pending", fmt.Sprint(id), who, ps.SlashAmount, ps.Reason)
	}
	return id, nil
}

// ApplyReview appeals a pending slash on behalf of a slashed party, reserving
// the review deposit.
func (s *Slash) ApplyReview(id uint64, applicant rentnet.Address, reason string, now uint32) error {
	ps, err := s.pending(id)
	if err != nil {
		return err
	}
	if !ps.IsSlashed(applicant) {
		return ErrNotSlashed
	}
	if now >= ps.ExecTime {
		return ErrTimeNotAllow
	}
	if ps.Review != nil {
		return ErrReviewExists
	}
	deposit, err := s.params.Get(params.ReviewDeposit)
	if err != nil {
		return err
	}
	window, err := s.params.Get(params.ReviewWindow)
	if err != nil {
		return err
	}
	if err := s.ledger.Reserve(applicant, deposit); err != nil {
		return err
	}
	ps.Review = &Review{
		Applicant: applicant,
		Reason:    reason,
		ApplyTime: now,
		Deadline:  now + uint32(window),
		Deposit:   deposit,
		Status:    ReviewOpen,
	}
	if err := s.slashes.Set(storage.Uint64Key(id), ps); err != nil {
		return err
	}
	s.events.Emit("review-applied", fmt.Sprint(id), applicant, deposit, reason)
	return nil
}

// Cancel drops a pending slash, releasing what it locked and refunding the
// review deposit. Council only.
func (s *Slash) Cancel(caller rentnet.Address, id uint64) error {
	if err := s.params.RequireCouncil(caller); err != nil {
		return err
	}
	ps, err := s.pending(id)
	if err != nil {
		return err
	}
	if err := s.settlers[ps.Target].Release(ps); err != nil {
		return errors.Wrapf(err, "release slash %d", id)
	}
	if ps.HasOpenReview() {
		if err := s.ledger.Unreserve(ps.Review.Applicant, ps.Review.Deposit); err != nil {
			return err
		}
		ps.Review.Status = ReviewAccepted
	}
	return s.settle(ps, Canceled)
}

// RejectReview sends the review deposit to the treasury. The slash stays
// pending. Council only.
func (s *Slash) RejectReview(caller rentnet.Address, id uint64) error {
	if err := s.params.RequireCouncil(caller); err != nil {
		return err
	}
	ps, err := s.pending(id)
	if err != nil {
		return err
	}
	if err := s.rejectReview(ps); err != nil {
		return err
	}
	return s.slashes.Set(storage.Uint64Key(id), ps)
}

func (s *Slash) rejectReview(ps *PendingSlash) error {
	if !ps.HasOpenReview() {
		return ErrNoReview
	}
	r := ps.Review
	if err := s.ledger.RepatriateReserved(r.Applicant, ledger.Treasury, r.Deposit, ledger.Free); err != nil {
		return err
	}
	r.Status = ReviewRejected
	s.events.Emit("review-rejected", fmt.Sprint(ps.ID), r.Applicant, r.Deposit, "")
	return nil
}

// Execute settles a pending slash. Executing a canceled or executed slash is a no-op.
func (s *Slash) Execute(id uint64) error {
	ps, err := s.Get(id)
	if err != nil {
		return err
	}
	if ps == nil {
		return ErrSlashNotFound
	}
	if ps.Result != Pending {
		return nil
	}
	if ps.HasOpenReview() {
		if err := s.rejectReview(ps); err != nil {
			return err
		}
	}
	if err := s.settlers[ps.Target].Settle(ps); err != nil {
		return errors.Wrapf(err, "settle slash %d", id)
	}
	return s.settle(ps, Executed)
}

// Housekeep executes due slashes. A slash under review waits for the end of
// the review window; the review is then rejected and the slash executed.
// A slash failing with a revert is skipped and retried on the next call.
func (s *Slash) Housekeep(now uint32) (int, error) {
	ids, err := s.IDs(Pending)
	if err != nil {
		return 0, err
	}
	executed := 0
	for _, id := range ids {
		ps, err := s.mustGet(id)
		if err != nil {
			return executed, err
		}
		if now < ps.ExecTime || (ps.HasOpenReview() && now < ps.Review.Deadline) {
			continue
		}
		err = reverts.Isolate(s.state, s.log, func() error { return s.Execute(id) })
		if err != nil {
			if !reverts.IsRevertErr(err) {
				return executed, err
			}
			logger.Warn("slash execution reverted", "id", id, "err", err)
			continue
		}
		executed++
	}
	if executed > 0 {
		logger.Info("executed slashes", "count", executed, "pending", len(ids)-executed)
	}
	return executed, nil
}

func (s *Slash) pending(id uint64) (*PendingSlash, error) {
	ps, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, ErrSlashNotFound
	}
	if ps.Result != Pending {
		return nil, ErrSlashNotPending
	}
	return ps, nil
}

func (s *Slash) settle(ps *PendingSlash, result Result) error {
	ps.Result = result
	if err := s.slashes.Set(storage.Uint64Key(ps.ID), ps); err != nil {
		return err
	}
	if err := s.index(ps.ID, Pending, false); err != nil {
		return err
	}
	if err := s.index(ps.ID, result, true); err != nil {
		return err
	}
	metricSlashes().AddWithLabel(1, map[string]string{"target": ps.Target.String(), "result": result.String()})
	logger.Debug("slash settled", "id", ps.ID, "result", result)
	for _, who := range ps.SlashWho {
		s.events.Emit(result.String(), fmt.Sprint(ps.ID), who, ps.SlashAmount, ps.Reason)
	}
	return nil
}

func (s *Slash) index(id uint64, result Result, add bool) error {
	ids, err := s.IDs(result)
	if err != nil {
		return err
	}
	if add {
		ids = itemlist.Add(ids, id)
	} else {
		ids = itemlist.Remove(ids, id)
	}
	return s.byResult.Set(storage.Uint64Key(result), ids)
}

// committeeSettler settles slashes of committee stake.
type committeeSettler struct {
	mgr committee.Manager
}

func (c *committeeSettler) Settle(s *PendingSlash) error {
	if err := c.Release(s); err != nil {
		return err
	}
	return c.mgr.SlashAndReward(s.SlashWho, s.SlashAmount, s.RewardTo)
}

func (c *committeeSettler) Release(s *PendingSlash) error {
	if s.UnlockStake == 0 {
		return nil
	}
	for _, who := range s.SlashWho {
		if err := c.mgr.ChangeUsedStake(who, s.UnlockStake, false); err != nil {
			return err
		}
	}
	return nil
}
