// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/itemlist"
	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/builtin/storage"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

// Key names a protocol parameter.
type Key string

func (k Key) Bytes() []byte { return []byte(k) }

// Protocol parameters. Durations are in blocks, amounts in base units.
const (
	CommitteeSize          Key = "committee-size"
	MinCommittee           Key = "min-committee"
	StakePerOrder          Key = "stake-per-order"
	CommitteeStakeBaseline Key = "committee-stake-baseline"
	HashWindow             Key = "hash-window"
	RawWindow              Key = "raw-window"
	SlashDelay             Key = "slash-delay"
	ReviewDeposit          Key = "review-deposit"
	ReviewWindow           Key = "review-window"
	VerifyReward           Key = "verify-reward"
	StakePerGPU            Key = "stake-per-gpu"
	RefuseSlashPercent     Key = "refuse-slash-percent"
	FaultSlashPercent      Key = "fault-slash-percent"
	ReportDeposit          Key = "report-deposit"
	EraMachineReward       Key = "era-machine-reward"
	CommitteeRewardShare   Key = "committee-reward-share" // perbill
	RentConfirmWindow      Key = "rent-confirm-window"
)

// Defaults of all known parameters.
var Defaults = map[Key]uint64{
	CommitteeSize:          3,
	MinCommittee:           3,
	StakePerOrder:          1_000,
	CommitteeStakeBaseline: 20_000,
	HashWindow:             360,
	RawWindow:              120,
	SlashDelay:             2880,
	ReviewDeposit:          1_000,
	ReviewWindow:           1440,
	VerifyReward:           100,
	StakePerGPU:            10_000,
	RefuseSlashPercent:     5,
	FaultSlashPercent:      10,
	ReportDeposit:          1_000,
	EraMachineReward:       1_000_000,
	CommitteeRewardShare:   10_000_000,
	RentConfirmWindow:      90,
}

var (
	ErrUnknownParam = reverts.New("unknown param")
	ErrNotCouncil   = reverts.New("not council")

	slotValues  = storage.Slot("params-values")
	slotCouncil = storage.Slot("params-council")
)

type value struct {
	V uint64
}

// Params holds protocol parameters and the council in state.
type Params struct {
	values  *storage.Mapping[Key, *value]
	council *storage.Value[[]rentnet.Address]
}

func New(addr rentnet.Address, state *state.State) *Params {
	sctx := storage.NewContext(addr, state)
	return &Params{
		values:  storage.NewMapping[Key, *value](sctx, slotValues),
		council: storage.NewValue[[]rentnet.Address](sctx, slotCouncil),
	}
}

// Keys returns all known parameter keys, sorted.
func Keys() []Key {
	keys := make([]Key, 0, len(Defaults))
	for k := range Defaults {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Get returns the value of key, or its default when never set.
func (p *Params) Get(key Key) (uint64, error) {
	def, ok := Defaults[key]
	if !ok {
		return 0, ErrUnknownParam
	}
	v, err := p.values.Get(key)
	if err != nil {
		return 0, errors.Wrapf(err, "get param %s", key)
	}
	if v == nil {
		return def, nil
	}
	return v.V, nil
}

// MustGet panics on failure. Only for callers that already hold a valid state.
func (p *Params) MustGet(key Key) uint64 {
	v, err := p.Get(key)
	if err != nil {
		panic(err)
	}
	return v
}

// Set overrides key.
func (p *Params) Set(key Key, v uint64) error {
	if _, ok := Defaults[key]; !ok {
		return ErrUnknownParam
	}
	return p.values.Set(key, &value{v})
}

// SetByCouncil overrides key on behalf of a council member.
func (p *Params) SetByCouncil(caller rentnet.Address, key Key, v uint64) error {
	if err := p.RequireCouncil(caller); err != nil {
		return err
	}
	return p.Set(key, v)
}

// Council returns the sorted council list.
func (p *Params) Council() ([]rentnet.Address, error) {
	return p.council.Get()
}

// SetCouncil replaces the council.
func (p *Params) SetCouncil(members []rentnet.Address) error {
	var sorted []rentnet.Address
	for _, m := range members {
		sorted = itemlist.AddFunc(sorted, m)
	}
	return p.council.Set(sorted)
}

// RequireCouncil fails with ErrNotCouncil unless caller is a council member.
func (p *Params) RequireCouncil(caller rentnet.Address) error {
	council, err := p.council.Get()
	if err != nil {
		return err
	}
	if !itemlist.ContainsFunc(council, caller) {
		return ErrNotCouncil
	}
	return nil
}
