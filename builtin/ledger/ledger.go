// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger keeps free and reserved balances of accounts.
package ledger

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/builtin/reverts"
	"github.com/rentnet/rentnet/builtin/storage"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var logger = log.WithContext("pkg", "ledger")

// Treasury receives slashed stake that has no reward recipient.
var Treasury = rentnet.BytesToAddress([]byte("treasury"))

// BalanceStatus selects which balance of the beneficiary receives repatriated funds.
type BalanceStatus uint8

const (
	Free BalanceStatus = iota
	Reserved
)

var (
	ErrInsufficientBalance  = reverts.New("insufficient free balance")
	ErrInsufficientReserved = reverts.New("insufficient reserved balance")
	ErrZeroAmount           = reverts.New("amount must be positive")
	ErrBalanceOverflow      = reverts.New("balance overflow")

	slotAccounts = storage.Slot("ledger-accounts")
	slotIssuance = storage.Slot("ledger-total-issuance")
)

// Adapter is the balance primitive consumed by the settlement engine.
// Every call is all-or-nothing.
type Adapter interface {
	Reserve(who rentnet.Address, amount uint64) error
	Unreserve(who rentnet.Address, amount uint64) error
	// SlashReserved burns up to amount from the reserved balance of who.
	// It returns the slashed amount and the part that could not be covered.
	SlashReserved(who rentnet.Address, amount uint64) (slashed uint64, missing uint64, err error)
	RepatriateReserved(from, to rentnet.Address, amount uint64, status BalanceStatus) error
	ReservedBalance(who rentnet.Address) (uint64, error)
	FreeBalance(who rentnet.Address) (uint64, error)
	TotalIssuance() (uint64, error)
}

var _ Adapter = (*Ledger)(nil)

type account struct {
	Free     uint64
	Reserved uint64
}

// Ledger is the state backed Adapter.
type Ledger struct {
	accounts *storage.Mapping[rentnet.Address, account]
	issuance *storage.Uint64
}

func New(addr rentnet.Address, state *state.State) *Ledger {
	sctx := storage.NewContext(addr, state)
	return &Ledger{
		accounts: storage.NewMapping[rentnet.Address, account](sctx, slotAccounts),
		issuance: storage.NewUint64(sctx, slotIssuance),
	}
}

func (l *Ledger) get(who rentnet.Address) (account, error) {
	acc, err := l.accounts.Get(who)
	if err != nil {
		return account{}, errors.Wrapf(err, "get account %v", who)
	}
	return acc, nil
}

func (l *Ledger) set(who rentnet.Address, acc account) error {
	if acc.Free == 0 && acc.Reserved == 0 {
		l.accounts.Delete(who)
		return nil
	}
	return l.accounts.Set(who, acc)
}

func (l *Ledger) FreeBalance(who rentnet.Address) (uint64, error) {
	acc, err := l.get(who)
	return acc.Free, err
}

func (l *Ledger) ReservedBalance(who rentnet.Address) (uint64, error) {
	acc, err := l.get(who)
	return acc.Reserved, err
}

func (l *Ledger) TotalIssuance() (uint64, error) {
	return l.issuance.Get()
}

// Reserve moves amount from free to reserved balance.
func (l *Ledger) Reserve(who rentnet.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	acc, err := l.get(who)
	if err != nil {
		return err
	}
	if acc.Free < amount {
		return ErrInsufficientBalance
	}
	acc.Free -= amount
	acc.Reserved += amount
	return l.set(who, acc)
}

// Unreserve moves amount from reserved back to free balance.
func (l *Ledger) Unreserve(who rentnet.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	acc, err := l.get(who)
	if err != nil {
		return err
	}
	if acc.Reserved < amount {
		return ErrInsufficientReserved
	}
	acc.Reserved -= amount
	acc.Free += amount
	return l.set(who, acc)
}

// SlashReserved burns from reserved balance, reducing total issuance.
func (l *Ledger) SlashReserved(who rentnet.Address, amount uint64) (uint64, uint64, error) {
	acc, err := l.get(who)
	if err != nil {
		return 0, 0, err
	}
	slashed := min(acc.Reserved, amount)
	acc.Reserved -= slashed
	if err := l.set(who, acc); err != nil {
		return 0, 0, err
	}
	if _, err := l.issuance.Sub(slashed); err != nil {
		return 0, 0, err
	}
	logger.Debug("slashed reserved", "who", who, "slashed", slashed, "missing", amount-slashed)
	return slashed, amount - slashed, nil
}

// RepatriateReserved moves amount of from's reserved balance to to's balance of the given status.
func (l *Ledger) RepatriateReserved(from, to rentnet.Address, amount uint64, status BalanceStatus) error {
	if amount == 0 {
		return nil
	}
	src, err := l.get(from)
	if err != nil {
		return err
	}
	if src.Reserved < amount {
		return ErrInsufficientReserved
	}
	src.Reserved -= amount
	if err := l.set(from, src); err != nil {
		return err
	}

	dst, err := l.get(to)
	if err != nil {
		return err
	}
	var overflow bool
	if status == Reserved {
		dst.Reserved, overflow = math.SafeAdd(dst.Reserved, amount)
	} else {
		dst.Free, overflow = math.SafeAdd(dst.Free, amount)
	}
	if overflow {
		return ErrBalanceOverflow
	}
	return l.set(to, dst)
}

// Transfer moves free balance between accounts.
func (l *Ledger) Transfer(from, to rentnet.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}
	src, err := l.get(from)
	if err != nil {
		return err
	}
	if src.Free < amount {
		return ErrInsufficientBalance
	}
	src.Free -= amount
	if err := l.set(from, src); err != nil {
		return err
	}
	dst, err := l.get(to)
	if err != nil {
		return err
	}
	var overflow bool
	if dst.Free, overflow = math.SafeAdd(dst.Free, amount); overflow {
		return ErrBalanceOverflow
	}
	return l.set(to, dst)
}

// Mint credits new free balance, increasing total issuance.
func (l *Ledger) Mint(to rentnet.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if _, err := l.issuance.Add(amount); err != nil {
		return ErrBalanceOverflow
	}
	acc, err := l.get(to)
	if err != nil {
		return err
	}
	var overflow bool
	if acc.Free, overflow = math.SafeAdd(acc.Free, amount); overflow {
		return ErrBalanceOverflow
	}
	return l.set(to, acc)
}
