// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rentnet

import (
	"github.com/holiman/uint256"
)

// Billion is the denominator of Perbill.
const Billion = 1_000_000_000

// Perbill is a fixed point ratio in parts per billion, ranging [0, Billion].
type Perbill uint32

// PerbillFromRational returns floor(n/d) as Perbill, saturated at one.
func PerbillFromRational(n, d uint64) Perbill {
	if d == 0 || n >= d {
		return Perbill(Billion)
	}
	v := new(uint256.Int).Mul(uint256.NewInt(n), uint256.NewInt(Billion))
	v.Div(v, uint256.NewInt(d))
	return Perbill(v.Uint64())
}

// PerbillFromPercent returns p percent, saturated at 100.
func PerbillFromPercent(p uint64) Perbill {
	if p >= 100 {
		return Perbill(Billion)
	}
	return Perbill(p * (Billion / 100))
}

// Mul returns floor(amount * p).
func (p Perbill) Mul(amount uint64) uint64 {
	v := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(uint64(p)))
	v.Div(v, uint256.NewInt(Billion))
	return v.Uint64()
}

// MulCeil returns ceil(amount * p).
func (p Perbill) MulCeil(amount uint64) uint64 {
	v := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(uint64(p)))
	v.AddUint64(v, Billion-1)
	v.Div(v, uint256.NewInt(Billion))
	return v.Uint64()
}

// IsOne reports whether the ratio is 100%.
func (p Perbill) IsOne() bool {
	return p >= Billion
}
