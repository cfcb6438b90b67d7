// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package grade weights a machine's compute points by how well its stake covers its price.
package grade

import (
	"github.com/holiman/uint256"
)

// PPM is the fixed point denominator.
const PPM = 1_000_000

var (
	ppm    = uint256.NewInt(PPM)
	ppmSq  = new(uint256.Int).Mul(ppm, ppm)
	ppmCub = new(uint256.Int).Mul(ppmSq, ppm)
)

// Calc returns the calculation grade of a machine.
//
// With ratio = min(price, staked) / max(price, staked) and factor = ratio^4:
//
//	staked >= price: grade = base / (1 + factor)
//	staked <  price: grade = base * factor / (1 + factor)
//
// Both branches give base/2 when staked == price. Ratios are floored to
// parts per million and the result is rounded to nearest, ties down.
func Calc(price, staked, base uint64) uint64 {
	if base == 0 {
		return 0
	}
	if price == 0 {
		return base
	}
	if staked == 0 {
		return 0
	}

	over := staked >= price
	num, den := price, staked
	if !over {
		num, den = staked, price
	}

	// ratio in ppm, <= PPM
	ratio := new(uint256.Int).Mul(uint256.NewInt(num), ppm)
	ratio.Div(ratio, uint256.NewInt(den))

	// factor = ratio^4 / PPM^3, in ppm
	factor := new(uint256.Int).Mul(ratio, ratio)
	factor.Mul(factor, factor)
	factor.Div(factor, ppmCub)

	b := uint256.NewInt(base)
	divisor := new(uint256.Int).Add(ppm, factor)
	dividend := new(uint256.Int)
	if over {
		dividend.Mul(b, ppm)
	} else {
		dividend.Mul(b, factor)
	}
	return divRoundHalfDown(dividend, divisor)
}

func divRoundHalfDown(n, d *uint256.Int) uint64 {
	q, r := new(uint256.Int).DivMod(n, d, new(uint256.Int))
	r.Lsh(r, 1)
	if r.Gt(d) {
		q.AddUint64(q, 1)
	}
	return q.Uint64()
}
