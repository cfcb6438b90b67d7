// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rentnet/rentnet/rentnet"
)

var (
	m1 = rentnet.Address{1}
	m2 = rentnet.Address{2}
	m3 = rentnet.Address{3}
	m4 = rentnet.Address{4}
)

func TestMajorityWins(t *testing.T) {
	res := Resolve([]Vote{
		{Member: m1, Support: true, Observation: []byte("A")},
		{Member: m2, Support: true, Observation: []byte("A")},
		{Member: m3, Support: true, Observation: []byte("B")},
	}, nil)

	assert.Equal(t, Confirmed, res.Outcome)
	assert.Equal(t, []byte("A"), res.Majority)
	assert.Equal(t, []rentnet.Address{m1, m2}, res.Honest)
	assert.Equal(t, []rentnet.Address{m3}, res.Inconsistent)
	assert.Empty(t, res.Unruly)
	assert.Equal(t, []rentnet.Address{m3}, res.Punished())
}

func TestTieIsInconclusive(t *testing.T) {
	res := Resolve([]Vote{
		{Member: m1, Support: true, Observation: []byte("A")},
		{Member: m2, Support: true, Observation: []byte("B")},
	}, nil)

	assert.Equal(t, Inconclusive, res.Outcome)
	assert.Nil(t, res.Majority)
	assert.Empty(t, res.Honest)
	assert.Empty(t, res.Punished())
	assert.Equal(t, []rentnet.Address{m1, m2}, res.Undecided)
}

func TestPluralityWithoutMajority(t *testing.T) {
	res := Resolve([]Vote{
		{Member: m1, Observation: []byte("A")},
		{Member: m2, Observation: []byte("A")},
		{Member: m3, Observation: []byte("B")},
		{Member: m4, Observation: []byte("C")},
	}, nil)
	assert.Equal(t, Inconclusive, res.Outcome)
	assert.Len(t, res.Undecided, 4)
}

func TestMajorityRefusal(t *testing.T) {
	res := Resolve([]Vote{
		{Member: m1, Support: false, Observation: []byte("no")},
		{Member: m2, Support: false, Observation: []byte("no")},
		{Member: m3, Support: true, Observation: []byte("A")},
	}, nil)

	assert.Equal(t, Refused, res.Outcome)
	assert.Equal(t, []byte("no"), res.Majority)
	assert.Equal(t, []rentnet.Address{m1, m2}, res.Honest)
	assert.Equal(t, []rentnet.Address{m3}, res.Inconsistent)
}

func TestAllRefusedIsInconclusive(t *testing.T) {
	votes := []Vote{
		{Member: m1, Support: false, Observation: []byte("no")},
		{Member: m2, Support: false, Observation: []byte("no")},
	}
	res := Resolve(votes, []rentnet.Address{m3})

	assert.Equal(t, Inconclusive, res.Outcome)
	assert.Nil(t, res.Majority)
	assert.Empty(t, res.Honest)
	assert.Empty(t, res.Inconsistent)
	assert.Equal(t, []rentnet.Address{m1, m2}, res.Undecided)
	assert.Equal(t, []rentnet.Address{m3}, res.Punished())

	res = ResolveMajority(votes, []rentnet.Address{m3})
	assert.Equal(t, Refused, res.Outcome)
	assert.Equal(t, []rentnet.Address{m1, m2}, res.Honest)
	assert.Equal(t, []rentnet.Address{m3}, res.Unruly)
}

func TestUnrulyOnly(t *testing.T) {
	res := Resolve(nil, []rentnet.Address{m2, m1, m2})
	assert.Equal(t, Inconclusive, res.Outcome)
	assert.Equal(t, []rentnet.Address{m1, m2}, res.Unruly)
	assert.Equal(t, []rentnet.Address{m1, m2}, res.Punished())
}

func TestMajorityCountsRespondersOnly(t *testing.T) {
	res := Resolve([]Vote{
		{Member: m1, Support: true, Observation: []byte("A")},
		{Member: m2, Support: true, Observation: []byte("A")},
	}, []rentnet.Address{m3})

	assert.Equal(t, Confirmed, res.Outcome)
	assert.Equal(t, []rentnet.Address{m1, m2}, res.Honest)
	assert.Equal(t, []rentnet.Address{m3}, res.Unruly)
	assert.Equal(t, "confirmed", res.Outcome.String())
}
