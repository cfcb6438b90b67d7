// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stackedmap_test

import (
	"errors"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/stackedmap"
)

func M(a ...any) []any {
	return a
}

func TestStackedMap(t *testing.T) {
	src := map[string]string{"foo": "bar"}

	sm := stackedmap.New(func(key string) (string, bool, error) {
		v, ok := src[key]
		return v, ok, nil
	})

	tests := []struct {
		f         func()
		depth     int
		putKey    string
		putValue  string
		getKey    string
		getReturn []any
	}{
		{func() {}, 1, "", "", "foo", M("bar", true, nil)},
		{func() { sm.Push() }, 2, "foo", "baz", "foo", M("baz", true, nil)},
		{func() {}, 2, "foo", "baz1", "foo", M("baz1", true, nil)},
		{func() { sm.Push() }, 3, "foo", "qux", "foo", M("qux", true, nil)},
		{func() { sm.Pop() }, 2, "", "", "foo", M("baz1", true, nil)},
		{func() { sm.Pop() }, 1, "", "", "foo", M("bar", true, nil)},

		{func() { sm.Push(); sm.Push() }, 3, "", "", "", nil},
		{func() { sm.PopTo(0) }, 0, "", "", "", nil},
	}

	for _, test := range tests {
		test.f()
		assert.Equal(t, test.depth, sm.Depth())
		if test.putKey != "" {
			sm.Put(test.putKey, test.putValue)
		}
		if test.getKey != "" {
			assert.Equal(t, test.getReturn, M(sm.Get(test.getKey)))
		}
	}
}

func TestStackedMapSourceError(t *testing.T) {
	boom := errors.New("boom")
	sm := stackedmap.New(func(string) (int, bool, error) {
		return 0, false, boom
	})

	_, _, err := sm.Get("a")
	assert.Equal(t, boom, err)

	sm.Put("a", 1)
	v, ok, err := sm.Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestJournalMatchesPuts(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(1, 32)

	for range 20 {
		var puts []stackedmap.JournalEntry[uint8, uint32]
		f.Fuzz(&puts)

		sm := stackedmap.New(func(uint8) (uint32, bool, error) { return 0, false, nil })
		base := sm.Push()
		latest := make(map[uint8]uint32)
		for i, p := range puts {
			if i%3 == 0 {
				sm.Push()
			}
			sm.Put(p.Key, p.Value)
			latest[p.Key] = p.Value
		}

		var journal []stackedmap.JournalEntry[uint8, uint32]
		sm.Journal(func(k uint8, v uint32) bool {
			journal = append(journal, stackedmap.JournalEntry[uint8, uint32]{Key: k, Value: v})
			return true
		})
		assert.Equal(t, puts, journal)

		for k, want := range latest {
			got, ok, err := sm.Get(k)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, want, got)
		}

		sm.PopTo(base)
		for k := range latest {
			_, ok, _ := sm.Get(k)
			assert.False(t, ok)
		}
	}
}
