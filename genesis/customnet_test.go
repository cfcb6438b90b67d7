// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentnet/rentnet/builtin"
	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/genesis"
	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

const customYAML = `
launchTime: 1700000000
extraData: "rentnet test"
council:
  - "0x000000000000000000000000000000000000c001"
params:
  committee-size: 3
  slash-delay: 100
accounts:
  - address: "0x000000000000000000000000000000000000c001"
    balance: 1000000
  - address: "0x00000000000000000000000000000000000000a1"
    balance: 50000
  - address: "0x00000000000000000000000000000000000000b1"
    balance: 50000
committee:
  - address: "0x00000000000000000000000000000000000000a1"
    stake: 25000
    boxPubkey: "0x0102"
machines:
  - id: "gpu-01"
    owner: "0x00000000000000000000000000000000000000b1"
    gpuNum: 2
    price: 1000
`

func writeGenesis(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCustomNet(t *testing.T) {
	gen, err := genesis.LoadCustomGenesis(writeGenesis(t, customYAML))
	require.NoError(t, err)
	assert.Equal(t, uint64(1700000000), gen.LaunchTime)
	require.Len(t, gen.Accounts, 3)
	assert.Equal(t, rentnet.MustParseAddress("0x000000000000000000000000000000000000c001"), gen.Council[0])

	gene, err := genesis.NewCustomNet(gen)
	require.NoError(t, err)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	stater := state.NewStater(db)
	b0, stage, evs, err := gene.Build(stater)
	require.NoError(t, err)
	assert.Equal(t, gene.ID(), b0.Header().ID())
	assert.Equal(t, uint64(1700000000), b0.Header().Timestamp())
	assert.NotEmpty(t, evs)

	require.NoError(t, stage.Commit(stater.Store()))
	mods := builtin.New(stater.NewState(), &builtin.Env{}, &events.Log{})

	assert.Equal(t, uint64(100), mods.Params.MustGet(params.SlashDelay))
	assert.Equal(t, params.Defaults[params.HashWindow], mods.Params.MustGet(params.HashWindow))

	status, err := mods.Committee.StatusOf(rentnet.MustParseAddress("0x00000000000000000000000000000000000000a1"))
	require.NoError(t, err)
	assert.Equal(t, committee.Normal, status)

	m, err := mods.OnlineProfile.Machine("gpu-01")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, onlineprofile.WaitingVerify, m.Status)
	assert.Equal(t, uint64(20_000), m.Stake)
}

func TestCustomNetInvalid(t *testing.T) {
	tests := []struct {
		name string
		gen  genesis.CustomGenesis
	}{
		{"no council", genesis.CustomGenesis{}},
		{"unknown param", genesis.CustomGenesis{
			Council: []rentnet.Address{{1}},
			Params:  map[string]uint64{"gas-limit": 1},
		}},
		{"zero balance", genesis.CustomGenesis{
			Council:  []rentnet.Address{{1}},
			Accounts: []genesis.Account{{Address: rentnet.Address{1}}},
		}},
		{"duplicated account", genesis.CustomGenesis{
			Council:  []rentnet.Address{{1}},
			Accounts: []genesis.Account{{Address: rentnet.Address{1}, Balance: 1}, {Address: rentnet.Address{1}, Balance: 1}},
		}},
		{"bad box pubkey", genesis.CustomGenesis{
			Council:   []rentnet.Address{{1}},
			Committee: []genesis.Member{{Address: rentnet.Address{1}, BoxPubkey: "zz"}},
		}},
		{"stake exceeds balance", genesis.CustomGenesis{
			Council:   []rentnet.Address{{1}},
			Committee: []genesis.Member{{Address: rentnet.Address{2}, Stake: 1, BoxPubkey: "0x01"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := genesis.NewCustomNet(&tt.gen)
			assert.Error(t, err)
		})
	}
}

func TestLoadCustomGenesisErrors(t *testing.T) {
	_, err := genesis.LoadCustomGenesis(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = genesis.LoadCustomGenesis(writeGenesis(t, "council: [\"not-an-address\"]"))
	assert.Error(t, err)
}
