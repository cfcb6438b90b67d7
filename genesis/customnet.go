// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/rentnet/rentnet/builtin"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/rentnet"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	LaunchTime uint64            `yaml:"launchTime"`
	ExtraData  string            `yaml:"extraData"`
	Council    []rentnet.Address `yaml:"council"`
	Params     map[string]uint64 `yaml:"params"`
	Accounts   []Account         `yaml:"accounts"`
	Committee  []Member          `yaml:"committee"`
	Machines   []Machine         `yaml:"machines"`
}

// Account is the account will be funded in the genesis block
type Account struct {
	Address rentnet.Address `yaml:"address"`
	Balance uint64          `yaml:"balance"`
}

// Member is an initial committee member. Its stake is reserved from its balance.
type Member struct {
	Address   rentnet.Address `yaml:"address"`
	Stake     uint64          `yaml:"stake"`
	BoxPubkey string          `yaml:"boxPubkey"`
}

// Machine is bonded in the genesis block and queued for verification.
type Machine struct {
	ID     rentnet.MachineID `yaml:"id"`
	Owner  rentnet.Address   `yaml:"owner"`
	GPUNum uint32            `yaml:"gpuNum"`
	Price  uint64            `yaml:"price"`
}

// LoadCustomGenesis reads a yaml genesis file.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var gen CustomGenesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &gen, nil
}

func (gen *CustomGenesis) validate() error {
	if len(gen.Council) == 0 {
		return errors.New("council must not be empty")
	}
	if len(gen.ExtraData) > 28 {
		return errors.New("extraData must not exceed 28 bytes")
	}
	for k := range gen.Params {
		if _, ok := params.Defaults[params.Key(k)]; !ok {
			return fmt.Errorf("unknown param %q", k)
		}
	}
	seen := make(map[rentnet.Address]bool)
	for _, a := range gen.Accounts {
		if seen[a.Address] {
			return fmt.Errorf("%v: duplicated account", a.Address)
		}
		seen[a.Address] = true
		if a.Balance == 0 {
			return fmt.Errorf("%v: balance must be a non-zero integer", a.Address)
		}
	}
	for _, m := range gen.Committee {
		if _, err := hexutil.Decode(m.BoxPubkey); err != nil {
			return fmt.Errorf("%v: invalid box pubkey: %w", m.Address, err)
		}
	}
	for _, m := range gen.Machines {
		if _, err := rentnet.ParseMachineID(string(m.ID)); err != nil {
			return fmt.Errorf("machine %q: %w", m.ID, err)
		}
	}
	return nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if err := gen.validate(); err != nil {
		return nil, err
	}
	var extra [28]byte
	copy(extra[:], gen.ExtraData)

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		ExtraData(extra).
		State(func(m *builtin.Modules) error {
			for _, k := range params.Keys() {
				v, ok := gen.Params[string(k)]
				if !ok {
					v = params.Defaults[k]
				}
				if err := m.Params.Set(k, v); err != nil {
					return err
				}
			}
			if err := m.Params.SetCouncil(gen.Council); err != nil {
				return err
			}
			for _, a := range gen.Accounts {
				if err := m.Ledger.Mint(a.Address, a.Balance); err != nil {
					return errors.Wrapf(err, "fund %v", a.Address)
				}
			}
			for _, c := range gen.Committee {
				key := hexutil.MustDecode(c.BoxPubkey)
				if err := addCommittee(m, gen.Council[0], c.Address, c.Stake, key); err != nil {
					return errors.Wrapf(err, "committee %v", c.Address)
				}
			}
			for _, mc := range gen.Machines {
				if err := m.OnlineProfile.AddMachine(mc.Owner, mc.ID, mc.GPUNum, mc.Price, 0); err != nil {
					return errors.Wrapf(err, "machine %v", mc.ID)
				}
			}
			return nil
		})

	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, "customnet"}, nil
}
