// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/rentnet"
)

// Account is the balance of an address at the best block.
type Account struct {
	Free            uint64 `json:"free"`
	Reserved        uint64 `json:"reserved"`
	RewardClaimable uint64 `json:"rewardClaimable"`
	RewardClaimed   uint64 `json:"rewardClaimed"`
}

type Accounts struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Accounts {
	return &Accounts{repo}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := rentnet.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	modules, _ := utils.BestModules(a.repo)
	free, err := modules.Ledger.FreeBalance(*addr)
	if err != nil {
		return err
	}
	reserved, err := modules.Ledger.ReservedBalance(*addr)
	if err != nil {
		return err
	}
	reward, err := modules.OnlineProfile.Reward(*addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Account{
		Free:            free,
		Reserved:        reserved,
		RewardClaimable: reward.Claimable,
		RewardClaimed:   reward.Claimed,
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
