// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package params

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/builtin/params"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/rentnet"
)

// Params lists protocol parameters in effect and the council.
type Params struct {
	Values      map[string]uint64 `json:"values"`
	Council     []rentnet.Address `json:"council"`
	TotalIssued uint64            `json:"totalIssuance"`
}

type API struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *API {
	return &API{repo}
}

func (p *API) handleGetParams(w http.ResponseWriter, _ *http.Request) error {
	modules, _ := utils.BestModules(p.repo)
	out := &Params{Values: make(map[string]uint64, len(params.Defaults))}
	for _, key := range params.Keys() {
		v, err := modules.Params.Get(key)
		if err != nil {
			return err
		}
		out.Values[string(key)] = v
	}
	council, err := modules.Params.Council()
	if err != nil {
		return err
	}
	if council == nil {
		council = []rentnet.Address{}
	}
	out.Council = council
	if out.TotalIssued, err = modules.Ledger.TotalIssuance(); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /params").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetParams))
}
