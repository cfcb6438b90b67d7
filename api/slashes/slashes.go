// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package slashes

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/builtin/slash"
	"github.com/rentnet/rentnet/chain"
)

type Slashes struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Slashes {
	return &Slashes{repo}
}

func (s *Slashes) handleList(w http.ResponseWriter, req *http.Request) error {
	name := req.URL.Query().Get("status")
	if name == "" {
		name = slash.Pending.String()
	}
	result, ok := slash.ParseResult(name)
	if !ok {
		return utils.BadRequest(errors.New("status: should be pending, canceled or executed"))
	}
	modules, _ := utils.BestModules(s.repo)
	list, err := modules.Slash.List(result)
	if err != nil {
		return err
	}
	out := make([]*Slash, 0, len(list))
	for _, ps := range list {
		out = append(out, convertSlash(ps))
	}
	return utils.WriteJSON(w, out)
}

func (s *Slashes) handleGetSlash(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	modules, _ := utils.BestModules(s.repo)
	ps, err := modules.Slash.Get(id)
	if err != nil {
		return err
	}
	if ps == nil {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, convertSlash(ps))
}

func (s *Slashes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /slashes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleList))
	sub.Path("/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /slashes/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSlash))
}
