// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tasks

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/chain"
)

type Tasks struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Tasks {
	return &Tasks{repo}
}

func (t *Tasks) handleGetOpen(w http.ResponseWriter, req *http.Request) error {
	kind, ok := ParseKind(mux.Vars(req)["kind"])
	if !ok {
		return utils.BadRequest(fmt.Errorf("kind: should be machine or report"))
	}
	modules, _ := utils.BestModules(t.repo)
	open, err := modules.Verification.Open(kind)
	if err != nil {
		return err
	}
	if open == nil {
		open = []string{}
	}
	return utils.WriteJSON(w, open)
}

func (t *Tasks) handleGetTask(w http.ResponseWriter, req *http.Request) error {
	vars := mux.Vars(req)
	kind, ok := ParseKind(vars["kind"])
	if !ok {
		return utils.BadRequest(fmt.Errorf("kind: should be machine or report"))
	}
	modules, _ := utils.BestModules(t.repo)
	task, err := Load(modules.Verification, kind, vars["subject"])
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, task)
}

func (t *Tasks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{kind}").
		Methods(http.MethodGet).
		Name("GET /tasks/{kind}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetOpen))
	sub.Path("/{kind}/{subject}").
		Methods(http.MethodGet).
		Name("GET /tasks/{kind}/{subject}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTask))
}
