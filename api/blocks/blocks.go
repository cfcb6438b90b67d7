// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/rentnet"
)

type Blocks struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Blocks {
	return &Blocks{repo}
}

func (b *Blocks) handleGetBlock(w http.ResponseWriter, req *http.Request) error {
	revision, err := utils.ParseRevision(mux.Vars(req)["revision"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "revision"))
	}
	expanded, err := utils.StringToBoolean(req.URL.Query().Get("expanded"), false)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "expanded"))
	}

	blk, err := utils.GetBlock(revision, b.repo)
	if err != nil {
		if b.repo.IsNotFound(err) {
			return utils.WriteJSON(w, nil)
		}
		return err
	}

	summary := buildJSONBlockSummary(blk)
	if expanded {
		receipts, err := b.repo.GetReceipts(blk.Header().ID())
		if err != nil {
			return err
		}
		return utils.WriteJSON(w, &JSONExpandedBlock{
			summary,
			buildJSONEmbeddedActions(blk.Actions(), receipts),
		})
	}

	ids := make([]rentnet.Bytes32, 0, len(blk.Actions()))
	for _, a := range blk.Actions() {
		ids = append(ids, a.ID())
	}
	return utils.WriteJSON(w, &JSONCollapsedBlock{summary, ids})
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/{revision}").
		Methods(http.MethodGet).
		Name("GET /blocks/{revision}").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBlock))
}
