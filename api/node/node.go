// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rentnet/rentnet/actionpool"
	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/chain"
)

type Node struct {
	repo *chain.Repository
	pool *actionpool.ActionPool
	info Info
}

func New(repo *chain.Repository, pool *actionpool.ActionPool, info Info) *Node {
	return &Node{
		repo,
		pool,
		info,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	best := n.repo.BestBlock()
	return utils.WriteJSON(w, &Status{
		Info:      n.info,
		GenesisID: n.repo.GenesisBlock().Header().ID(),
		ChainTag:  n.repo.ChainTag(),
		Best: BestBlock{
			ID:        best.ID(),
			Number:    best.Number(),
			Timestamp: best.Timestamp(),
		},
		PendingSize: n.pool.Len(),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("GET /node/info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
