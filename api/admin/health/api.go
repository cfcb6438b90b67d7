// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/chain"
)

type API struct {
	health *health
}

// New tracks the best block of repo until ctx is done.
func New(ctx context.Context, repo *chain.Repository, blockInterval time.Duration) *API {
	h := newHealth(repo, blockInterval)
	go h.run(ctx)
	return &API{health: h}
}

// PackingStatus is reported by the packer loop when it starts or stops.
func (a *API) PackingStatus(packing bool) {
	a.health.PackingStatus(packing)
}

func (a *API) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	status := a.health.status()
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/health").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetHealth))
}
