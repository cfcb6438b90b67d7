// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package machines

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/api/tasks"
	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/builtin/onlineprofile"
	"github.com/rentnet/rentnet/builtin/verification"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/rentnet"
)

type Machines struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Machines {
	return &Machines{repo}
}

func (m *Machines) handleList(w http.ResponseWriter, req *http.Request) error {
	modules, _ := utils.BestModules(m.repo)

	var (
		ids []rentnet.MachineID
		err error
	)
	query := req.URL.Query()
	if owner := query.Get("owner"); owner != "" {
		addr, perr := rentnet.ParseAddress(owner)
		if perr != nil {
			return utils.BadRequest(errors.WithMessage(perr, "owner"))
		}
		ids, err = modules.OnlineProfile.OwnerMachines(*addr)
	} else {
		name := query.Get("status")
		if name == "" {
			return utils.BadRequest(errors.New("status or owner required"))
		}
		status, ok := onlineprofile.ParseStatus(name)
		if !ok {
			return utils.BadRequest(errors.Errorf("status: unknown machine status %q", name))
		}
		ids, err = modules.OnlineProfile.List(status)
	}
	if err != nil {
		return err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return utils.WriteJSON(w, out)
}

func (m *Machines) handleGetMachine(w http.ResponseWriter, req *http.Request) error {
	id, err := rentnet.ParseMachineID(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	modules, _ := utils.BestModules(m.repo)
	machine, err := modules.OnlineProfile.Machine(id)
	if err != nil {
		return err
	}
	if machine == nil {
		return utils.WriteJSON(w, nil)
	}
	gpuOrder, err := modules.RentMachine.MachineOrders(id)
	if err != nil {
		return err
	}
	reports, err := modules.MaintainCommittee.MachineReports(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertMachine(machine, gpuOrder, reports))
}

// handleGetCommittee returns the online verification task of the machine
// with every assigned member's progress.
func (m *Machines) handleGetCommittee(w http.ResponseWriter, req *http.Request) error {
	id, err := rentnet.ParseMachineID(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	modules, _ := utils.BestModules(m.repo)
	task, err := tasks.Load(modules.Verification, verification.MachineOnline, id.String())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, task)
}

func (m *Machines) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /machines").
		HandlerFunc(utils.WrapHandlerFunc(m.handleList))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /machines/{id}").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetMachine))
	sub.Path("/{id}/committee").
		Methods(http.MethodGet).
		Name("GET /machines/{id}/committee").
		HandlerFunc(utils.WrapHandlerFunc(m.handleGetCommittee))
}
