// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reports

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/api/tasks"
	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/builtin/maintaincommittee"
	"github.com/rentnet/rentnet/builtin/verification"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/rentnet"
)

// Report is a fault report with its verification task.
type Report struct {
	ID         uint64          `json:"id"`
	Reporter   rentnet.Address `json:"reporter"`
	MachineID  string          `json:"machineID"`
	Fault      string          `json:"fault"`
	Deposit    uint64          `json:"deposit"`
	ReportTime uint32          `json:"reportTime"`
	Status     string          `json:"status"`
	SlashID    uint64          `json:"slashID,omitempty"`
	Task       *tasks.Task     `json:"task"`
}

type Reports struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Reports {
	return &Reports{repo}
}

func (r *Reports) handleList(w http.ResponseWriter, req *http.Request) error {
	name := req.URL.Query().Get("status")
	status, ok := maintaincommittee.ParseStatus(name)
	if !ok {
		return utils.BadRequest(errors.Errorf("status: unknown report status %q", name))
	}
	modules, _ := utils.BestModules(r.repo)
	ids, err := modules.MaintainCommittee.List(status)
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []uint64{}
	}
	return utils.WriteJSON(w, ids)
}

func (r *Reports) handleGetReport(w http.ResponseWriter, req *http.Request) error {
	sid := mux.Vars(req)["id"]
	id, err := strconv.ParseUint(sid, 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	modules, _ := utils.BestModules(r.repo)
	report, err := modules.MaintainCommittee.Report(id)
	if err != nil {
		return err
	}
	if report == nil {
		return utils.WriteJSON(w, nil)
	}
	task, err := tasks.Load(modules.Verification, verification.FaultReport, sid)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Report{
		ID:         report.ID,
		Reporter:   report.Reporter,
		MachineID:  report.MachineID.String(),
		Fault:      string(report.Kind),
		Deposit:    report.Deposit,
		ReportTime: report.ReportTime,
		Status:     report.Status.String(),
		SlashID:    report.SlashID,
		Task:       task,
	})
}

func (r *Reports) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /reports").
		HandlerFunc(utils.WrapHandlerFunc(r.handleList))
	sub.Path("/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /reports/{id}").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetReport))
}
