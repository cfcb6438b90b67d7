// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package orders

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/builtin/rentmachine"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/rentnet"
)

// Order is a rent order.
type Order struct {
	ID              uint64          `json:"id"`
	Renter          rentnet.Address `json:"renter"`
	MachineID       string          `json:"machineID"`
	GPUIndex        []uint32        `json:"gpuIndex"`
	Duration        uint32          `json:"duration"`
	Payment         uint64          `json:"payment"`
	RentTime        uint32          `json:"rentTime"`
	ConfirmDeadline uint32          `json:"confirmDeadline"`
	EndTime         uint32          `json:"endTime"`
	Status          string          `json:"status"`
}

func convertOrder(o *rentmachine.Order) *Order {
	return &Order{
		ID:              o.ID,
		Renter:          o.Renter,
		MachineID:       o.MachineID.String(),
		GPUIndex:        o.GPUIndex,
		Duration:        o.Duration,
		Payment:         o.Payment,
		RentTime:        o.RentTime,
		ConfirmDeadline: o.ConfirmDeadline,
		EndTime:         o.EndTime,
		Status:          o.Status.String(),
	}
}

type Orders struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Orders {
	return &Orders{repo}
}

func (o *Orders) handleList(w http.ResponseWriter, req *http.Request) error {
	modules, _ := utils.BestModules(o.repo)

	var (
		ids []uint64
		err error
	)
	query := req.URL.Query()
	if renter := query.Get("renter"); renter != "" {
		addr, perr := rentnet.ParseAddress(renter)
		if perr != nil {
			return utils.BadRequest(errors.WithMessage(perr, "renter"))
		}
		ids, err = modules.RentMachine.RenterOrders(*addr)
	} else {
		name := query.Get("status")
		status, ok := rentmachine.ParseOrderStatus(name)
		if !ok {
			return utils.BadRequest(errors.Errorf("status: unknown order status %q", name))
		}
		ids, err = modules.RentMachine.List(status)
	}
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []uint64{}
	}
	return utils.WriteJSON(w, ids)
}

func (o *Orders) handleGetOrder(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	modules, _ := utils.BestModules(o.repo)
	order, err := modules.RentMachine.Order(id)
	if err != nil {
		return err
	}
	if order == nil {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, convertOrder(order))
}

func (o *Orders) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /orders").
		HandlerFunc(utils.WrapHandlerFunc(o.handleList))
	sub.Path("/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /orders/{id}").
		HandlerFunc(utils.WrapHandlerFunc(o.handleGetOrder))
}
