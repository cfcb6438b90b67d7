// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/actionpool"
	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/rentnet"
)

type Actions struct {
	repo *chain.Repository
	pool *actionpool.ActionPool
}

func New(repo *chain.Repository, pool *actionpool.ActionPool) *Actions {
	return &Actions{
		repo,
		pool,
	}
}

func (a *Actions) getActionByID(id rentnet.Bytes32, allowPending bool) (*Action, error) {
	act, meta, err := a.repo.GetAction(id)
	if err != nil {
		if !a.repo.IsNotFound(err) {
			return nil, err
		}
		if allowPending {
			if pending := a.pool.Get(id); pending != nil {
				return convertAction(pending, nil)
			}
		}
		return nil, nil
	}
	header, err := a.repo.GetHeader(meta.BlockID)
	if err != nil {
		return nil, err
	}
	return convertAction(act, header)
}

func (a *Actions) getReceiptByID(id rentnet.Bytes32) (*Receipt, error) {
	_, meta, err := a.repo.GetAction(id)
	if err != nil {
		if a.repo.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	receipt, err := a.repo.GetActionReceipt(id)
	if err != nil {
		return nil, err
	}
	header, err := a.repo.GetHeader(meta.BlockID)
	if err != nil {
		return nil, err
	}
	return convertReceipt(receipt, header), nil
}

func (a *Actions) handleSendAction(w http.ResponseWriter, req *http.Request) error {
	var raw RawAction
	if err := utils.ParseJSON(req.Body, &raw); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	act, err := raw.decode()
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}

	if err := a.pool.Add(act); err != nil {
		if actionpool.IsBadAction(err) {
			return utils.BadRequest(err)
		}
		if actionpool.IsActionRejected(err) || actionpool.IsKnownAction(err) {
			return utils.Forbidden(err)
		}
		return err
	}
	return utils.WriteJSON(w, map[string]string{
		"id": act.ID().String(),
	})
}

func (a *Actions) handleGetActionByID(w http.ResponseWriter, req *http.Request) error {
	id, err := rentnet.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	pending, err := utils.StringToBoolean(req.URL.Query().Get("pending"), false)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "pending"))
	}
	act, err := a.getActionByID(id, pending)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, act)
}

func (a *Actions) handleGetReceiptByID(w http.ResponseWriter, req *http.Request) error {
	id, err := rentnet.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := a.getReceiptByID(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, receipt)
}

func (a *Actions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /actions").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSendAction))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /actions/{id}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetActionByID))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("GET /actions/{id}/receipt").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetReceiptByID))
}
