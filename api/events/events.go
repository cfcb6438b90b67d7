// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/logdb"
)

type Events struct {
	repo  *chain.Repository
	db    *logdb.LogDB
	limit uint64
}

func New(repo *chain.Repository, db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		repo,
		db,
		logsLimit,
	}
}

// filter query events with option
func (e *Events) filter(ctx context.Context, ef *EventFilter) ([]*FilteredEvent, error) {
	rng, err := convertRange(ef.Range, e.repo.BestBlock().Number())
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	filter := &logdb.EventFilter{
		ActionID: ef.ActionID,
		Range:    rng,
		Options:  &logdb.Options{Offset: ef.Options.Offset, Limit: ef.Options.Limit},
		Order:    ef.Order,
	}
	for _, c := range ef.CriteriaSet {
		filter.CriteriaSet = append(filter.CriteriaSet, &logdb.EventCriteria{
			Module:  c.Module,
			Name:    c.Name,
			Subject: c.Subject,
			Account: c.Account,
		})
	}
	evs, err := e.db.FilterEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	fes := make([]*FilteredEvent, len(evs))
	for i, ev := range evs {
		fes[i] = convertEvent(ev)
	}
	return fes, nil
}

func (e *Events) serve(w http.ResponseWriter, req *http.Request, filter *EventFilter) error {
	if filter.Order != "" && filter.Order != logdb.ASC && filter.Order != logdb.DESC {
		return utils.BadRequest(errors.New("order: should be asc or desc"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", math.MaxInt64))
	}
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Options == nil {
		// one more than the limit to detect an oversized result
		filter.Options = &Options{Limit: e.limit + 1}
	}

	fes, err := e.filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if len(fes) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return e.serve(w, req, &filter)
}

func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	filter, err := filterFromQuery(req.URL.Query().Get)
	if err != nil {
		return utils.BadRequest(err)
	}
	return e.serve(w, req, filter)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /logs/events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
