// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/logdb"
	"github.com/rentnet/rentnet/rentnet"
)

type Range struct {
	Unit string  `json:"unit"`
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventCriteria struct {
	Module  string           `json:"module,omitempty"`
	Name    string           `json:"name,omitempty"`
	Subject string           `json:"subject,omitempty"`
	Account *rentnet.Address `json:"account,omitempty"`
}

// EventFilter is the request body of the event query.
type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	ActionID    *rentnet.Bytes32 `json:"actionID,omitempty"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

type LogMeta struct {
	BlockID        rentnet.Bytes32 `json:"blockID"`
	BlockNumber    uint32          `json:"blockNumber"`
	BlockTimestamp uint64          `json:"blockTimestamp"`
	ActionID       rentnet.Bytes32 `json:"actionID"`
}

// FilteredEvent is an event with its position in the chain.
type FilteredEvent struct {
	Module  string          `json:"module"`
	Name    string          `json:"name"`
	Subject string          `json:"subject,omitempty"`
	Account rentnet.Address `json:"account"`
	Amount  uint64          `json:"amount"`
	Detail  string          `json:"detail,omitempty"`
	Meta    LogMeta         `json:"meta"`
}

func convertEvent(ev *logdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Module:  ev.Module,
		Name:    ev.Name,
		Subject: ev.Subject,
		Account: ev.Account,
		Amount:  ev.Amount,
		Detail:  ev.Detail,
		Meta: LogMeta{
			BlockID:        ev.BlockID,
			BlockNumber:    ev.BlockNumber,
			BlockTimestamp: ev.BlockTime,
			ActionID:       ev.ActionID,
		},
	}
}

func convertRange(r *Range, best uint32) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	unit := logdb.RangeType(r.Unit)
	if unit == "" {
		unit = logdb.Block
	}
	if unit != logdb.Block && unit != logdb.Time {
		return nil, errors.Errorf("range.unit: should be block or time")
	}
	out := &logdb.Range{Unit: unit}
	if r.From != nil {
		out.From = *r.From
	}
	if r.To != nil {
		out.To = *r.To
	} else if unit == logdb.Block {
		out.To = uint64(best)
	} else {
		out.To = ^uint64(0) >> 1
	}
	if out.From > out.To {
		return nil, errors.New("range.to must be greater than or equal to range.from")
	}
	return out, nil
}

// filterFromQuery builds a filter with a single criteria from query values.
func filterFromQuery(get func(string) string) (*EventFilter, error) {
	criteria := &EventCriteria{
		Module:  get("module"),
		Name:    get("name"),
		Subject: get("subject"),
	}
	if s := get("account"); s != "" {
		addr, err := rentnet.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "account")
		}
		criteria.Account = addr
	}
	filter := &EventFilter{
		CriteriaSet: []*EventCriteria{criteria},
		Order:       logdb.Order(get("order")),
	}
	if s := get("actionID"); s != "" {
		id, err := rentnet.ParseBytes32(s)
		if err != nil {
			return nil, errors.WithMessage(err, "actionID")
		}
		filter.ActionID = &id
	}

	parseOpt := func(name string) (*uint64, error) {
		s := get(name)
		if s == "" {
			return nil, nil
		}
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return nil, errors.WithMessage(err, name)
		}
		return &v, nil
	}
	from, err := parseOpt("from")
	if err != nil {
		return nil, err
	}
	to, err := parseOpt("to")
	if err != nil {
		return nil, err
	}
	if from != nil || to != nil || get("unit") != "" {
		filter.Range = &Range{Unit: get("unit"), From: from, To: to}
	}
	offset, err := parseOpt("offset")
	if err != nil {
		return nil, err
	}
	limit, err := parseOpt("limit")
	if err != nil {
		return nil, err
	}
	if offset != nil || limit != nil {
		filter.Options = &Options{}
		if offset != nil {
			filter.Options.Offset = *offset
		}
		if limit != nil {
			filter.Options.Limit = *limit
		}
	}
	return filter, nil
}
