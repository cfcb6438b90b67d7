// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/rentnet"
)

// Event represents events.Event that can be stored in db.
type Event struct {
	BlockID     rentnet.Bytes32
	BlockNumber uint32
	BlockTime   uint64
	Index       uint32
	ActionID    rentnet.Bytes32 // zero for events emitted by block housekeeping
	Module      string
	Name        string
	Subject     string
	Account     rentnet.Address
	Amount      uint64
	Detail      string
}

// newEvent converts events.Event to Event.
func newEvent(header *block.Header, index uint32, actionID rentnet.Bytes32, ev *events.Event) *Event {
	return &Event{
		BlockID:     header.ID(),
		BlockNumber: header.Number(),
		BlockTime:   header.Timestamp(),
		Index:       index,
		ActionID:    actionID,
		Module:      ev.Module,
		Name:        ev.Name,
		Subject:     ev.Subject,
		Account:     ev.Account,
		Amount:      ev.Amount,
		Detail:      ev.Detail,
	}
}

type RangeType string

const (
	Block RangeType = "block"
	Time  RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events on every non empty field.
type EventCriteria struct {
	Module  string
	Name    string
	Subject string
	Account *rentnet.Address
}

// EventFilter criteria in the set are ORed.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	ActionID    *rentnet.Bytes32
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
