// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package events collects settlement events emitted by builtin modules while a block is built.
package events

import (
	"github.com/rentnet/rentnet/rentnet"
)

// Event is an auditable state change.
type Event struct {
	Module  string
	Name    string
	Subject string // machine, report, order or slash id
	Account rentnet.Address
	Amount  uint64
	Detail  string
}

// Log is an append only event buffer that can be truncated on revert.
// A nil *Log discards events.
type Log struct {
	events []*Event
}

// Emit appends an event.
func (l *Log) Emit(ev *Event) {
	if l == nil {
		return
	}
	l.events = append(l.events, ev)
}

// Len returns the number of buffered events, usable as a revert mark.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.events)
}

// Truncate drops events after mark.
func (l *Log) Truncate(mark int) {
	if l == nil || mark >= len(l.events) {
		return
	}
	l.events = l.events[:mark]
}

// Since returns buffered events after mark.
func (l *Log) Since(mark int) []*Event {
	if l == nil || mark >= len(l.events) {
		return nil
	}
	return l.events[mark:]
}

// All returns all buffered events.
func (l *Log) All() []*Event {
	if l == nil {
		return nil
	}
	return l.events
}

// Emitter binds a module name to a log.
type Emitter struct {
	module string
	log    *Log
}

func NewEmitter(module string, log *Log) *Emitter {
	return &Emitter{module: module, log: log}
}

// Emit records a named event for subject.
func (e *Emitter) Emit(name, subject string, account rentnet.Address, amount uint64, detail string) {
	if e == nil {
		return
	}
	e.log.Emit(&Event{
		Module:  e.module,
		Name:    name,
		Subject: subject,
		Account: account,
		Amount:  amount,
		Detail:  detail,
	})
}
