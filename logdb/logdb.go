// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb stores settlement events in sqlite for queries.
package logdb

import (
	"context"
	"database/sql"
	"math"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/builtin/events"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/rentnet"
)

var logger = log.WithContext("pkg", "logdb")

const (
	insertEventQuery = "INSERT OR REPLACE INTO event(seq, blockID, blockNumber, blockTime, actionID, module, name, subject, account, amount, detail) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	selectEventQuery = "SELECT seq, blockID, blockTime, actionID, module, name, subject, account, amount, detail FROM event"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path+"?_journal=wal")
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()

	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create schema")
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the linked sqlite library.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// FilterEvents returns events matching the filter.
func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, selectEventQuery+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := selectEventQuery + " WHERE 1"
	if filter.Range != nil {
		if filter.Range.Unit == Time {
			args = append(args, clampInt64(filter.Range.From))
			stmt += " AND blockTime >= ?"
			if filter.Range.To >= filter.Range.From {
				args = append(args, clampInt64(filter.Range.To))
				stmt += " AND blockTime <= ?"
			}
		} else {
			from, to := blockRange(filter.Range)
			args = append(args, from, to)
			stmt += " AND seq >= ? AND seq <= ?"
		}
	}
	if filter.ActionID != nil {
		args = append(args, filter.ActionID.Bytes())
		stmt += " AND actionID = ?"
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Module != "" {
			args = append(args, criteria.Module)
			stmt += " AND module = ?"
		}
		if criteria.Name != "" {
			args = append(args, criteria.Name)
			stmt += " AND name = ?"
		}
		if criteria.Subject != "" {
			args = append(args, criteria.Subject)
			stmt += " AND subject = ?"
		}
		if criteria.Account != nil {
			args = append(args, criteria.Account.Bytes())
			stmt += " AND account = ?"
		}
		stmt += " )"
	}
	if len(filter.CriteriaSet) > 0 {
		stmt += " )"
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, clampInt64(filter.Options.Offset), clampInt64(filter.Options.Limit))
	}
	return db.queryEvents(ctx, stmt, args...)
}

// NewestBlockNumber returns the number of the newest block having events.
func (db *LogDB) NewestBlockNumber() (uint32, bool, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, false, err
	}
	if !seq.Valid {
		return 0, false, nil
	}
	return sequence(seq.Int64).BlockNumber(), true, nil
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evs []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			blockID   []byte
			blockTime int64
			actionID  []byte
			account   []byte
			amount    int64
			ev        Event
		)
		if err := rows.Scan(
			&seq,
			&blockID,
			&blockTime,
			&actionID,
			&ev.Module,
			&ev.Name,
			&ev.Subject,
			&account,
			&amount,
			&ev.Detail,
		); err != nil {
			return nil, err
		}
		ev.BlockID = rentnet.BytesToBytes32(blockID)
		ev.BlockNumber = sequence(seq).BlockNumber()
		ev.Index = sequence(seq).Index()
		ev.BlockTime = uint64(blockTime)
		ev.ActionID = rentnet.BytesToBytes32(actionID)
		ev.Account = rentnet.BytesToAddress(account)
		ev.Amount = uint64(amount)
		evs = append(evs, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return evs, nil
}

func blockRange(r *Range) (int64, int64) {
	from := uint32(math.MaxUint32)
	if r.From < math.MaxUint32 {
		from = uint32(r.From)
	}
	to := uint32(math.MaxUint32)
	if r.To >= r.From && r.To < math.MaxUint32 {
		to = uint32(r.To)
	}
	return int64(newSequence(from, 0)), int64(newSequence(to, math.MaxInt32))
}

func clampInt64(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// Prepare begins a batch of events for the block.
func (db *LogDB) Prepare(header *block.Header) *BlockBatch {
	return &BlockBatch{
		db:     db,
		header: header,
	}
}

// BlockBatch collects events of a block and writes them in one db transaction.
type BlockBatch struct {
	db     *LogDB
	header *block.Header
	events []*Event
}

// ForAction returns an inserter of events emitted by the action.
// A zero id stands for housekeeping.
func (bb *BlockBatch) ForAction(actionID rentnet.Bytes32) struct {
	Insert func([]*events.Event) *BlockBatch
} {
	return struct {
		Insert func([]*events.Event) *BlockBatch
	}{
		func(evs []*events.Event) *BlockBatch {
			for _, ev := range evs {
				bb.events = append(bb.events, newEvent(bb.header, uint32(len(bb.events)), actionID, ev))
			}
			return bb
		},
	}
}

// Len returns the number of collected events.
func (bb *BlockBatch) Len() int {
	return len(bb.events)
}

// Commit writes the collected events. Events previously written at or above
// the block number are dropped first, so a block packed again after a failed
// commit replaces what was left of the earlier attempt.
func (bb *BlockBatch) Commit() error {
	tx, err := bb.db.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM event WHERE seq >= ?", int64(newSequence(bb.header.Number(), 0))); err != nil {
		_ = tx.Rollback()
		return err
	}
	stmt, err := tx.Prepare(insertEventQuery)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, ev := range bb.events {
		if _, err := stmt.Exec(
			int64(newSequence(ev.BlockNumber, ev.Index)),
			ev.BlockID.Bytes(),
			int64(ev.BlockNumber),
			int64(ev.BlockTime),
			ev.ActionID.Bytes(),
			ev.Module,
			ev.Name,
			ev.Subject,
			ev.Account.Bytes(),
			int64(ev.Amount),
			ev.Detail,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metricEventsWritten().Add(int64(len(bb.events)))
	return nil
}
