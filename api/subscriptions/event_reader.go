// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"encoding/json"

	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/logdb"
)

type eventReader struct {
	repo     *chain.Repository
	db       *logdb.LogDB
	next     uint32
	criteria *logdb.EventCriteria
}

func newEventReader(repo *chain.Repository, db *logdb.LogDB, next uint32, criteria *logdb.EventCriteria) *eventReader {
	return &eventReader{
		repo:     repo,
		db:       db,
		next:     next,
		criteria: criteria,
	}
}

// Read returns matching events of blocks from the reader position up to the
// best block.
func (er *eventReader) Read() ([][]byte, bool, error) {
	best := er.repo.BestBlock().Number()
	if er.next > best {
		return nil, false, nil
	}
	to := best
	if to-er.next >= maxReadBlocks {
		to = er.next + maxReadBlocks - 1
	}
	evs, err := er.db.FilterEvents(context.Background(), &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{er.criteria},
		Range:       &logdb.Range{Unit: logdb.Block, From: uint64(er.next), To: uint64(to)},
	})
	if err != nil {
		return nil, false, err
	}
	er.next = to + 1

	msgs := make([][]byte, 0, len(evs))
	for _, ev := range evs {
		msg, err := json.Marshal(convertEvent(ev))
		if err != nil {
			return nil, false, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, true, nil
}
