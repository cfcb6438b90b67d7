// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// filter shapes produce a bounded set of query strings
const stmtCacheSize = 256

// stmtCache keeps prepared statements by query string. Evicted statements
// are closed.
type stmtCache struct {
	db    *sql.DB
	mu    sync.Mutex
	stmts *lru.Cache
}

func newStmtCache(db *sql.DB) *stmtCache {
	stmts, _ := lru.NewWithEvict(stmtCacheSize, func(_, value any) {
		_ = value.(*sql.Stmt).Close()
	})
	return &stmtCache{db: db, stmts: stmts}
}

func (sc *stmtCache) Prepare(query string) (*sql.Stmt, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if cached, ok := sc.stmts.Get(query); ok {
		metricStmtCache().AddWithLabel(1, map[string]string{"result": "hit"})
		return cached.(*sql.Stmt), nil
	}
	stmt, err := sc.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	metricStmtCache().AddWithLabel(1, map[string]string{"result": "miss"})
	sc.stmts.Add(query, stmt)
	return stmt, nil
}

// Clear closes all cached statements.
func (sc *stmtCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.stmts.Purge()
}
