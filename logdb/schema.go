// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for settlement events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key,
	blockID blob(32),
	blockNumber integer,
	blockTime integer,
	actionID blob(32),
	module text,
	name text,
	subject text,
	account blob(20),
	amount integer,
	detail text
);

CREATE INDEX if not exists moduleNameIndex on event(module, name);
CREATE INDEX if not exists subjectIndex on event(subject);
CREATE INDEX if not exists accountIndex on event(account);
CREATE INDEX if not exists blockTimeIndex on event(blockTime);
`
