// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package actionpool

import (
	"sort"
	"sync"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/runtime"
)

// actionObject wraps an action with its resolved origin and pool bookkeeping.
type actionObject struct {
	*action.Action
	origin    rentnet.Address
	timeAdded int64
	seq       uint64
}

func resolveAction(a *action.Action, chainTag byte, now int64) (*actionObject, error) {
	resolved, err := runtime.ResolveAction(a, chainTag)
	if err != nil {
		return nil, err
	}
	return &actionObject{
		Action:    a,
		origin:    resolved.Origin,
		timeAdded: now,
	}, nil
}

// objectMap maps action id to action object and keeps per origin quota.
type objectMap struct {
	lock    sync.RWMutex
	mapByID map[rentnet.Bytes32]*actionObject
	quota   map[rentnet.Address]int
	seq     uint64
}

func newObjectMap() *objectMap {
	return &objectMap{
		mapByID: make(map[rentnet.Bytes32]*actionObject),
		quota:   make(map[rentnet.Address]int),
	}
}

func (m *objectMap) Contains(id rentnet.Bytes32) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, found := m.mapByID[id]
	return found
}

// Add inserts the object. It returns false without error if the object is already present.
func (m *objectMap) Add(obj *actionObject, limit, limitPerAccount int) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	id := obj.ID()
	if _, found := m.mapByID[id]; found {
		return false, nil
	}
	if len(m.mapByID) >= limit {
		return false, actionRejectedError{"pool is full"}
	}
	if m.quota[obj.origin] >= limitPerAccount {
		return false, actionRejectedError{"account quota exceeds limit"}
	}

	m.seq++
	obj.seq = m.seq
	m.mapByID[id] = obj
	m.quota[obj.origin]++
	return true, nil
}

func (m *objectMap) Get(id rentnet.Bytes32) *actionObject {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.mapByID[id]
}

func (m *objectMap) Remove(id rentnet.Bytes32) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	obj, ok := m.mapByID[id]
	if !ok {
		return false
	}
	if m.quota[obj.origin] > 1 {
		m.quota[obj.origin]--
	} else {
		delete(m.quota, obj.origin)
	}
	delete(m.mapByID, id)
	return true
}

func (m *objectMap) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.mapByID)
}

// Objects returns all objects in insertion order.
func (m *objectMap) Objects() []*actionObject {
	m.lock.RLock()
	objs := make([]*actionObject, 0, len(m.mapByID))
	for _, obj := range m.mapByID {
		objs = append(objs, obj)
	}
	m.lock.RUnlock()

	sort.Slice(objs, func(i, j int) bool { return objs[i].seq < objs[j].seq })
	return objs
}
