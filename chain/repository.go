// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chain persists blocks, actions and receipts.
package chain

import (
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/kv"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

var logger = log.WithContext("pkg", "chain")

// Repository stores block headers, actions and receipts.
//
// It's thread-safe.
type Repository struct {
	store   kv.Store
	stater  *state.Stater
	genesis *block.Block
	tag     byte

	hdrStore     kv.Store
	bodyStore    kv.Store
	receiptStore kv.Store
	numStore     kv.Store
	actionStore  kv.Store
	propStore    kv.Store

	best    atomic.Pointer[block.Header]
	writeMu sync.Mutex

	feed  event.Feed
	scope event.SubscriptionScope

	caches struct {
		headers  *cache
		actions  *cache
		receipts *cache
	}
}

// NewRepository create an instance of repository. The genesis block is
// written when the store is empty, together with the genesis state stage.
func NewRepository(store kv.Store, genesis *block.Block, genesisStage *state.Stage) (*Repository, error) {
	if genesis.Header().Number() != 0 {
		return nil, errors.New("genesis number != 0")
	}
	if len(genesis.Actions()) != 0 {
		return nil, errors.New("genesis block should not have actions")
	}

	genesisID := genesis.Header().ID()
	repo := &Repository{
		store:        store,
		stater:       state.NewStater(store),
		genesis:      genesis,
		tag:          genesisID[31],
		hdrStore:     hdrBucket.NewStore(store),
		bodyStore:    bodyBucket.NewStore(store),
		receiptStore: receiptBucket.NewStore(store),
		numStore:     numBucket.NewStore(store),
		actionStore:  actionBucket.NewStore(store),
		propStore:    propBucket.NewStore(store),
	}
	repo.caches.headers = newCache("header", 512)
	repo.caches.actions = newCache("actions", 256)
	repo.caches.receipts = newCache("receipts", 256)

	val, err := repo.propStore.Get(bestBlockIDKey)
	if err != nil {
		if !repo.propStore.IsNotFound(err) {
			return nil, err
		}
		if err := repo.AddBlock(genesis, nil, genesisStage); err != nil {
			return nil, errors.Wrap(err, "write genesis")
		}
		return repo, nil
	}

	existingGenesisID, err := repo.GetBlockID(0)
	if err != nil {
		return nil, errors.Wrap(err, "get existing genesis id")
	}
	if existingGenesisID != genesisID {
		return nil, errors.New("genesis mismatch")
	}
	best, err := repo.GetHeader(rentnet.BytesToBytes32(val))
	if err != nil {
		return nil, errors.Wrap(err, "get best block")
	}
	repo.best.Store(best)
	metricBestBlockNumber().Set(int64(best.Number()))
	return repo, nil
}

// ChainTag returns chain tag, which is the last byte of genesis id.
func (r *Repository) ChainTag() byte {
	return r.tag
}

// GenesisBlock returns genesis block.
func (r *Repository) GenesisBlock() *block.Block {
	return r.genesis
}

// BestBlock returns the header of the newest block.
func (r *Repository) BestBlock() *block.Header {
	return r.best.Load()
}

// Stater returns the stater over the committed state.
func (r *Repository) Stater() *state.Stater {
	return r.stater
}

// IsNotFound returns if an error means not found.
func (r *Repository) IsNotFound(err error) bool {
	return r.store.IsNotFound(errors.Cause(err))
}

// AddBlock writes a block, its receipts and the state changes it made in a
// single bulk, then marks the block as best.
func (r *Repository) AddBlock(newBlock *block.Block, receipts action.Receipts, stage *state.Stage) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	var (
		header  = newBlock.Header()
		id      = header.ID()
		num     = header.Number()
		actions = newBlock.Actions()
		bulk    = r.store.Bulk()
	)
	if best := r.best.Load(); best != nil && header.ParentID() != best.ID() {
		return errors.New("parent is not the best block")
	}
	if len(receipts) != len(actions) {
		return errors.New("receipts count mismatch")
	}

	if stage != nil {
		if err := stage.Commit(r.stater.NewPutter(bulk)); err != nil {
			return err
		}
	}
	if err := saveRLP(hdrBucket.NewPutter(bulk), id[:], header); err != nil {
		return err
	}
	if err := saveRLP(bodyBucket.NewPutter(bulk), id[:], actions); err != nil {
		return err
	}
	if err := saveRLP(receiptBucket.NewPutter(bulk), id[:], receipts); err != nil {
		return err
	}
	actionPutter := actionBucket.NewPutter(bulk)
	for i, a := range actions {
		aid := a.ID()
		if err := saveRLP(actionPutter, aid[:], &ActionMeta{id, uint64(i)}); err != nil {
			return err
		}
	}
	if err := numBucket.NewPutter(bulk).Put(numberKey(num), id[:]); err != nil {
		return err
	}
	if err := propBucket.NewPutter(bulk).Put(bestBlockIDKey, id[:]); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write block")
	}

	r.caches.headers.Add(id, header)
	r.caches.actions.Add(id, actions)
	r.caches.receipts.Add(id, receipts)
	r.best.Store(header)
	metricBestBlockNumber().Set(int64(num))
	metricActionRepository().AddWithLabel(int64(len(actions)), map[string]string{"type": "write", "target": "db"})
	logger.Debug("block added", "number", num, "id", id, "actions", len(actions))

	r.feed.Send(newBlock)
	return nil
}

// GetBlockID returns the id of the block at num.
func (r *Repository) GetBlockID(num uint32) (rentnet.Bytes32, error) {
	val, err := r.numStore.Get(numberKey(num))
	if err != nil {
		return rentnet.Bytes32{}, err
	}
	return rentnet.BytesToBytes32(val), nil
}

// GetHeader returns the header of block id.
func (r *Repository) GetHeader(id rentnet.Bytes32) (*block.Header, error) {
	h, err := r.caches.headers.GetOrLoad(id, func() (any, error) {
		return loadHeader(r.hdrStore, id)
	})
	if err != nil {
		return nil, err
	}
	return h.(*block.Header), nil
}

// GetBlock returns the block of id.
func (r *Repository) GetBlock(id rentnet.Bytes32) (*block.Block, error) {
	header, err := r.GetHeader(id)
	if err != nil {
		return nil, err
	}
	actions, err := r.caches.actions.GetOrLoad(id, func() (any, error) {
		return loadActions(r.bodyStore, id)
	})
	if err != nil {
		return nil, err
	}
	return block.Compose(header, actions.(action.Actions)), nil
}

// GetBlockByNumber returns the block at num.
func (r *Repository) GetBlockByNumber(num uint32) (*block.Block, error) {
	id, err := r.GetBlockID(num)
	if err != nil {
		return nil, err
	}
	return r.GetBlock(id)
}

// GetReceipts returns the receipts of actions in block id.
func (r *Repository) GetReceipts(id rentnet.Bytes32) (action.Receipts, error) {
	receipts, err := r.caches.receipts.GetOrLoad(id, func() (any, error) {
		return loadReceipts(r.receiptStore, id)
	})
	if err != nil {
		return nil, err
	}
	return receipts.(action.Receipts), nil
}

// GetAction returns an executed action and its location.
func (r *Repository) GetAction(id rentnet.Bytes32) (*action.Action, *ActionMeta, error) {
	var meta ActionMeta
	if err := loadRLP(r.actionStore, id[:], &meta); err != nil {
		return nil, nil, err
	}
	metricActionRepository().AddWithLabel(1, map[string]string{"type": "read", "target": "db"})
	blk, err := r.GetBlock(meta.BlockID)
	if err != nil {
		return nil, nil, err
	}
	actions := blk.Actions()
	if meta.Index >= uint64(len(actions)) {
		return nil, nil, errors.New("action index out of range")
	}
	return actions[meta.Index], &meta, nil
}

// GetActionReceipt returns the receipt of an executed action.
func (r *Repository) GetActionReceipt(id rentnet.Bytes32) (*action.Receipt, error) {
	var meta ActionMeta
	if err := loadRLP(r.actionStore, id[:], &meta); err != nil {
		return nil, err
	}
	receipts, err := r.GetReceipts(meta.BlockID)
	if err != nil {
		return nil, err
	}
	if meta.Index >= uint64(len(receipts)) {
		return nil, errors.New("receipt index out of range")
	}
	return receipts[meta.Index], nil
}

// HasAction reports whether an action is in the chain.
func (r *Repository) HasAction(id rentnet.Bytes32) (bool, error) {
	return r.actionStore.Has(id[:])
}

// SubscribeNewBlock delivers every added block to ch.
func (r *Repository) SubscribeNewBlock(ch chan<- *block.Block) event.Subscription {
	return r.scope.Track(r.feed.Subscribe(ch))
}

// Close unsubscribes all subscribers.
func (r *Repository) Close() {
	r.scope.Close()
}
