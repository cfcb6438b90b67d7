// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package actionpool keeps signed actions waiting to be packed.
package actionpool

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/event"
	lru "github.com/hashicorp/golang-lru"

	"github.com/rentnet/rentnet/action"
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/co"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/rentnet"
)

var logger = log.WithContext("pkg", "actionpool")

// Options options for action pool.
type Options struct {
	Limit           int
	LimitPerAccount int
	MaxLifetime     time.Duration
	KnownCacheSize  int
}

// DefaultOptions are used by the node when no flags override them.
var DefaultOptions = Options{
	Limit:           10000,
	LimitPerAccount: 16,
	MaxLifetime:     20 * time.Minute,
	KnownCacheSize:  32768,
}

// ActionEvent will be posted when an action is added.
type ActionEvent struct {
	Action *action.Action
	Origin rentnet.Address
}

// ActionPool maintains unpacked actions.
type ActionPool struct {
	options Options
	repo    *chain.Repository
	all     *objectMap
	known   *lru.Cache

	ctx    context.Context
	cancel func()
	feed   event.Feed
	scope  event.SubscriptionScope
	goes   co.Goes
}

// New create a new ActionPool instance.
// Close is required to be called at end.
func New(repo *chain.Repository, options Options) *ActionPool {
	if options.KnownCacheSize <= 0 {
		options.KnownCacheSize = DefaultOptions.KnownCacheSize
	}
	known, _ := lru.New(options.KnownCacheSize)

	ctx, cancel := context.WithCancel(context.Background())
	pool := &ActionPool{
		options: options,
		repo:    repo,
		all:     newObjectMap(),
		known:   known,
		ctx:     ctx,
		cancel:  cancel,
	}
	pool.goes.Go(pool.housekeeping)
	return pool
}

func (p *ActionPool) housekeeping() {
	logger.Debug("enter housekeeping")
	defer logger.Debug("leave housekeeping")

	newBlockCh := make(chan *block.Block, 16)
	sub := p.repo.SubscribeNewBlock(newBlockCh)
	defer sub.Unsubscribe()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case blk := <-newBlockCh:
			p.onNewBlock(blk)
		case <-ticker.C:
			if removed := p.washExpired(time.Now().UnixNano()); removed > 0 {
				logger.Debug("expired actions washed", "removed", removed, "len", p.all.Len())
			}
		}
	}
}

// onNewBlock drops packed actions from the pool and remembers their ids.
func (p *ActionPool) onNewBlock(blk *block.Block) {
	for _, a := range blk.Actions() {
		id := a.ID()
		p.known.Add(id, struct{}{})
		if p.all.Remove(id) {
			metricPoolGauge().AddWithLabel(-1, map[string]string{"source": "packed"})
		}
	}
}

func (p *ActionPool) washExpired(now int64) int {
	if p.options.MaxLifetime <= 0 {
		return 0
	}
	removed := 0
	for _, obj := range p.all.Objects() {
		if now-obj.timeAdded > int64(p.options.MaxLifetime) {
			if p.all.Remove(obj.ID()) {
				removed++
			}
		}
	}
	if removed > 0 {
		metricPoolGauge().AddWithLabel(-int64(removed), map[string]string{"source": "expired"})
	}
	return removed
}

// Close cleanup inner go routines.
func (p *ActionPool) Close() {
	p.cancel()
	p.scope.Close()
	logger.Debug("waiting for routines", "n", p.goes.Running())
	p.goes.Wait()
	logger.Debug("closed")
}

// SubscribeActionEvent receivers will receive an event for every added action.
func (p *ActionPool) SubscribeActionEvent(ch chan *ActionEvent) event.Subscription {
	return p.scope.Track(p.feed.Subscribe(ch))
}

// Add adds a new action into pool.
// It's not assumed as an error if the action is already in the pool.
func (p *ActionPool) Add(newAction *action.Action) (err error) {
	defer func() {
		if err != nil {
			reason := "rejected"
			if IsBadAction(err) {
				reason = "bad"
			} else if IsKnownAction(err) {
				reason = "known"
			}
			metricBadActions().AddWithLabel(1, map[string]string{"reason": reason})
		}
	}()

	id := newAction.ID()
	if p.all.Contains(id) {
		return nil
	}
	if p.known.Contains(id) {
		return errKnownAction
	}
	if has, err := p.repo.HasAction(id); err != nil {
		return err
	} else if has {
		p.known.Add(id, struct{}{})
		return errKnownAction
	}

	obj, err := resolveAction(newAction, p.repo.ChainTag(), time.Now().UnixNano())
	if err != nil {
		return badActionError{err.Error()}
	}

	added, err := p.all.Add(obj, p.options.Limit, p.options.LimitPerAccount)
	if err != nil || !added {
		return err
	}

	metricPoolGauge().AddWithLabel(1, map[string]string{"source": "local"})
	logger.Trace("action added", "id", id, "kind", newAction.Kind(), "origin", obj.origin)
	p.goes.Go(func() {
		p.feed.Send(&ActionEvent{newAction, obj.origin})
	})
	return nil
}

// Get get pooled action by id.
func (p *ActionPool) Get(id rentnet.Bytes32) *action.Action {
	if obj := p.all.Get(id); obj != nil {
		return obj.Action
	}
	return nil
}

// Remove removes action from pool by its id.
func (p *ActionPool) Remove(id rentnet.Bytes32) bool {
	if p.all.Remove(id) {
		metricPoolGauge().AddWithLabel(-1, map[string]string{"source": "removed"})
		logger.Debug("action removed", "id", id)
		return true
	}
	return false
}

// Executables returns pooled actions in the order they were added.
func (p *ActionPool) Executables() action.Actions {
	objs := p.all.Objects()
	actions := make(action.Actions, 0, len(objs))
	for _, obj := range objs {
		actions = append(actions, obj.Action)
	}
	return actions
}

// Len returns count of pooled actions.
func (p *ActionPool) Len() int {
	return p.all.Len()
}
