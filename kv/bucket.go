// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Bucket provides logical bucket for kv store.
type Bucket string

func (b Bucket) key(k []byte) []byte {
	out := make([]byte, 0, len(b)+len(k))
	return append(append(out, b...), k...)
}

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{b, src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{b, src}
}

// NewStore creates a bucket store from the source store.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{
		bucketGetter: bucketGetter{b, src},
		bucketPutter: bucketPutter{b, src},
		src:          src,
	}
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.key(key)) }
func (g *bucketGetter) Has(key []byte) (bool, error)   { return g.src.Has(g.b.key(key)) }
func (g *bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.src.Put(p.b.key(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.b.key(key)) }

type bucketStore struct {
	bucketGetter
	bucketPutter
	src Store
}

func (s *bucketStore) Snapshot() Snapshot {
	snap := s.src.Snapshot()
	return &struct {
		Getter
		releaser
	}{s.bucketGetter.b.NewGetter(snap), snap}
}

func (s *bucketStore) Bulk() Bulk {
	bulk := s.src.Bulk()
	return &struct {
		Putter
		writer
	}{s.bucketPutter.b.NewPutter(bulk), bulk}
}

func (s *bucketStore) Iterate(r Range) Iterator {
	b := s.bucketGetter.b
	var limit []byte
	if len(r.Limit) > 0 {
		limit = b.key(r.Limit)
	} else {
		limit = PrefixRange([]byte(b)).Limit
	}
	return &bucketIterator{
		Iterator: s.src.Iterate(Range{Start: b.key(r.Start), Limit: limit}),
		n:        len(b),
	}
}

type releaser interface{ Release() }
type writer interface{ Write() error }

type bucketIterator struct {
	Iterator
	n int
}

func (i *bucketIterator) Key() []byte {
	return i.Iterator.Key()[i.n:]
}
