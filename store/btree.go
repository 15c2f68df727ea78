package store

import (
	"bytes"

	"github.com/google/btree"
)

// btreeDegree is small since a cache wrap holds the writes of a single
// transaction only.
const btreeDegree = 2

// BTreeCacheable gives a KVStore savepoints backed by an in-memory btree.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a savepoint that is flushed into the store by a batch.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in-memory store without persistence, for tests.
func MemStore() CacheableKVStore {
	base := EmptyKVStore{}
	return NewBTreeCacheWrap(base, base.NewBatch(), nil)
}

// ShowOpser lists the operations that reached a store, in order.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in-memory store and a view of every operation
// written to it. Writes of a discarded cache wrap never show up.
func LogableStore() (CacheableKVStore, ShowOpser) {
	base := EmptyKVStore{}
	ops := NewNonAtomicBatch(base)
	return NewBTreeCacheWrap(base, ops, nil), ops
}

// BTreeCacheWrap keeps pending writes in a btree in front of a read only
// parent. Writes are mirrored into batch, which reaches the parent on Write.
type BTreeCacheWrap struct {
	pending *btree.BTree
	free    *btree.FreeList
	parent  ReadOnlyKVStore
	batch   Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap returns a cache wrap over parent. A nil free list
// allocates a new one, nested wraps share the free list of their parent.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		pending: btree.NewWithFreeList(btreeDegree, free),
		free:    free,
		parent:  parent,
		batch:   batch,
	}
}

// CacheWrap nests a savepoint inside this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache wrap.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes pending writes into the parent and empties the wrap.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending writes.
func (b BTreeCacheWrap) Discard() {
	for b.pending.DeleteMin() != nil {
	}
	if nb, ok := b.batch.(*NonAtomicBatch); ok {
		nb.ops = nil
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.pending.ReplaceOrInsert(entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.pending.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok := b.lookup(key)
	if !ok {
		return b.parent.Get(key)
	}
	if e.deleted {
		return nil, nil
	}
	return e.value, nil
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok := b.lookup(key)
	if !ok {
		return b.parent.Has(key)
	}
	return !e.deleted, nil
}

// lookup returns the pending write for key, if any.
func (b BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	it := b.pending.Get(entry{key: key})
	if it == nil {
		return entry{}, false
	}
	return it.(entry), true
}

// entry is a pending write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
