package kv

import (
	"errors"
	"io"

	"github.com/benz9527/xordered/lib/infra"
	"github.com/benz9527/xordered/lib/tree"
	"github.com/benz9527/xordered/lib/xlog"
)

var (
	ErrOutOfRange = errors.New("[xmap] key out of range")
)

// Pair is the stored element of OrderedMap. Key is fixed once the
// pair is linked, only Val may be changed in place.
type Pair[K, V any] struct {
	Key K
	Val V
}

func MakePair[K, V any](key K, val V) Pair[K, V] {
	return Pair[K, V]{Key: key, Val: val}
}

type pairFirstKey[K, V any] struct{}

func (pairFirstKey[K, V]) KeyOf(p Pair[K, V]) K {
	return p.Key
}

// assignPairVal keeps the stored key, only the value is replaced.
func assignPairVal[K, V any](stored *Pair[K, V], p Pair[K, V]) {
	stored.Val = p.Val
}

type orderedOptions[K any] struct {
	desc      bool
	keyCmp    infra.OrderedKeyComparator[K]
	statsName string
	stats     bool
	checker   xlog.XLogger
}

// OrderedOption configures both OrderedMap and OrderedSet.
type OrderedOption[K any] func(*orderedOptions[K])

func WithOrderedDesc[K any]() OrderedOption[K] {
	return func(opts *orderedOptions[K]) {
		opts.desc = true
	}
}

func WithOrderedKeyComparator[K any](cmp infra.OrderedKeyComparator[K]) OrderedOption[K] {
	return func(opts *orderedOptions[K]) {
		if cmp != nil {
			opts.keyCmp = cmp
		}
	}
}

func WithOrderedStats[K any](name string) OrderedOption[K] {
	return func(opts *orderedOptions[K]) {
		opts.stats = true
		opts.statsName = name
	}
}

func WithOrderedInvariantCheck[K any](logger xlog.XLogger) OrderedOption[K] {
	return func(opts *orderedOptions[K]) {
		opts.checker = logger
	}
}

func applyOrderedOptions[K any](opts []OrderedOption[K]) *orderedOptions[K] {
	cfg := &orderedOptions[K]{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	return cfg
}

func treeOptions[K, E any](cfg *orderedOptions[K]) []tree.RBTreeOption[K, E] {
	res := make([]tree.RBTreeOption[K, E], 0, 4)
	res = append(res, tree.WithRBTreeKeyComparator[K, E](cfg.keyCmp))
	if cfg.desc {
		res = append(res, tree.WithRBTreeDesc[K, E]())
	}
	if cfg.stats {
		res = append(res, tree.WithRBTreeStats[K, E](cfg.statsName))
	}
	if cfg.checker != nil {
		res = append(res, tree.WithRBTreeInvariantCheck[K, E](cfg.checker))
	}
	return res
}

type SafeStoreKeyFilterFunc[K any] func(key K) bool

func defaultAllKeysFilter[K any](key K) bool {
	return true
}

type Closable interface {
	io.Closer
}

// ThreadSafeOrderedStorer is the locked form of OrderedMap. It never
// hands out iterators, the results are copied out under the lock.
type ThreadSafeOrderedStorer[K comparable, V any] interface {
	Purge() error
	AddOrUpdate(key K, obj V)
	Replace(items map[K]V)
	Delete(key K) (item V, exists bool)
	Get(key K) (item V, exists bool)
	Contains(key K) bool
	Len() int64
	// ListKeys returns the keys in order, a key is kept if any filter accepts it.
	ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K
	// ListValues returns the values of the given keys in key order, or
	// all the values if no key is given.
	ListValues(keys ...K) (items []V)
	Floor(key K) (K, V, bool)
	Ceiling(key K) (K, V, bool)
	Range(fn func(key K, val V) bool)
}
