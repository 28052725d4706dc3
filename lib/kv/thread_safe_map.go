package kv

import (
	"io"
	"reflect"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xordered/lib/infra"
	"github.com/benz9527/xordered/lib/xlog"
)

var (
	_          ThreadSafeOrderedStorer[int, int] = (*threadSafeOrderedMap[int, int])(nil)
	closerType                                   = reflect.TypeOf((*io.Closer)(nil)).Elem()
)

type threadSafeOrderedMap[K comparable, V any] struct {
	lock           sync.RWMutex
	items          *OrderedMap[K, V]
	isClosableItem bool
	logger         xlog.XLogger
}

func (t *threadSafeOrderedMap[K, V]) AddOrUpdate(key K, obj V) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.items.InsertOrAssign(key, obj)
}

// Replace drops the current content without closing it.
func (t *threadSafeOrderedMap[K, V]) Replace(items map[K]V) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.items.Clear()
	for key, item := range items {
		t.items.Insert(key, item)
	}
}

func (t *threadSafeOrderedMap[K, V]) Delete(key K) (item V, exists bool) {
	t.lock.Lock()
	defer t.lock.Unlock()
	it := t.items.Find(key)
	if it.IsEnd() {
		return item, false
	}
	item = it.Val()
	t.items.EraseAt(it)
	return item, true
}

func (t *threadSafeOrderedMap[K, V]) Get(key K) (item V, exists bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Get(key)
}

func (t *threadSafeOrderedMap[K, V]) Contains(key K) bool {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Contains(key)
}

func (t *threadSafeOrderedMap[K, V]) Len() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.items.Len()
}

func (t *threadSafeOrderedMap[K, V]) ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K {
	realFilters := lo.Filter(filters, func(filter SafeStoreKeyFilterFunc[K], _ int) bool {
		return filter != nil
	})
	if len(realFilters) == 0 {
		realFilters = append(realFilters, defaultAllKeysFilter[K])
	}

	t.lock.RLock()
	defer t.lock.RUnlock()

	keys := make([]K, 0, t.items.Len())
	for key := range t.items.Keys() {
		if lo.ContainsBy(realFilters, func(filter SafeStoreKeyFilterFunc[K]) bool {
			return filter(key)
		}) {
			keys = append(keys, key)
		}
	}
	return keys
}

func (t *threadSafeOrderedMap[K, V]) ListValues(keys ...K) (items []V) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if len(keys) == 0 {
		values := make([]V, 0, t.items.Len())
		for item := range t.items.Values() {
			values = append(values, item)
		}
		return values
	}

	// Dedup and key order, same as the full listing.
	wanted := NewOrderedSetFunc[K](t.items.KeyComparator())
	for _, key := range keys {
		if t.items.Contains(key) {
			wanted.Insert(key)
		}
	}
	values := make([]V, 0, wanted.Len())
	for key := range wanted.All() {
		item, _ := t.items.Get(key)
		values = append(values, item)
	}
	return values
}

// Floor is the greatest key not greater than key.
func (t *threadSafeOrderedMap[K, V]) Floor(key K) (K, V, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	it := t.items.UpperBound(key).Prev()
	if it.IsEnd() {
		return *new(K), *new(V), false
	}
	return it.Key(), it.Val(), true
}

// Ceiling is the least key not less than key.
func (t *threadSafeOrderedMap[K, V]) Ceiling(key K) (K, V, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	it := t.items.LowerBound(key)
	if it.IsEnd() {
		return *new(K), *new(V), false
	}
	return it.Key(), it.Val(), true
}

// Range holds the read lock during the whole iteration, fn must not
// call back into the map.
func (t *threadSafeOrderedMap[K, V]) Range(fn func(key K, val V) bool) {
	if fn == nil {
		return
	}
	t.lock.RLock()
	defer t.lock.RUnlock()
	for key, val := range t.items.All() {
		if !fn(key, val) {
			return
		}
	}
}

func isNilItem(item any) bool {
	if item == nil {
		return true
	}
	v := reflect.ValueOf(item)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
	}
	return false
}

// Purge closes all the closable items and empties the map. The close
// errors are combined, the map is emptied anyway.
func (t *threadSafeOrderedMap[K, V]) Purge() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	var merr error
	if t.isClosableItem {
		for key, item := range t.items.All() {
			if isNilItem(item) {
				continue
			}
			closer, ok := any(item).(io.Closer)
			if !ok {
				continue
			}
			if err := closer.Close(); err != nil {
				merr = multierr.Append(merr, err)
				if t.logger != nil {
					t.logger.Error(err, "purge close item", zap.Any("key", key))
				}
			}
		}
	}
	t.items.Clear()
	if merr != nil {
		return infra.WrapErrorStackWithMessage(merr, "[xmap] purge")
	}
	return nil
}

type threadSafeOptions[K comparable, V any] struct {
	ordered    []OrderedOption[K]
	closeCheck bool
	logger     xlog.XLogger
}

type ThreadSafeOption[K comparable, V any] func(*threadSafeOptions[K, V])

// WithThreadSafeMapCloseableItemCheck forces the io.Closer check on
// Purge. Without it the check follows the static type of V.
func WithThreadSafeMapCloseableItemCheck[K comparable, V any]() ThreadSafeOption[K, V] {
	return func(opts *threadSafeOptions[K, V]) {
		opts.closeCheck = true
	}
}

func WithThreadSafeMapLogger[K comparable, V any](logger xlog.XLogger) ThreadSafeOption[K, V] {
	return func(opts *threadSafeOptions[K, V]) {
		if logger != nil {
			opts.logger = logger.Named("xmap")
		}
	}
}

func WithThreadSafeMapOrderedOptions[K comparable, V any](ordered ...OrderedOption[K]) ThreadSafeOption[K, V] {
	return func(opts *threadSafeOptions[K, V]) {
		opts.ordered = append(opts.ordered, ordered...)
	}
}

func newThreadSafeOrderedMap[K comparable, V any](
	newMap func(opts ...OrderedOption[K]) *OrderedMap[K, V],
	opts ...ThreadSafeOption[K, V],
) ThreadSafeOrderedStorer[K, V] {
	cfg := &threadSafeOptions[K, V]{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	// Interface values are checked one by one on Purge.
	typ := reflect.TypeOf((*V)(nil)).Elem()
	return &threadSafeOrderedMap[K, V]{
		items:          newMap(cfg.ordered...),
		isClosableItem: cfg.closeCheck || typ.Kind() == reflect.Interface || typ.Implements(closerType),
		logger:         cfg.logger,
	}
}

func NewThreadSafeOrderedMap[K infra.OrderedKey, V any](opts ...ThreadSafeOption[K, V]) ThreadSafeOrderedStorer[K, V] {
	return newThreadSafeOrderedMap[K, V](NewOrderedMap[K, V], opts...)
}

// NewThreadSafeOrderedMapFunc panics if cmp is nil.
func NewThreadSafeOrderedMapFunc[K comparable, V any](cmp infra.OrderedKeyComparator[K], opts ...ThreadSafeOption[K, V]) ThreadSafeOrderedStorer[K, V] {
	return newThreadSafeOrderedMap[K, V](func(ordered ...OrderedOption[K]) *OrderedMap[K, V] {
		return NewOrderedMapFunc[K, V](cmp, ordered...)
	}, opts...)
}
