package kv

import (
	"iter"

	"github.com/benz9527/xordered/lib/infra"
	"github.com/benz9527/xordered/lib/internal/access"
	"github.com/benz9527/xordered/lib/tree"
)

// MapIterator is a position in an OrderedMap, End() is the
// position after the last pair.
type MapIterator[K, V any] struct {
	it tree.Cursor[Pair[K, V]]
}

func (it MapIterator[K, V]) IsEnd() bool {
	return it.it.IsEnd()
}

func (it MapIterator[K, V]) Key() K {
	return it.it.Element().Key
}

func (it MapIterator[K, V]) Val() V {
	return it.it.Element().Val
}

func (it MapIterator[K, V]) Pair() Pair[K, V] {
	return it.it.Element()
}

// ValRef is valid until the pair is erased.
func (it MapIterator[K, V]) ValRef() *V {
	return &it.it.ElementRef(access.Token{}).Val
}

func (it MapIterator[K, V]) SetVal(val V) {
	it.it.ElementRef(access.Token{}).Val = val
}

func (it MapIterator[K, V]) Next() MapIterator[K, V] {
	return MapIterator[K, V]{it: it.it.Next()}
}

func (it MapIterator[K, V]) Prev() MapIterator[K, V] {
	return MapIterator[K, V]{it: it.it.Prev()}
}

func (it MapIterator[K, V]) Equal(that MapIterator[K, V]) bool {
	return it.it.Equal(that.it)
}

type MapReverseIterator[K, V any] struct {
	it tree.ReverseCursor[Pair[K, V]]
}

func (it MapReverseIterator[K, V]) IsEnd() bool {
	return it.it.IsEnd()
}

func (it MapReverseIterator[K, V]) Key() K {
	return it.it.Element().Key
}

func (it MapReverseIterator[K, V]) Val() V {
	return it.it.Element().Val
}

func (it MapReverseIterator[K, V]) Base() MapIterator[K, V] {
	return MapIterator[K, V]{it: it.it.Base()}
}

func (it MapReverseIterator[K, V]) Next() MapReverseIterator[K, V] {
	return MapReverseIterator[K, V]{it: it.it.Next()}
}

func (it MapReverseIterator[K, V]) Prev() MapReverseIterator[K, V] {
	return MapReverseIterator[K, V]{it: it.it.Prev()}
}

func (it MapReverseIterator[K, V]) Equal(that MapReverseIterator[K, V]) bool {
	return it.it.Equal(that.it)
}

// OrderedMap keeps unique keys in the comparator order. It is not
// safe for concurrent use, see NewThreadSafeOrderedMap.
type OrderedMap[K, V any] struct {
	tree tree.RBTree[K, Pair[K, V]]
}

func (m *OrderedMap[K, V]) wrap(it tree.Cursor[Pair[K, V]]) MapIterator[K, V] {
	return MapIterator[K, V]{it: it}
}

func (m *OrderedMap[K, V]) Len() int64 {
	return m.tree.Len()
}

func (m *OrderedMap[K, V]) IsEmpty() bool {
	return m.tree.IsEmpty()
}

func (m *OrderedMap[K, V]) Clear() {
	m.tree.Clear()
}

// Insert keeps the existing value if key is already present.
func (m *OrderedMap[K, V]) Insert(key K, val V) (MapIterator[K, V], bool) {
	it, ok := m.tree.Insert(Pair[K, V]{Key: key, Val: val})
	return m.wrap(it), ok
}

func (m *OrderedMap[K, V]) InsertHint(hint MapIterator[K, V], key K, val V) (MapIterator[K, V], bool) {
	it, ok := m.tree.InsertHint(hint.it, Pair[K, V]{Key: key, Val: val})
	return m.wrap(it), ok
}

// InsertOrAssign keeps the stored key of an equivalent key, only the
// value is assigned.
func (m *OrderedMap[K, V]) InsertOrAssign(key K, val V) (MapIterator[K, V], bool) {
	it, ok := m.tree.InsertOrAssign(Pair[K, V]{Key: key, Val: val}, assignPairVal[K, V])
	return m.wrap(it), ok
}

// InsertRange appends at the end hint, so sorted input skips the descent.
func (m *OrderedMap[K, V]) InsertRange(seq iter.Seq2[K, V]) {
	if seq == nil {
		return
	}
	for key, val := range seq {
		m.tree.InsertHint(m.tree.End(), Pair[K, V]{Key: key, Val: val})
	}
}

func (m *OrderedMap[K, V]) InsertPairs(pairs ...Pair[K, V]) {
	for _, p := range pairs {
		m.tree.InsertHint(m.tree.End(), p)
	}
}

func (m *OrderedMap[K, V]) Erase(key K) bool {
	return m.tree.Erase(key)
}

func (m *OrderedMap[K, V]) EraseAt(it MapIterator[K, V]) MapIterator[K, V] {
	return m.wrap(m.tree.EraseAt(it.it))
}

func (m *OrderedMap[K, V]) EraseRange(first, last MapIterator[K, V]) MapIterator[K, V] {
	return m.wrap(m.tree.EraseRange(first.it, last.it))
}

func (m *OrderedMap[K, V]) Find(key K) MapIterator[K, V] {
	return m.wrap(m.tree.Search(key))
}

func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	it := m.tree.Search(key)
	if it.IsEnd() {
		return *new(V), false
	}
	return it.Element().Val, true
}

func (m *OrderedMap[K, V]) Count(key K) int64 {
	return m.tree.Count(key)
}

func (m *OrderedMap[K, V]) Contains(key K) bool {
	return m.tree.Contains(key)
}

func (m *OrderedMap[K, V]) LowerBound(key K) MapIterator[K, V] {
	return m.wrap(m.tree.LowerBound(key))
}

func (m *OrderedMap[K, V]) UpperBound(key K) MapIterator[K, V] {
	return m.wrap(m.tree.UpperBound(key))
}

func (m *OrderedMap[K, V]) EqualRange(key K) (MapIterator[K, V], MapIterator[K, V]) {
	first, last := m.tree.EqualRange(key)
	return m.wrap(first), m.wrap(last)
}

func (m *OrderedMap[K, V]) KeyComparator() infra.OrderedKeyComparator[K] {
	return m.tree.KeyComparator()
}

// ValueComparator orders the stored pairs by their keys only.
func (m *OrderedMap[K, V]) ValueComparator() func(a, b Pair[K, V]) int64 {
	cmp := m.tree.KeyComparator()
	return func(a, b Pair[K, V]) int64 {
		return cmp(a.Key, b.Key)
	}
}

// Index returns the value slot of key, the zero value is inserted
// first if key is absent.
func (m *OrderedMap[K, V]) Index(key K) *V {
	pos := m.tree.LowerBound(key)
	if pos.IsEnd() || m.tree.KeyComparator()(key, pos.Element().Key) < 0 {
		pos, _ = m.tree.InsertHint(pos, Pair[K, V]{Key: key})
	}
	return &pos.ElementRef(access.Token{}).Val
}

func (m *OrderedMap[K, V]) At(key K) (V, error) {
	it := m.tree.Search(key)
	if it.IsEnd() {
		return *new(V), infra.WrapErrorStackWithMessage(ErrOutOfRange, "[xmap] at")
	}
	return it.Element().Val, nil
}

func (m *OrderedMap[K, V]) Swap(other *OrderedMap[K, V]) {
	if other == nil || other == m {
		return
	}
	m.tree.Swap(other.tree)
}

func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{tree: m.tree.Clone()}
}

func (m *OrderedMap[K, V]) Begin() MapIterator[K, V] {
	return m.wrap(m.tree.Begin())
}

func (m *OrderedMap[K, V]) End() MapIterator[K, V] {
	return m.wrap(m.tree.End())
}

func (m *OrderedMap[K, V]) RBegin() MapReverseIterator[K, V] {
	return MapReverseIterator[K, V]{it: m.tree.RBegin()}
}

func (m *OrderedMap[K, V]) REnd() MapReverseIterator[K, V] {
	return MapReverseIterator[K, V]{it: m.tree.REnd()}
}

func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for p := range m.tree.All() {
			if !yield(p.Key, p.Val) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for p := range m.tree.Backward() {
			if !yield(p.Key, p.Val) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for p := range m.tree.All() {
			if !yield(p.Key) {
				return
			}
		}
	}
}

func (m *OrderedMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for p := range m.tree.All() {
			if !yield(p.Val) {
				return
			}
		}
	}
}

func newOrderedMap[K, V any](cfg *orderedOptions[K]) *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		tree: tree.NewRBTree[K, Pair[K, V]](pairFirstKey[K, V]{}, treeOptions[K, Pair[K, V]](cfg)...),
	}
}

func NewOrderedMap[K infra.OrderedKey, V any](opts ...OrderedOption[K]) *OrderedMap[K, V] {
	opts = append([]OrderedOption[K]{
		WithOrderedKeyComparator[K](infra.DefaultOrderedKeyComparator[K]()),
	}, opts...)
	return newOrderedMap[K, V](applyOrderedOptions(opts))
}

// NewOrderedMapFunc panics if cmp is nil.
func NewOrderedMapFunc[K, V any](cmp infra.OrderedKeyComparator[K], opts ...OrderedOption[K]) *OrderedMap[K, V] {
	opts = append([]OrderedOption[K]{
		WithOrderedKeyComparator[K](cmp),
	}, opts...)
	return newOrderedMap[K, V](applyOrderedOptions(opts))
}

// NewOrderedMapFrom keeps the first value of a repeated key.
func NewOrderedMapFrom[K infra.OrderedKey, V any](seq iter.Seq2[K, V], opts ...OrderedOption[K]) *OrderedMap[K, V] {
	m := NewOrderedMap[K, V](opts...)
	m.InsertRange(seq)
	return m
}

// PairsSeq adapts a pair slice to the range based construction.
func PairsSeq[K, V any](pairs ...Pair[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, p := range pairs {
			if !yield(p.Key, p.Val) {
				return
			}
		}
	}
}

// MapCompare is the lexicographical comparison of the pair sequences,
// keys by a's comparator, then values by valCmp.
func MapCompare[K, V any](a, b *OrderedMap[K, V], valCmp func(x, y V) int) int {
	keyCmp := a.KeyComparator()
	return tree.Compare(a.tree, b.tree, func(x, y Pair[K, V]) int {
		if res := keyCmp(x.Key, y.Key); res < 0 {
			return -1
		} else if res > 0 {
			return 1
		}
		return valCmp(x.Val, y.Val)
	})
}

func MapEqual[K, V any](a, b *OrderedMap[K, V], valEq func(x, y V) bool) bool {
	keyCmp := a.KeyComparator()
	return tree.Equal(a.tree, b.tree, func(x, y Pair[K, V]) bool {
		return keyCmp(x.Key, y.Key) == 0 && valEq(x.Val, y.Val)
	})
}

func MapNotEqual[K, V any](a, b *OrderedMap[K, V], valEq func(x, y V) bool) bool {
	return !MapEqual(a, b, valEq)
}

func MapLess[K, V any](a, b *OrderedMap[K, V], valCmp func(x, y V) int) bool {
	return MapCompare(a, b, valCmp) < 0
}

func MapLessOrEqual[K, V any](a, b *OrderedMap[K, V], valCmp func(x, y V) int) bool {
	return MapCompare(a, b, valCmp) <= 0
}

func MapGreater[K, V any](a, b *OrderedMap[K, V], valCmp func(x, y V) int) bool {
	return MapCompare(a, b, valCmp) > 0
}

func MapGreaterOrEqual[K, V any](a, b *OrderedMap[K, V], valCmp func(x, y V) int) bool {
	return MapCompare(a, b, valCmp) >= 0
}
