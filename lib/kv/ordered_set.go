package kv

import (
	"iter"

	"github.com/benz9527/xordered/lib/infra"
	"github.com/benz9527/xordered/lib/tree"
)

type SetIterator[K any] struct {
	it tree.Cursor[K]
}

func (it SetIterator[K]) IsEnd() bool                     { return it.it.IsEnd() }
func (it SetIterator[K]) Key() K                          { return it.it.Element() }
func (it SetIterator[K]) Next() SetIterator[K]            { return SetIterator[K]{it: it.it.Next()} }
func (it SetIterator[K]) Prev() SetIterator[K]            { return SetIterator[K]{it: it.it.Prev()} }
func (it SetIterator[K]) Equal(that SetIterator[K]) bool { return it.it.Equal(that.it) }

type SetReverseIterator[K any] struct {
	it tree.ReverseCursor[K]
}

func (it SetReverseIterator[K]) IsEnd() bool { return it.it.IsEnd() }
func (it SetReverseIterator[K]) Key() K      { return it.it.Element() }
func (it SetReverseIterator[K]) Base() SetIterator[K] {
	return SetIterator[K]{it: it.it.Base()}
}
func (it SetReverseIterator[K]) Next() SetReverseIterator[K] {
	return SetReverseIterator[K]{it: it.it.Next()}
}
func (it SetReverseIterator[K]) Prev() SetReverseIterator[K] {
	return SetReverseIterator[K]{it: it.it.Prev()}
}
func (it SetReverseIterator[K]) Equal(that SetReverseIterator[K]) bool {
	return it.it.Equal(that.it)
}

// OrderedSet is OrderedMap without payload, the element is the key.
type OrderedSet[K any] struct {
	tree tree.RBTree[K, K]
}

func (s *OrderedSet[K]) wrap(it tree.Cursor[K]) SetIterator[K] {
	return SetIterator[K]{it: it}
}

func (s *OrderedSet[K]) Len() int64   { return s.tree.Len() }
func (s *OrderedSet[K]) IsEmpty() bool { return s.tree.IsEmpty() }
func (s *OrderedSet[K]) Clear()        { s.tree.Clear() }

func (s *OrderedSet[K]) Insert(key K) (SetIterator[K], bool) {
	it, ok := s.tree.Insert(key)
	return s.wrap(it), ok
}

func (s *OrderedSet[K]) InsertHint(hint SetIterator[K], key K) (SetIterator[K], bool) {
	it, ok := s.tree.InsertHint(hint.it, key)
	return s.wrap(it), ok
}

func (s *OrderedSet[K]) InsertRange(seq iter.Seq[K]) {
	if seq == nil {
		return
	}
	for key := range seq {
		s.tree.InsertHint(s.tree.End(), key)
	}
}

func (s *OrderedSet[K]) Erase(key K) bool {
	return s.tree.Erase(key)
}

func (s *OrderedSet[K]) EraseAt(it SetIterator[K]) SetIterator[K] {
	return s.wrap(s.tree.EraseAt(it.it))
}

func (s *OrderedSet[K]) EraseRange(first, last SetIterator[K]) SetIterator[K] {
	return s.wrap(s.tree.EraseRange(first.it, last.it))
}

func (s *OrderedSet[K]) Find(key K) SetIterator[K] {
	return s.wrap(s.tree.Search(key))
}

func (s *OrderedSet[K]) Count(key K) int64 {
	return s.tree.Count(key)
}

func (s *OrderedSet[K]) Contains(key K) bool {
	return s.tree.Contains(key)
}

func (s *OrderedSet[K]) LowerBound(key K) SetIterator[K] {
	return s.wrap(s.tree.LowerBound(key))
}

func (s *OrderedSet[K]) UpperBound(key K) SetIterator[K] {
	return s.wrap(s.tree.UpperBound(key))
}

func (s *OrderedSet[K]) EqualRange(key K) (SetIterator[K], SetIterator[K]) {
	first, last := s.tree.EqualRange(key)
	return s.wrap(first), s.wrap(last)
}

func (s *OrderedSet[K]) KeyComparator() infra.OrderedKeyComparator[K] {
	return s.tree.KeyComparator()
}

// ValueComparator is the key comparator, the element is the key.
func (s *OrderedSet[K]) ValueComparator() infra.OrderedKeyComparator[K] {
	return s.tree.KeyComparator()
}

func (s *OrderedSet[K]) Swap(other *OrderedSet[K]) {
	if other == nil || other == s {
		return
	}
	s.tree.Swap(other.tree)
}

func (s *OrderedSet[K]) Clone() *OrderedSet[K] {
	return &OrderedSet[K]{tree: s.tree.Clone()}
}

func (s *OrderedSet[K]) Begin() SetIterator[K] { return s.wrap(s.tree.Begin()) }
func (s *OrderedSet[K]) End() SetIterator[K]   { return s.wrap(s.tree.End()) }

func (s *OrderedSet[K]) RBegin() SetReverseIterator[K] {
	return SetReverseIterator[K]{it: s.tree.RBegin()}
}

func (s *OrderedSet[K]) REnd() SetReverseIterator[K] {
	return SetReverseIterator[K]{it: s.tree.REnd()}
}

func (s *OrderedSet[K]) All() iter.Seq[K] {
	return s.tree.All()
}

func (s *OrderedSet[K]) Backward() iter.Seq[K] {
	return s.tree.Backward()
}

func newOrderedSet[K any](cfg *orderedOptions[K]) *OrderedSet[K] {
	return &OrderedSet[K]{
		tree: tree.NewRBTree[K, K](tree.IdentityKey[K]{}, treeOptions[K, K](cfg)...),
	}
}

func NewOrderedSet[K infra.OrderedKey](opts ...OrderedOption[K]) *OrderedSet[K] {
	opts = append([]OrderedOption[K]{
		WithOrderedKeyComparator[K](infra.DefaultOrderedKeyComparator[K]()),
	}, opts...)
	return newOrderedSet[K](applyOrderedOptions(opts))
}

// NewOrderedSetFunc panics if cmp is nil.
func NewOrderedSetFunc[K any](cmp infra.OrderedKeyComparator[K], opts ...OrderedOption[K]) *OrderedSet[K] {
	opts = append([]OrderedOption[K]{
		WithOrderedKeyComparator[K](cmp),
	}, opts...)
	return newOrderedSet[K](applyOrderedOptions(opts))
}

func NewOrderedSetFrom[K infra.OrderedKey](seq iter.Seq[K], opts ...OrderedOption[K]) *OrderedSet[K] {
	s := NewOrderedSet[K](opts...)
	s.InsertRange(seq)
	return s
}

// SetCompare is the lexicographical comparison of the key sequences by
// a's comparator.
func SetCompare[K any](a, b *OrderedSet[K]) int {
	keyCmp := a.KeyComparator()
	return tree.Compare(a.tree, b.tree, func(x, y K) int {
		if res := keyCmp(x, y); res < 0 {
			return -1
		} else if res > 0 {
			return 1
		}
		return 0
	})
}

func SetEqual[K any](a, b *OrderedSet[K]) bool {
	keyCmp := a.KeyComparator()
	return tree.Equal(a.tree, b.tree, func(x, y K) bool {
		return keyCmp(x, y) == 0
	})
}

func SetNotEqual[K any](a, b *OrderedSet[K]) bool       { return !SetEqual(a, b) }
func SetLess[K any](a, b *OrderedSet[K]) bool           { return SetCompare(a, b) < 0 }
func SetLessOrEqual[K any](a, b *OrderedSet[K]) bool    { return SetCompare(a, b) <= 0 }
func SetGreater[K any](a, b *OrderedSet[K]) bool        { return SetCompare(a, b) > 0 }
func SetGreaterOrEqual[K any](a, b *OrderedSet[K]) bool { return SetCompare(a, b) >= 0 }
