package tree

import (
	"iter"

	"github.com/benz9527/xordered/lib/infra"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor
type RBColor uint8

const (
	Black RBColor = iota
	Red
)

//go:generate stringer -type=RBDirection
type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (dir RBDirection) opposite() RBDirection {
	return -dir
}

// KeyExtractor derives the ordering key from a stored element.
// Sets store the key itself, maps store a pair and order by its first half.
type KeyExtractor[K, E any] interface {
	KeyOf(elem E) K
}

type KeyExtractorFunc[K, E any] func(elem E) K

func (fn KeyExtractorFunc[K, E]) KeyOf(elem E) K {
	return fn(elem)
}

// IdentityKey is the extractor of containers whose element is the key.
type IdentityKey[K any] struct{}

func (IdentityKey[K]) KeyOf(elem K) K {
	return elem
}

// RBNode is a read-only view of a tree vertex. The nil leaves are
// reported as nil, so the view never exposes the tree sentinel.
type RBNode[E any] interface {
	Element() E
	Color() RBColor
	Left() RBNode[E]
	Right() RBNode[E]
	Parent() RBNode[E]
}

type RBTree[K, E any] interface {
	Len() int64
	IsEmpty() bool
	Root() RBNode[E]
	KeyOf(elem E) K
	KeyComparator() infra.OrderedKeyComparator[K]

	// Insert never overwrites the element of an equal key.
	Insert(elem E) (Cursor[E], bool)
	// InsertHint skips the descent if elem fits right next to hint.
	// A misleading hint costs a full descent, never correctness.
	InsertHint(hint Cursor[E], elem E) (Cursor[E], bool)
	InsertOrAssign(elem E, assign func(stored *E, elem E)) (Cursor[E], bool)
	Erase(key K) bool
	// EraseAt returns the successor of pos. Only cursors to pos are invalidated.
	EraseAt(pos Cursor[E]) Cursor[E]
	EraseRange(first, last Cursor[E]) Cursor[E]
	PopMin() (E, bool)
	PopMax() (E, bool)

	Search(key K) Cursor[E]
	Contains(key K) bool
	Count(key K) int64
	LowerBound(key K) Cursor[E]
	UpperBound(key K) Cursor[E]
	EqualRange(key K) (Cursor[E], Cursor[E])

	Begin() Cursor[E]
	End() Cursor[E]
	Min() Cursor[E]
	Max() Cursor[E]
	RBegin() ReverseCursor[E]
	REnd() ReverseCursor[E]
	Foreach(action func(idx int64, color RBColor, elem E) bool)
	All() iter.Seq[E]
	Backward() iter.Seq[E]

	Clear()
	Release()
	Clone() RBTree[K, E]
	Swap(other RBTree[K, E])

	root() *rbNode[E]
	nilLeaf() *rbNode[E]
}
