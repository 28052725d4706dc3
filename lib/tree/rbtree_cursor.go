package tree

import (
	"github.com/benz9527/xordered/lib/internal/access"
)

// Cursor is a position in a tree. It holds the node and the tree's
// nil leaf, End() is the cursor on the nil leaf itself.
//
// Rotations only move the links between nodes, so a cursor stays
// valid until its own node is erased. Using a cursor after that or
// dereferencing End() are precondition violations.
type Cursor[E any] struct {
	node    *rbNode[E]
	nilLeaf *rbNode[E]
}

func (it Cursor[E]) IsEnd() bool {
	return it.node == nil || it.node == it.nilLeaf
}

// Valid reports whether the cursor points to a linked element.
// Erased nodes have nil links.
func (it Cursor[E]) Valid() bool {
	return !it.IsEnd() && it.node.parent != nil
}

func (it Cursor[E]) Element() E {
	if it.IsEnd() {
		panic( /* debug assertion */ "[rbtree] dereference the end cursor")
	}
	return it.node.elem
}

// elemRef lets the adapters mutate the payload half in place.
// The key half must never be changed through it.
func (it Cursor[E]) elemRef() *E {
	if it.IsEnd() {
		panic( /* debug assertion */ "[rbtree] dereference the end cursor")
	}
	return &it.node.elem
}

func (it Cursor[E]) Color() RBColor {
	if it.IsEnd() {
		return Black
	}
	return it.node.color
}

func (it Cursor[E]) Next() Cursor[E] {
	if it.IsEnd() {
		return it
	}
	return Cursor[E]{node: successor(it.node, it.nilLeaf), nilLeaf: it.nilLeaf}
}

// Prev of End() is the maximum, Prev of Begin() is End().
func (it Cursor[E]) Prev() Cursor[E] {
	if it.node == nil {
		return it
	}
	return Cursor[E]{node: predecessor(it.node, it.nilLeaf), nilLeaf: it.nilLeaf}
}

// Equal compares positions, not elements.
func (it Cursor[E]) Equal(that Cursor[E]) bool {
	if it.IsEnd() && that.IsEnd() {
		return it.nilLeaf == that.nilLeaf
	}
	return it.node == that.node
}

// ElementRef exposes the stored element to the adapters for in-place
// updates of the payload half. The key half must stay equivalent.
func (it Cursor[E]) ElementRef(_ access.Token) *E {
	return it.elemRef()
}

// ReverseCursor dereferences the element before its base, so
// RBegin() wraps End() and REnd() wraps Begin().
type ReverseCursor[E any] struct {
	base Cursor[E]
}

func NewReverseCursor[E any](base Cursor[E]) ReverseCursor[E] {
	return ReverseCursor[E]{base: base}
}

func (it ReverseCursor[E]) Base() Cursor[E] {
	return it.base
}

func (it ReverseCursor[E]) IsEnd() bool {
	return it.base.Prev().IsEnd()
}

func (it ReverseCursor[E]) Element() E {
	return it.base.Prev().Element()
}

func (it ReverseCursor[E]) Cursor() Cursor[E] {
	return it.base.Prev()
}

func (it ReverseCursor[E]) Next() ReverseCursor[E] {
	return ReverseCursor[E]{base: it.base.Prev()}
}

func (it ReverseCursor[E]) Prev() ReverseCursor[E] {
	return ReverseCursor[E]{base: it.base.Next()}
}

func (it ReverseCursor[E]) Equal(that ReverseCursor[E]) bool {
	return it.base.Equal(that.base)
}

type rbNodeRef[E any] struct {
	node    *rbNode[E]
	nilLeaf *rbNode[E]
}

func (ref rbNodeRef[E]) wrap(node *rbNode[E]) RBNode[E] {
	if node == nil || node == ref.nilLeaf {
		return nil
	}
	return rbNodeRef[E]{node: node, nilLeaf: ref.nilLeaf}
}

func (ref rbNodeRef[E]) Element() E        { return ref.node.elem }
func (ref rbNodeRef[E]) Color() RBColor    { return ref.node.color }
func (ref rbNodeRef[E]) Left() RBNode[E]   { return ref.wrap(ref.node.left) }
func (ref rbNodeRef[E]) Right() RBNode[E]  { return ref.wrap(ref.node.right) }
func (ref rbNodeRef[E]) Parent() RBNode[E] { return ref.wrap(ref.node.parent) }
