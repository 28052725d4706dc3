package tree

import (
	"go.uber.org/multierr"

	"github.com/benz9527/xordered/lib/infra"
)

func isRoot[E any](node, nilLeaf *rbNode[E]) bool {
	return node != nilLeaf && node.parent == nilLeaf
}

func blackDepthTo[E any](target, to *rbNode[E]) int {
	depth := 0
	for aux := target; aux != to; aux = aux.parent {
		if aux.isBlack() {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate there is no red node with a red child.
func RedViolationValidate[K, E any](tree RBTree[K, E]) error {
	nilLeaf := tree.nilLeaf()
	if !nilLeaf.isBlack() {
		return ErrRBTreeRedViolation
	}
	for aux := tree.Begin(); !aux.IsEnd(); aux = aux.Next() {
		if x := aux.node; x.isRed() {
			if (!isRoot(x, nilLeaf) && x.parent.isRed()) || x.left.isRed() || x.right.isRed() {
				return ErrRBTreeRedViolation
			}
		}
	}
	return nil
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
Every node missing a child is the parent of a nil leaf, so comparing
their depths covers all the root-to-leaf paths.
*/
func BlackViolationValidate[K, E any](tree RBTree[K, E]) error {
	nilLeaf := tree.nilLeaf()
	blackDepth := -1
	for aux := tree.Begin(); !aux.IsEnd(); aux = aux.Next() {
		x := aux.node
		if x.left != nilLeaf && x.right != nilLeaf {
			continue
		}
		depth := blackDepthTo(x, nilLeaf)
		if blackDepth < 0 {
			blackDepth = depth
		} else if depth != blackDepth {
			return ErrRBTreeBlackViolation
		}
	}
	return nil
}

func RootColorValidate[K, E any](tree RBTree[K, E]) error {
	if root := tree.root(); root != tree.nilLeaf() && !root.isBlack() {
		return ErrRBTreeRootViolation
	}
	return nil
}

// OrderViolationValidate checks the strictly ascending inorder sequence,
// the parent back links and the size counter.
func OrderViolationValidate[K, E any](tree RBTree[K, E]) error {
	nilLeaf := tree.nilLeaf()
	if root := tree.root(); root != nilLeaf && root.parent != nilLeaf {
		return ErrRBTreeLinkViolation
	}
	cmp := tree.KeyComparator()
	count := int64(0)
	var prev *rbNode[E]
	for aux := tree.Begin(); !aux.IsEnd(); aux = aux.Next() {
		x := aux.node
		if (x.left != nilLeaf && x.left.parent != x) || (x.right != nilLeaf && x.right.parent != x) {
			return ErrRBTreeLinkViolation
		}
		if prev != nil && cmp(tree.KeyOf(prev.elem), tree.KeyOf(x.elem)) >= 0 {
			return ErrRBTreeOrderViolation
		}
		prev = x
		count++
	}
	if count != tree.Len() {
		return infra.WrapErrorStackWithMessage(ErrRBTreeOrderViolation, "size counter mismatch")
	}
	return nil
}

// Validate combines all the property violations of the tree.
func Validate[K, E any](tree RBTree[K, E]) error {
	return multierr.Combine(
		RootColorValidate(tree),
		RedViolationValidate(tree),
		BlackViolationValidate(tree),
		OrderViolationValidate(tree),
	)
}

// Compare is the lexicographical comparison of the inorder sequences.
// The empty sequence is less than any non-empty one and a strict
// prefix is less than the longer sequence.
func Compare[K, E any](a, b RBTree[K, E], cmp func(x, y E) int) int {
	i, j := a.Begin(), b.Begin()
	for ; !i.IsEnd() && !j.IsEnd(); i, j = i.Next(), j.Next() {
		if res := cmp(i.node.elem, j.node.elem); res != 0 {
			return res
		}
	}
	switch {
	case i.IsEnd() && j.IsEnd():
		return 0
	case i.IsEnd():
		return -1
	default:
	}
	return 1
}

func Equal[K, E any](a, b RBTree[K, E], eq func(x, y E) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, j := a.Begin(), b.Begin(); !i.IsEnd(); i, j = i.Next(), j.Next() {
		if !eq(i.node.elem, j.node.elem) {
			return false
		}
	}
	return true
}

func NotEqual[K, E any](a, b RBTree[K, E], eq func(x, y E) bool) bool {
	return !Equal(a, b, eq)
}

func Less[K, E any](a, b RBTree[K, E], cmp func(x, y E) int) bool {
	return Compare(a, b, cmp) < 0
}

func LessOrEqual[K, E any](a, b RBTree[K, E], cmp func(x, y E) int) bool {
	return Compare(a, b, cmp) <= 0
}

func Greater[K, E any](a, b RBTree[K, E], cmp func(x, y E) int) bool {
	return Compare(a, b, cmp) > 0
}

func GreaterOrEqual[K, E any](a, b RBTree[K, E], cmp func(x, y E) int) bool {
	return Compare(a, b, cmp) >= 0
}
