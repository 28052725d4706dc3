package tree

import (
	"errors"
	"iter"

	"go.uber.org/zap"

	"github.com/benz9527/xordered/lib/infra"
	"github.com/benz9527/xordered/lib/xlog"
)

var (
	ErrRBTreeRedViolation   = errors.New("[rbtree] red violation")
	ErrRBTreeBlackViolation = errors.New("[rbtree] black violation")
	ErrRBTreeRootViolation  = errors.New("[rbtree] root is not black")
	ErrRBTreeOrderViolation = errors.New("[rbtree] bst order violation")
	ErrRBTreeLinkViolation  = errors.New("[rbtree] parent link violation")
)

type rbNode[E any] struct {
	parent *rbNode[E] // back reference only
	left   *rbNode[E]
	right  *rbNode[E]
	elem   E
	color  RBColor
}

func (node *rbNode[E]) isRed() bool {
	return node.color == Red
}

func (node *rbNode[E]) isBlack() bool {
	return node.color == Black
}

func (node *rbNode[E]) child(dir RBDirection) *rbNode[E] {
	if dir == Left {
		return node.left
	}
	return node.right
}

func (node *rbNode[E]) direction() RBDirection {
	if node == node.parent.left {
		return Left
	}
	return Right
}

func minimum[E any](x, nilLeaf *rbNode[E]) *rbNode[E] {
	for x.left != nilLeaf {
		x = x.left
	}
	return x
}

func maximum[E any](x, nilLeaf *rbNode[E]) *rbNode[E] {
	for x.right != nilLeaf {
		x = x.right
	}
	return x
}

// The succ node of the current node is its next node in sorted order.
// The nil leaf is returned after the maximum.
func successor[E any](x, nilLeaf *rbNode[E]) *rbNode[E] {
	if x.right != nilLeaf {
		return minimum(x.right, nilLeaf)
	}
	// Backtrack to the first father reached through a left link.
	y := x.parent
	for y != nilLeaf && x == y.right {
		x = y
		y = y.parent
	}
	return y
}

// The pred node of the current node is its previous node in sorted order.
// The nil leaf itself steps back to the maximum.
func predecessor[E any](x, nilLeaf *rbNode[E]) *rbNode[E] {
	if x == nilLeaf {
		if root := nilLeaf.left; root != nilLeaf {
			return maximum(root, nilLeaf)
		}
		return nilLeaf
	}
	if x.left != nilLeaf {
		return maximum(x.left, nilLeaf)
	}
	y := x.parent
	for y != nilLeaf && x == y.left {
		x = y
		y = y.parent
	}
	return y
}

var _ RBTree[int, int] = (*rbTree[int, int])(nil)

// The sentinel is the single nil leaf of one tree instance. It is
// black, stands in for every absent child and for the parent of the
// root, and is the End() position. Its left link anchors the root so
// that rotations and transplants at the root need no special case.
type rbTree[K, E any] struct {
	sentinel *rbNode[E]
	count    int64
	keyCmp   infra.OrderedKeyComparator[K]
	keyOf    KeyExtractor[K, E]
	isDesc   bool
	stats    *rbTreeStats
	checker  xlog.XLogger
}

func newSentinel[E any]() *rbNode[E] {
	s := &rbNode[E]{color: Black}
	s.parent, s.left, s.right = s, s, s
	return s
}

func (tree *rbTree[K, E]) root() *rbNode[E] {
	return tree.sentinel.left
}

func (tree *rbTree[K, E]) nilLeaf() *rbNode[E] {
	return tree.sentinel
}

func (tree *rbTree[K, E]) cursor(node *rbNode[E]) Cursor[E] {
	return Cursor[E]{node: node, nilLeaf: tree.sentinel}
}

func (tree *rbTree[K, E]) keyCompare(k1, k2 K) int64 {
	return tree.keyCmp(k1, k2)
}

func (tree *rbTree[K, E]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, E]) IsEmpty() bool {
	return tree.count == 0
}

func (tree *rbTree[K, E]) Root() RBNode[E] {
	if tree.root() == tree.sentinel {
		return nil
	}
	return rbNodeRef[E]{node: tree.root(), nilLeaf: tree.sentinel}
}

func (tree *rbTree[K, E]) KeyOf(elem E) K {
	return tree.keyOf.KeyOf(elem)
}

func (tree *rbTree[K, E]) KeyComparator() infra.OrderedKeyComparator[K] {
	return tree.keyCmp
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// So the shortest path nodes are black nodes. Otherwise,
// the path must contain red node.
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, E]) leftRotate(x *rbNode[E]) {
	if x == tree.sentinel || x.right == tree.sentinel {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	y := x.right
	x.right = y.left
	if y.left != tree.sentinel {
		y.left.parent = x
	}
	y.parent = x.parent
	if x == x.parent.left /* the root hangs on the sentinel's left */ {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y
	tree.stats.IncreaseRotateCount()
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K, E]) rightRotate(x *rbNode[E]) {
	if x == tree.sentinel || x.left == tree.sentinel {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	y := x.left
	x.left = y.right
	if y.right != tree.sentinel {
		y.right.parent = x
	}
	y.parent = x.parent
	if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.right = x
	x.parent = y
	tree.stats.IncreaseRotateCount()
}

// rotate moves x down toward dir, Left is a left rotation.
func (tree *rbTree[K, E]) rotate(x *rbNode[E], dir RBDirection) {
	switch dir {
	case Left:
		tree.leftRotate(x)
	case Right:
		tree.rightRotate(x)
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown direction to rotate")
	}
}

func (tree *rbTree[K, E]) Search(key K) Cursor[E] {
	return tree.cursor(tree.search(key))
}

func (tree *rbTree[K, E]) search(key K) *rbNode[E] {
	for aux := tree.root(); aux != tree.sentinel; {
		res := tree.keyCompare(key, tree.keyOf.KeyOf(aux.elem))
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = aux.right
		} else {
			aux = aux.left
		}
	}
	return tree.sentinel
}

func (tree *rbTree[K, E]) Contains(key K) bool {
	return tree.search(key) != tree.sentinel
}

func (tree *rbTree[K, E]) Count(key K) int64 {
	if tree.Contains(key) {
		return 1
	}
	return 0
}

// LowerBound is the first position whose key is not less than key.
func (tree *rbTree[K, E]) LowerBound(key K) Cursor[E] {
	y := tree.sentinel
	for x := tree.root(); x != tree.sentinel; {
		if tree.keyCompare(tree.keyOf.KeyOf(x.elem), key) >= 0 {
			y, x = x, x.left
		} else {
			x = x.right
		}
	}
	return tree.cursor(y)
}

// UpperBound is the first position whose key is greater than key.
func (tree *rbTree[K, E]) UpperBound(key K) Cursor[E] {
	y := tree.sentinel
	for x := tree.root(); x != tree.sentinel; {
		if tree.keyCompare(tree.keyOf.KeyOf(x.elem), key) > 0 {
			y, x = x, x.left
		} else {
			x = x.right
		}
	}
	return tree.cursor(y)
}

// EqualRange spans at most one element, keys are unique.
func (tree *rbTree[K, E]) EqualRange(key K) (Cursor[E], Cursor[E]) {
	return tree.LowerBound(key), tree.UpperBound(key)
}

func (tree *rbTree[K, E]) Insert(elem E) (Cursor[E], bool) {
	key := tree.keyOf.KeyOf(elem)
	var x, y = tree.root(), tree.sentinel
	dir := Left
	for x != tree.sentinel {
		y = x
		res := tree.keyCompare(key, tree.keyOf.KeyOf(x.elem))
		if /* equal */ res == 0 {
			return tree.cursor(x), false
		} else /* less */ if res < 0 {
			x, dir = x.left, Left
		} else /* greater */ {
			x, dir = x.right, Right
		}
	}
	// An empty tree links the new root as the sentinel's left.
	return tree.cursor(tree.link(y, dir, elem)), true
}

// InsertOrAssign inserts elem, or hands the stored element of an
// equivalent key to assign. A nil assign replaces the whole element.
// assign must keep the key half equivalent.
func (tree *rbTree[K, E]) InsertOrAssign(elem E, assign func(stored *E, elem E)) (Cursor[E], bool) {
	pos, inserted := tree.Insert(elem)
	if !inserted {
		if assign != nil {
			assign(&pos.node.elem, elem)
		} else {
			pos.node.elem = elem
		}
		tree.check("assign")
	}
	return pos, inserted
}

func (tree *rbTree[K, E]) InsertHint(hint Cursor[E], elem E) (Cursor[E], bool) {
	if hint.nilLeaf != tree.sentinel || tree.count == 0 {
		return tree.Insert(elem)
	}

	key := tree.keyOf.KeyOf(elem)
	pos := hint.node
	if /* end */ pos == tree.sentinel {
		last := maximum(tree.root(), tree.sentinel)
		if tree.keyCompare(tree.keyOf.KeyOf(last.elem), key) < 0 {
			return tree.cursor(tree.link(last, Right, elem)), true
		}
		return tree.Insert(elem)
	}

	res := tree.keyCompare(key, tree.keyOf.KeyOf(pos.elem))
	if /* equal */ res == 0 {
		return hint, false
	} else /* before hint */ if res < 0 {
		before := predecessor(pos, tree.sentinel)
		if before == tree.sentinel {
			return tree.cursor(tree.link(pos, Left, elem)), true
		}
		if tree.keyCompare(tree.keyOf.KeyOf(before.elem), key) < 0 {
			// Either before has no right child or pos is the leftmost
			// node of before's right subtree.
			if before.right == tree.sentinel {
				return tree.cursor(tree.link(before, Right, elem)), true
			}
			return tree.cursor(tree.link(pos, Left, elem)), true
		}
	} else /* after hint */ {
		after := successor(pos, tree.sentinel)
		if after == tree.sentinel {
			return tree.cursor(tree.link(pos, Right, elem)), true
		}
		if tree.keyCompare(key, tree.keyOf.KeyOf(after.elem)) < 0 {
			if pos.right == tree.sentinel {
				return tree.cursor(tree.link(pos, Right, elem)), true
			}
			return tree.cursor(tree.link(after, Left, elem)), true
		}
	}
	return tree.Insert(elem)
}

// link hangs a fully built red node under parent, then rebalances.
func (tree *rbTree[K, E]) link(parent *rbNode[E], dir RBDirection, elem E) *rbNode[E] {
	z := &rbNode[E]{
		parent: parent,
		left:   tree.sentinel,
		right:  tree.sentinel,
		elem:   elem,
		color:  Red,
	}
	if dir == Left {
		parent.left = z
	} else {
		parent.right = z
	}
	tree.count++
	tree.insertRebalance(z)
	tree.stats.IncreaseInsertCount()
	tree.check("insert")
	return z
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

Case A: both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Loop to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

Case B: the parent P is red but the uncle U is black. (red-violation)
X is the inner grandchild, opposite direction to P. Rotate P toward P's side.
After rotation it is still red-violation. Here must enter Case C to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

Case C: X is the outer grandchild, the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, E]) insertRebalance(x *rbNode[E]) {
	for x.parent.isRed() {
		tree.stats.IncreaseInsertFixupCount()
		p := x.parent
		gp := p.parent
		pDir := p.direction()
		uncle := gp.child(pDir.opposite())
		if /* Case A */ uncle.isRed() {
			p.color = Black
			uncle.color = Black
			gp.color = Red
			x = gp
			continue
		}
		if /* Case B */ x.direction() != pDir {
			x = p
			tree.rotate(x, pDir)
			p = x.parent
		}
		/* Case C */
		p.color = Black
		gp.color = Red
		tree.rotate(gp, pDir.opposite())
	}
	tree.root().color = Black
}

// transplant replaces the subtree rooted at u by the subtree rooted at v.
// v may be the sentinel, its parent link is still written because the
// erase rebalance climbs from it.
func (tree *rbTree[K, E]) transplant(u, v *rbNode[E]) {
	if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

/*
z has at most one non-nil child: splice that child into z's place.

z has two children: its successor y (the minimum of z's right subtree)
is moved into z's place and takes z's color. The node y itself moves,
the elements never move between nodes, so cursors to y stay valid.

	  |                    |
	  Z                    Y
	 / \                  / \
	L  ..   splice(Z, Y)  L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  Y  ..               Yr  ..
	   \
	   Yr

If the color actually removed is black, the node x filling the vacated
slot carries an extra black and the rebalance runs from x.
*/
func (tree *rbTree[K, E]) removeNode(z *rbNode[E]) {
	y, yColor := z, z.color
	var x *rbNode[E]
	if z.left == tree.sentinel {
		x = z.right
		tree.transplant(z, z.right)
	} else if z.right == tree.sentinel {
		x = z.left
		tree.transplant(z, z.left)
	} else {
		y = minimum(z.right, tree.sentinel)
		yColor = y.color
		x = y.right
		if y.parent == z {
			x.parent = y
		} else {
			tree.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}
		tree.transplant(z, y)
		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yColor == Black {
		tree.removeRebalance(x)
	}
	// Keep the sentinel pristine, only the root anchor is meaningful.
	tree.sentinel.parent, tree.sentinel.right = tree.sentinel, tree.sentinel

	z.parent, z.left, z.right = nil, nil, nil
	tree.count--
	tree.stats.IncreaseEraseCount()
	tree.check("erase")
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node (near).
Sd is the opposite direction to X and it X's sibling's child node (far).

Case 1: X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. Repaint S into black, P into red, rotate P toward X.
Recompute the sibling and fall into Case 2, 3 or 4.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [D]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

Case 2: the sibling S, nephew node Sc and Sd are black.
Paint S into red to satisfy p4 locally, then move up to P.
A red P terminates the loop and is painted black.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

Case 3: X's sibling S is black, nephew node Sc is red and Sd is black.
Repaint Sc into black, S into red, rotate S away from X.
Enter Case 4 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

Case 4: X's sibling S is black and Sd is red.
S takes P's color, P and Sd are painted black, rotate P toward X.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K, E]) removeRebalance(x *rbNode[E]) {
	for x != tree.root() && x.isBlack() {
		tree.stats.IncreaseEraseFixupCount()
		p := x.parent
		// x may be the sentinel, its direction is read from the
		// parent, whose other child is never the sentinel here.
		dir := Right
		if x == p.left {
			dir = Left
		}
		sibling := p.child(dir.opposite())
		if /* Case 1 */ sibling.isRed() {
			sibling.color = Black
			p.color = Red
			tree.rotate(p, dir)
			sibling = p.child(dir.opposite())
		}

		sc, sd := sibling.child(dir), sibling.child(dir.opposite())
		if /* Case 2 */ sc.isBlack() && sd.isBlack() {
			sibling.color = Red
			x = p
			continue
		}
		if /* Case 3 */ sd.isBlack() {
			sc.color = Black
			sibling.color = Red
			tree.rotate(sibling, dir.opposite())
			sibling = p.child(dir.opposite())
			sd = sibling.child(dir.opposite())
		}
		/* Case 4 */
		sibling.color = p.color
		p.color = Black
		sd.color = Black
		tree.rotate(p, dir)
		x = tree.root()
	}
	x.color = Black
}

func (tree *rbTree[K, E]) Erase(key K) bool {
	z := tree.search(key)
	if z == tree.sentinel {
		return false
	}
	tree.removeNode(z)
	return true
}

func (tree *rbTree[K, E]) EraseAt(pos Cursor[E]) Cursor[E] {
	if pos.nilLeaf != tree.sentinel || pos.node == tree.sentinel || pos.node == nil {
		return tree.End()
	}
	next := successor(pos.node, tree.sentinel)
	tree.removeNode(pos.node)
	return tree.cursor(next)
}

func (tree *rbTree[K, E]) EraseRange(first, last Cursor[E]) Cursor[E] {
	if first.node == tree.Begin().node && last.node == tree.sentinel {
		tree.Clear()
		return tree.End()
	}
	for first.node != last.node && !first.IsEnd() {
		first = tree.EraseAt(first)
	}
	return last
}

func (tree *rbTree[K, E]) PopMin() (E, bool) {
	if tree.count <= 0 {
		return *new(E), false
	}
	_min := minimum(tree.root(), tree.sentinel)
	elem := _min.elem
	tree.removeNode(_min)
	return elem, true
}

func (tree *rbTree[K, E]) PopMax() (E, bool) {
	if tree.count <= 0 {
		return *new(E), false
	}
	_max := maximum(tree.root(), tree.sentinel)
	elem := _max.elem
	tree.removeNode(_max)
	return elem, true
}

func (tree *rbTree[K, E]) Begin() Cursor[E] {
	if tree.root() == tree.sentinel {
		return tree.End()
	}
	return tree.cursor(minimum(tree.root(), tree.sentinel))
}

// Min is the first element, End() when empty.
func (tree *rbTree[K, E]) Min() Cursor[E] {
	return tree.Begin()
}

// Max is the last element, End() when empty.
func (tree *rbTree[K, E]) Max() Cursor[E] {
	if tree.root() == tree.sentinel {
		return tree.End()
	}
	return tree.cursor(maximum(tree.root(), tree.sentinel))
}

func (tree *rbTree[K, E]) End() Cursor[E] {
	return tree.cursor(tree.sentinel)
}

func (tree *rbTree[K, E]) RBegin() ReverseCursor[E] {
	return ReverseCursor[E]{base: tree.End()}
}

func (tree *rbTree[K, E]) REnd() ReverseCursor[E] {
	return ReverseCursor[E]{base: tree.Begin()}
}

// Inorder traversal by successor links.
func (tree *rbTree[K, E]) Foreach(action func(idx int64, color RBColor, elem E) bool) {
	idx := int64(0)
	for it := tree.Begin(); !it.IsEnd(); it = it.Next() {
		if !action(idx, it.node.color, it.node.elem) {
			return
		}
		idx++
	}
}

func (tree *rbTree[K, E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for it := tree.Begin(); !it.IsEnd(); it = it.Next() {
			if !yield(it.node.elem) {
				return
			}
		}
	}
}

func (tree *rbTree[K, E]) Backward() iter.Seq[E] {
	return func(yield func(E) bool) {
		for it := tree.End().Prev(); !it.IsEnd(); it = it.Prev() {
			if !yield(it.node.elem) {
				return
			}
		}
	}
}

// Clear unlinks the nodes in post order by parent links, so
// no auxiliary stack is needed.
func (tree *rbTree[K, E]) Clear() {
	x := tree.root()
	for x != tree.sentinel {
		if x.left != tree.sentinel {
			x = x.left
			continue
		}
		if x.right != tree.sentinel {
			x = x.right
			continue
		}
		p := x.parent
		if p != tree.sentinel {
			if p.left == x {
				p.left = tree.sentinel
			} else {
				p.right = tree.sentinel
			}
		}
		x.parent, x.left, x.right = nil, nil, nil
		x = p
	}
	tree.sentinel.parent, tree.sentinel.left, tree.sentinel.right = tree.sentinel, tree.sentinel, tree.sentinel
	tree.count = 0
}

// Release clears the tree, stops counting its operations and
// unregisters its size observation.
func (tree *rbTree[K, E]) Release() {
	tree.Clear()
	tree.stats.release()
	tree.stats = nil
}

func (tree *rbTree[K, E]) Clone() RBTree[K, E] {
	clone := &rbTree[K, E]{
		sentinel: newSentinel[E](),
		count:    tree.count,
		keyCmp:   tree.keyCmp,
		keyOf:    tree.keyOf,
		isDesc:   tree.isDesc,
		checker:  tree.checker,
	}
	if root := tree.root(); root != tree.sentinel {
		clone.sentinel.left = cloneSubtree(root, tree.sentinel, clone.sentinel, clone.sentinel)
	}
	// The clone reports under the same stats name as its own instance.
	clone.stats = tree.stats.fork()
	clone.stats.observeSize(func() int64 { return clone.count })
	return clone
}

func cloneSubtree[E any](src, srcNil, dstNil, parent *rbNode[E]) *rbNode[E] {
	if src == srcNil {
		return dstNil
	}
	dst := &rbNode[E]{
		parent: parent,
		elem:   src.elem,
		color:  src.color,
	}
	dst.left = cloneSubtree(src.left, srcNil, dstNil, dst)
	dst.right = cloneSubtree(src.right, srcNil, dstNil, dst)
	return dst
}

// Swap exchanges the contents in O(1). Cursors keep following their
// nodes, which now belong to the other tree.
func (tree *rbTree[K, E]) Swap(other RBTree[K, E]) {
	that, ok := other.(*rbTree[K, E])
	if !ok || that == nil || that == tree {
		return
	}
	tree.sentinel, that.sentinel = that.sentinel, tree.sentinel
	tree.count, that.count = that.count, tree.count
	tree.keyCmp, that.keyCmp = that.keyCmp, tree.keyCmp
	tree.keyOf, that.keyOf = that.keyOf, tree.keyOf
	tree.isDesc, that.isDesc = that.isDesc, tree.isDesc
}

// check is the debug assertion mode, it validates all the properties
// after each mutation and reports violations to the logger.
func (tree *rbTree[K, E]) check(op string) {
	if tree.checker == nil {
		return
	}
	if err := Validate[K, E](tree); err != nil {
		tree.checker.ErrorStack(
			infra.WrapErrorStackWithMessage(err, "[rbtree] "+op),
			"rbtree invariant violated",
			zap.Int64("size", tree.count),
		)
	}
}

type RBTreeOption[K, E any] func(*rbTree[K, E])

// WithRBTreeDesc sorts in descending order of the key comparator.
func WithRBTreeDesc[K, E any]() RBTreeOption[K, E] {
	return func(tree *rbTree[K, E]) {
		tree.isDesc = true
	}
}

func WithRBTreeKeyComparator[K, E any](cmp infra.OrderedKeyComparator[K]) RBTreeOption[K, E] {
	return func(tree *rbTree[K, E]) {
		if cmp != nil {
			tree.keyCmp = cmp
		}
	}
}

// WithRBTreeInvariantCheck costs O(n) per mutation, debug only.
func WithRBTreeInvariantCheck[K, E any](logger xlog.XLogger) RBTreeOption[K, E] {
	return func(tree *rbTree[K, E]) {
		if logger != nil {
			tree.checker = logger.Named("rbtree")
		}
	}
}

// NewRBTree requires a key comparator option, K may be any type.
func NewRBTree[K, E any](keyOf KeyExtractor[K, E], opts ...RBTreeOption[K, E]) RBTree[K, E] {
	if keyOf == nil {
		panic("[rbtree] key extractor is required")
	}
	tree := &rbTree[K, E]{
		sentinel: newSentinel[E](),
		keyOf:    keyOf,
	}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	if tree.keyCmp == nil {
		panic("[rbtree] key comparator is required")
	}
	if tree.isDesc {
		tree.keyCmp = tree.keyCmp.Reverse()
	}
	if tree.stats != nil {
		tree.stats.observeSize(func() int64 { return tree.count })
	}
	return tree
}

// NewOrderedRBTree uses the builtin order of K unless a comparator is supplied.
func NewOrderedRBTree[K infra.OrderedKey, E any](keyOf KeyExtractor[K, E], opts ...RBTreeOption[K, E]) RBTree[K, E] {
	opts = append([]RBTreeOption[K, E]{
		WithRBTreeKeyComparator[K, E](infra.DefaultOrderedKeyComparator[K]()),
	}, opts...)
	return NewRBTree[K, E](keyOf, opts...)
}
