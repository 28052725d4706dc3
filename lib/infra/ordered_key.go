package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator is a strict weak order expressed as a three-way compare.
// Assume i is the new key.
//  1. i == j (return 0)
//  2. i > j (return 1), turn to right part.
//  3. i < j (return -1), turn to left part.
//
// K is not restricted to OrderedKey, so composite keys only need a comparator.
type OrderedKeyComparator[K any] func(i, j K) int64

// Reverse flips the order, ascending becomes descending.
func (cmp OrderedKeyComparator[K]) Reverse() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		return -cmp(i, j)
	}
}

// Less reports whether i is ordered strictly before j.
func (cmp OrderedKeyComparator[K]) Less(i, j K) bool {
	return cmp(i, j) < 0
}

// DefaultOrderedKeyComparator compares with the builtin operators.
// NaN breaks the strict weak order, float keys must not hold it.
func DefaultOrderedKeyComparator[K OrderedKey]() OrderedKeyComparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i < j {
			return -1
		}
		return 1
	}
}
