// Package hashset implements a separate-chaining hash set used as the term
// container of sparse series.
//
// Each bucket keeps its first node inline in the bucket array, so a bucket
// holding a single element costs no allocation. Bucket counts are drawn from
// a fixed table of size classes, roughly doubling at each step, and the
// maximum load factor is 1.0.
//
// Besides the checked interface (Insert, Find, Erase, Rehash) the set
// exposes an unchecked one (BucketUnchecked, FindUnchecked,
// UniqueInsertUnchecked, SetLenUnchecked, IncreaseSize) for bulk loaders
// that already know where an element goes and reconcile the element count
// once at the end. Misusing it breaks the set's invariants.
//
// A Set is not safe for concurrent use. Callers may still fill disjoint
// bucket ranges from several goroutines through the unchecked interface,
// provided nothing rehashes meanwhile.
package hashset
