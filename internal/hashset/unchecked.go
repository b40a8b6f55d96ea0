package hashset

import apperrors "github.com/agbru/symcalc/internal/errors"

// ─────────────────────────────────────────────────────────────────────────────
// Unchecked interface
// ─────────────────────────────────────────────────────────────────────────────
//
// These methods skip the bookkeeping of the checked ones. They exist for
// bulk loaders, such as series multiplication, that know the destination
// bucket, guarantee uniqueness themselves and fix the element count once.

// BucketUnchecked returns the bucket index of v. It panics with a division
// by zero when the set has no buckets.
func (s *Set[T]) BucketUnchecked(v T) int {
	return int(s.hash(v) % uint64(len(s.buckets)))
}

// FindUnchecked looks for v in bucket idx only, which must be the bucket v
// hashes to.
func (s *Set[T]) FindUnchecked(v T, idx int) Iterator[T] {
	if n := s.buckets[idx].find(v, s.equal); n != nil {
		return Iterator[T]{set: s, idx: idx, n: n}
	}
	return s.End()
}

// UniqueInsertUnchecked places v in bucket idx without looking for a
// duplicate, without counting it and without growing the table.
func (s *Set[T]) UniqueInsertUnchecked(v T, idx int) Iterator[T] {
	return Iterator[T]{set: s, idx: idx, n: s.buckets[idx].insert(v)}
}

// EraseUnchecked removes the element at it without updating the element
// count and returns an iterator to the element that followed it.
func (s *Set[T]) EraseUnchecked(it Iterator[T]) Iterator[T] {
	if next := s.buckets[it.idx].erase(it.n); next != nil {
		return Iterator[T]{set: s, idx: it.idx, n: next}
	}
	return s.beginAt(it.idx + 1)
}

// FilterBucketUnchecked drops the elements of bucket idx for which drop
// returns true and reports how many went. The element count is not
// updated. It only touches bucket idx, so goroutines may filter disjoint
// buckets concurrently.
func (s *Set[T]) FilterBucketUnchecked(idx int, drop func(*T) bool) int {
	return s.buckets[idx].filter(drop)
}

// BucketValues calls yield with a pointer to every element of bucket idx
// until yield returns false. It only touches bucket idx.
func (s *Set[T]) BucketValues(idx int, yield func(*T) bool) {
	for n := s.buckets[idx].first(); n != nil; n = n.next {
		if !yield(&n.value) {
			return
		}
	}
}

// SetLenUnchecked forces the reported element count to n.
func (s *Set[T]) SetLenUnchecked(n int) { s.n = n }

// IncreaseSize grows the table to the next size class. Growing past the
// last class is an allocation error.
func (s *Set[T]) IncreaseSize() error {
	i := sizeIndex(len(s.buckets))
	classes := sizeClasses()
	if i < 0 || i == len(classes)-1 {
		return apperrors.Allocationf("hash set cannot grow past %d buckets", len(s.buckets))
	}
	return s.Rehash(int(classes[i+1]))
}
