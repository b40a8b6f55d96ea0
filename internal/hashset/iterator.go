package hashset

// Iterator points at an element of a Set, or past the last bucket when it
// is the end iterator. Iterators are comparable: two iterators are equal
// when they point at the same element.
type Iterator[T any] struct {
	set *Set[T]
	idx int
	n   *node[T]
}

// Begin returns an iterator to the first element in table order.
func (s *Set[T]) Begin() Iterator[T] { return s.beginAt(0) }

// End returns the iterator past the last bucket.
func (s *Set[T]) End() Iterator[T] { return Iterator[T]{set: s, idx: len(s.buckets)} }

// beginAt returns an iterator to the first element stored in bucket idx or
// after it.
func (s *Set[T]) beginAt(idx int) Iterator[T] {
	for ; idx < len(s.buckets); idx++ {
		if n := s.buckets[idx].first(); n != nil {
			return Iterator[T]{set: s, idx: idx, n: n}
		}
	}
	return s.End()
}

// Done reports whether it is the end iterator.
func (it Iterator[T]) Done() bool { return it.n == nil }

// Value returns the element. It panics on the end iterator.
func (it Iterator[T]) Value() T { return it.n.value }

// Ptr returns a pointer to the element for in-place updates. Changing any
// part of the element that feeds the hash or the equality breaks the set.
func (it Iterator[T]) Ptr() *T { return &it.n.value }

// Bucket returns the index of the bucket holding the element.
func (it Iterator[T]) Bucket() int { return it.idx }

// Next advances within the bucket first and then scans forward for the next
// non-empty bucket.
func (it Iterator[T]) Next() Iterator[T] {
	if it.n.next != nil {
		it.n = it.n.next
		return it
	}
	return it.set.beginAt(it.idx + 1)
}
