package hashset

import (
	"hash/maphash"
	"iter"
	"math"

	apperrors "github.com/agbru/symcalc/internal/errors"
)

// MaxLoadFactor is the element to bucket ratio above which an insertion
// grows the table.
const MaxLoadFactor = 1.0

// Set is a hash set of T. The zero value is not usable; build one with New,
// NewComparable or NewDefault.
type Set[T any] struct {
	buckets []bucket[T]
	hash    func(T) uint64
	equal   func(a, b T) bool
	n       int
}

// New returns an empty set, with zero buckets, that hashes with hash and
// compares with equal. Equal elements must hash equally.
func New[T any](hash func(T) uint64, equal func(a, b T) bool) *Set[T] {
	return &Set[T]{hash: hash, equal: equal}
}

// NewComparable returns an empty set of a comparable type using ==.
func NewComparable[T comparable](hash func(T) uint64) *Set[T] {
	return New(hash, func(a, b T) bool { return a == b })
}

// NewDefault returns an empty set hashing with a randomly seeded
// hash/maphash.
func NewDefault[T comparable]() *Set[T] {
	seed := maphash.MakeSeed()
	return NewComparable(func(v T) uint64 { return maphash.Comparable(seed, v) })
}

// Len returns the number of elements.
func (s *Set[T]) Len() int { return s.n }

// BucketCount returns the number of buckets, always a size class.
func (s *Set[T]) BucketCount() int { return len(s.buckets) }

// LoadFactor returns Len()/BucketCount(), or 0 for a set without buckets.
func (s *Set[T]) LoadFactor() float64 {
	if len(s.buckets) == 0 {
		return 0
	}
	return float64(s.n) / float64(len(s.buckets))
}

// MaxLoadFactor returns the maximum load factor, fixed at 1.0.
func (s *Set[T]) MaxLoadFactor() float64 { return MaxLoadFactor }

// Insert adds v unless an equal element is present. It returns an iterator
// to the element now in the set and whether v was inserted.
//
// Growth happens before placing v and invalidates every iterator. Errors
// are of the overflow kind when the element count cannot grow and of the
// allocation kind when the table cannot grow.
func (s *Set[T]) Insert(v T) (Iterator[T], bool, error) {
	if len(s.buckets) == 0 {
		if err := s.IncreaseSize(); err != nil {
			return s.End(), false, err
		}
	}
	idx := s.BucketUnchecked(v)
	if it := s.FindUnchecked(v, idx); !it.Done() {
		return it, false, nil
	}
	if s.n == math.MaxInt {
		return s.End(), false, apperrors.Overflowf("hash set already holds %d elements", s.n)
	}
	if float64(s.n+1)/float64(len(s.buckets)) > MaxLoadFactor {
		if err := s.IncreaseSize(); err != nil {
			return s.End(), false, err
		}
		idx = s.BucketUnchecked(v)
	}
	it := s.UniqueInsertUnchecked(v, idx)
	s.n++
	return it, true, nil
}

// Find returns an iterator to the element equal to v, or End().
func (s *Set[T]) Find(v T) Iterator[T] {
	if len(s.buckets) == 0 {
		return s.End()
	}
	return s.FindUnchecked(v, s.BucketUnchecked(v))
}

// Contains reports whether an element equal to v is present.
func (s *Set[T]) Contains(v T) bool { return !s.Find(v).Done() }

// Remove erases the element equal to v and reports whether there was one.
func (s *Set[T]) Remove(v T) bool {
	it := s.Find(v)
	if it.Done() {
		return false
	}
	s.Erase(it)
	return true
}

// Erase removes the element at it, which must point into s, and returns an
// iterator to the element that followed it. Iterators into the same bucket
// are invalidated.
func (s *Set[T]) Erase(it Iterator[T]) Iterator[T] {
	next := s.EraseUnchecked(it)
	s.n--
	return next
}

// Rehash rebuilds the table with the smallest size class >= n buckets and
// moves every element into it. A non-empty set keeps at least one bucket.
// All iterators are invalidated.
//
// If the hash function panics midway, both the old and the partly built
// table are cleared before the panic continues: the set ends up empty,
// never half moved.
func (s *Set[T]) Rehash(n int) error {
	size, err := sizeFromHint(n)
	if err != nil {
		return err
	}
	if size == 0 && s.n > 0 {
		size = 1
	}
	fresh := &Set[T]{buckets: make([]bucket[T], size), hash: s.hash, equal: s.equal}
	defer func() {
		if r := recover(); r != nil {
			s.Clear()
			fresh.Clear()
			panic(r)
		}
	}()
	for i := range s.buckets {
		for nd := s.buckets[i].first(); nd != nil; nd = nd.next {
			fresh.UniqueInsertUnchecked(nd.value, fresh.BucketUnchecked(nd.value))
		}
	}
	s.buckets = fresh.buckets
	return nil
}

// Clear removes every element and releases the buckets.
func (s *Set[T]) Clear() {
	s.buckets = nil
	s.n = 0
}

// Clone returns a copy of s sharing element values.
func (s *Set[T]) Clone() *Set[T] {
	return s.CloneFunc(func(v T) T { return v })
}

// CloneFunc returns a deep copy of s, copying each element with cp. If cp
// panics, s is left untouched and nothing of the partial copy survives.
func (s *Set[T]) CloneFunc(cp func(T) T) *Set[T] {
	out := &Set[T]{hash: s.hash, equal: s.equal, n: s.n}
	if s.buckets != nil {
		out.buckets = make([]bucket[T], len(s.buckets))
		for i := range s.buckets {
			out.buckets[i] = s.buckets[i].clone(cp)
		}
	}
	return out
}

// All iterates over the elements in table order.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it := s.Begin(); !it.Done(); it = it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Stats describes how the elements are spread over the buckets.
type Stats struct {
	Len         int
	Buckets     int
	LoadFactor  float64
	EmptyBucket int
	MaxChain    int
}

// Stats walks the table and reports its occupancy.
func (s *Set[T]) Stats() Stats {
	st := Stats{Len: s.n, Buckets: len(s.buckets), LoadFactor: s.LoadFactor()}
	for i := range s.buckets {
		c := s.buckets[i].len()
		if c == 0 {
			st.EmptyBucket++
		}
		st.MaxChain = max(st.MaxChain, c)
	}
	return st
}
