package hashset

import "github.com/cockroachdb/errors"

// sanityCheck verifies the table invariants: every element sits in the
// bucket it hashes to, the stored count matches the elements, the bucket
// count is a size class and a full iteration visits Len() elements.
func (s *Set[T]) sanityCheck() error {
	count := 0
	for i := range s.buckets {
		for n := s.buckets[i].first(); n != nil; n = n.next {
			if b := s.BucketUnchecked(n.value); b != i {
				return errors.Newf("element %v stored in bucket %d but hashes to %d", n.value, i, b)
			}
			count++
		}
		if s.buckets[i].empty() && s.buckets[i].head.next != nil {
			return errors.Newf("empty bucket %d has a chain", i)
		}
	}
	if count != s.n {
		return errors.Newf("counted %d elements, Len() reports %d", count, s.n)
	}
	if sizeIndex(len(s.buckets)) < 0 {
		return errors.Newf("bucket count %d is not a size class", len(s.buckets))
	}
	count = 0
	for it := s.Begin(); !it.Done(); it = it.Next() {
		count++
	}
	if count != s.n {
		return errors.Newf("iteration visited %d elements, Len() reports %d", count, s.n)
	}
	return nil
}
