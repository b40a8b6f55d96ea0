package hashset

// node is one element of a bucket chain. A nil next link terminates the
// chain.
type node[T any] struct {
	value T
	next  *node[T]
}

// bucket is a singly linked list whose head node lives inline in the bucket
// array. occupied tells an empty bucket apart from a one-element bucket,
// whose head has a nil link too.
type bucket[T any] struct {
	head     node[T]
	occupied bool
}

func (b *bucket[T]) empty() bool { return !b.occupied }

// first returns the head node, or nil for an empty bucket.
func (b *bucket[T]) first() *node[T] {
	if !b.occupied {
		return nil
	}
	return &b.head
}

// insert adds v and returns the node holding it. The first element takes
// the inline head; later ones become the second node.
func (b *bucket[T]) insert(v T) *node[T] {
	if !b.occupied {
		b.head = node[T]{value: v}
		b.occupied = true
		return &b.head
	}
	n := &node[T]{value: v, next: b.head.next}
	b.head.next = n
	return n
}

func (b *bucket[T]) find(v T, equal func(a, b T) bool) *node[T] {
	for n := b.first(); n != nil; n = n.next {
		if equal(n.value, v) {
			return n
		}
	}
	return nil
}

// erase unlinks the node target and returns the node that now holds its
// successor, or nil when target was last in the chain.
//
// Erasing the head of a longer chain moves the second value into the head
// slot and drops the second node, so the head always stays inline.
func (b *bucket[T]) erase(target *node[T]) *node[T] {
	if target == &b.head {
		second := b.head.next
		if second == nil {
			b.head = node[T]{}
			b.occupied = false
			return nil
		}
		b.head = node[T]{value: second.value, next: second.next}
		return &b.head
	}
	for prev := &b.head; prev.next != nil; prev = prev.next {
		if prev.next == target {
			prev.next = target.next
			target.next = nil
			return prev.next
		}
	}
	panic("hashset: erased node does not belong to its bucket")
}

// filter drops every element for which drop returns true and reports how
// many were removed.
func (b *bucket[T]) filter(drop func(*T) bool) int {
	removed := 0
	for n := b.first(); n != nil; {
		if drop(&n.value) {
			n = b.erase(n)
			removed++
			continue
		}
		n = n.next
	}
	return removed
}

func (b *bucket[T]) len() int {
	c := 0
	for n := b.first(); n != nil; n = n.next {
		c++
	}
	return c
}

// clone deep-copies the chain through cp. If cp panics the partial copy is
// discarded and the panic propagates; b is left untouched.
func (b *bucket[T]) clone(cp func(T) T) bucket[T] {
	if !b.occupied {
		return bucket[T]{}
	}
	out := bucket[T]{head: node[T]{value: cp(b.head.value)}, occupied: true}
	tail := &out.head
	for n := b.head.next; n != nil; n = n.next {
		tail.next = &node[T]{value: cp(n.value)}
		tail = tail.next
	}
	return out
}
