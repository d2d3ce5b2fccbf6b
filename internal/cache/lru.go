package cache

// node is an element of the recency ring.
type node[K comparable] struct {
	key        K
	prev, next *node[K]
}

// ring is a circular doubly-linked list around a sentinel. The element
// after the sentinel is the most recently used, the one before it the
// least. Not safe for concurrent use.
type ring[K comparable] struct {
	root node[K]
}

func newRing[K comparable]() *ring[K] {
	r := &ring[K]{}
	r.root.prev = &r.root
	r.root.next = &r.root
	return r
}

// pushFront inserts key as the most recently used element.
func (r *ring[K]) pushFront(key K) *node[K] {
	n := &node[K]{key: key}
	r.insertAfter(n, &r.root)
	return n
}

// touch moves n to the front.
func (r *ring[K]) touch(n *node[K]) {
	if r.root.next == n {
		return
	}
	r.unlink(n)
	r.insertAfter(n, &r.root)
}

// popBack removes the least recently used element.
func (r *ring[K]) popBack() (K, bool) {
	n := r.root.prev
	if n == &r.root {
		var zero K
		return zero, false
	}
	r.unlink(n)
	return n.key, true
}

func (r *ring[K]) insertAfter(n, at *node[K]) {
	n.prev = at
	n.next = at.next
	at.next.prev = n
	at.next = n
}

func (r *ring[K]) unlink(n *node[K]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
}
