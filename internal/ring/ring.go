// Package ring implements a circular doubly-linked list over an index based
// arena, with O(1) lookup, insertion, and removal by key.
//
// Nodes are addressed by their slot index, which remains stable for as long as
// the key is present. Freed slots are reused.
package ring

type (
	Ring[K comparable] struct {
		nodes []node[K]
		free  []int
		index map[K]int
	}

	node[K comparable] struct {
		key        K
		prev, next int
	}
)

// None is the index used to indicate no node.
const None = -1

func New[K comparable]() *Ring[K] {
	return &Ring[K]{index: make(map[K]int)}
}

// Len returns the number of keys in the ring.
func (x *Ring[K]) Len() int {
	return len(x.index)
}

// Lookup returns the slot of key, or None.
func (x *Ring[K]) Lookup(key K) int {
	if i, ok := x.index[key]; ok {
		return i
	}
	return None
}

// Key returns the key stored at slot i.
func (x *Ring[K]) Key(i int) K {
	return x.nodes[i].key
}

// Next returns the slot following i.
func (x *Ring[K]) Next(i int) int {
	return x.nodes[i].next
}

// InsertAfter links key immediately after slot at, returning the new slot. If
// the ring is empty, at must be None, and the key becomes a ring of one.
// A panic will occur if key is already present.
func (x *Ring[K]) InsertAfter(at int, key K) int {
	if at == None && len(x.index) != 0 {
		panic(`ring: insert into non-empty ring requires a position`)
	}
	i := x.alloc(key)
	if at == None {
		x.nodes[i].prev = i
		x.nodes[i].next = i
		return i
	}
	next := x.nodes[at].next
	x.nodes[i].prev = at
	x.nodes[i].next = next
	x.nodes[at].next = i
	x.nodes[next].prev = i
	return i
}

// InsertBefore links key immediately before slot at, see also InsertAfter.
func (x *Ring[K]) InsertBefore(at int, key K) int {
	if at == None {
		return x.InsertAfter(None, key)
	}
	return x.InsertAfter(x.nodes[at].prev, key)
}

// Remove unlinks key, returning the slots of its former neighbours. Both are
// None if key was not present, or the ring is now empty.
func (x *Ring[K]) Remove(key K) (prev, next int) {
	i, ok := x.index[key]
	if !ok {
		return None, None
	}
	delete(x.index, key)

	n := x.nodes[i]
	x.nodes[i] = node[K]{prev: None, next: None}
	x.free = append(x.free, i)

	if n.next == i {
		return None, None
	}
	x.nodes[n.prev].next = n.next
	x.nodes[n.next].prev = n.prev
	return n.prev, n.next
}

// Keys returns every key, in ring order, starting from slot i. It returns nil
// if i is None.
func (x *Ring[K]) Keys(i int) (keys []K) {
	if i == None {
		return nil
	}
	keys = make([]K, 0, len(x.index))
	for j := i; ; {
		keys = append(keys, x.nodes[j].key)
		j = x.nodes[j].next
		if j == i {
			break
		}
	}
	return keys
}

func (x *Ring[K]) alloc(key K) (i int) {
	if _, ok := x.index[key]; ok {
		panic(`ring: duplicate key`)
	}
	if l := len(x.free); l != 0 {
		i = x.free[l-1]
		x.free = x.free[:l-1]
		x.nodes[i] = node[K]{key: key}
	} else {
		i = len(x.nodes)
		x.nodes = append(x.nodes, node[K]{key: key})
	}
	x.index[key] = i
	return i
}
