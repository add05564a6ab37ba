package pool

// Key identifies a slot in a Pool.
type Key = uint32

// None marks an empty sparse entry.
const None = ^uint32(0)

// Pool is a dense/sparse associative container keyed by small integers.
//
// Values live contiguously in insertion order until a Destroy swaps the last
// element into the freed slot. Any *V obtained from Ptr or Each before a
// Destroy may afterwards point at a different key's value; only keys are
// stable.
type Pool[V any] struct {
	dense  []Key
	sparse []uint32
	values []V
	free   []Key
	next   Key
}

func New[V any](capacity int) *Pool[V] {
	return &Pool[V]{
		dense:  make([]Key, 0, capacity),
		sparse: make([]uint32, 0, capacity),
		values: make([]V, 0, capacity),
	}
}

// Create stores v under a fresh key. Retired keys are reused LIFO.
func (p *Pool[V]) Create(v V) Key {
	var k Key
	if n := len(p.free); n > 0 {
		k = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		k = p.next
		p.next++
	}
	p.place(k, v)
	return k
}

// Insert stores v under an externally chosen key. The key must not already
// be present; Insert for a present key is a no-op and reports false.
// Pools filled through Insert should not also use Create.
func (p *Pool[V]) Insert(k Key, v V) bool {
	if p.Contains(k) {
		return false
	}
	p.place(k, v)
	return true
}

func (p *Pool[V]) place(k Key, v V) {
	if int(k) >= len(p.sparse) {
		grow := int(k) + 1 - len(p.sparse)
		for i := 0; i < grow; i++ {
			p.sparse = append(p.sparse, None)
		}
	}
	p.sparse[k] = uint32(len(p.dense))
	p.dense = append(p.dense, k)
	p.values = append(p.values, v)
}

// Destroy removes k by swapping the last element into its slot. Absent keys
// are ignored. Keys minted by Create go back on the free list.
func (p *Pool[V]) Destroy(k Key) {
	if !p.Contains(k) {
		return
	}
	idx := p.sparse[k]
	last := uint32(len(p.dense) - 1)
	if idx != last {
		moved := p.dense[last]
		p.dense[idx] = moved
		p.values[idx] = p.values[last]
		p.sparse[moved] = idx
	}
	var zero V
	p.values[last] = zero
	p.dense = p.dense[:last]
	p.values = p.values[:last]
	p.sparse[k] = None
	if k < p.next {
		p.free = append(p.free, k)
	}
}

func (p *Pool[V]) Contains(k Key) bool {
	if int(k) >= len(p.sparse) {
		return false
	}
	idx := p.sparse[k]
	return idx != None && int(idx) < len(p.dense) && p.dense[idx] == k
}

// Get returns a copy of the value stored under k.
func (p *Pool[V]) Get(k Key) (V, bool) {
	if !p.Contains(k) {
		var zero V
		return zero, false
	}
	return p.values[p.sparse[k]], true
}

// Ptr returns a pointer into dense storage, or nil. See the Pool doc for
// when it goes stale.
func (p *Pool[V]) Ptr(k Key) *V {
	if !p.Contains(k) {
		return nil
	}
	return &p.values[p.sparse[k]]
}

// Set overwrites the value of an existing key.
func (p *Pool[V]) Set(k Key, v V) bool {
	if !p.Contains(k) {
		return false
	}
	p.values[p.sparse[k]] = v
	return true
}

func (p *Pool[V]) Len() int { return len(p.dense) }

// SlotCount is the size of the sparse index, i.e. one past the highest key
// ever stored.
func (p *Pool[V]) SlotCount() int { return len(p.sparse) }

// Keys returns the dense key slice. It is owned by the pool.
func (p *Pool[V]) Keys() []Key { return p.dense }

// Values returns the dense value slice, parallel to Keys.
func (p *Pool[V]) Values() []V { return p.values }

// Each visits entries in dense order. fn must not Create or Destroy.
func (p *Pool[V]) Each(fn func(Key, *V)) {
	for i, k := range p.dense {
		fn(k, &p.values[i])
	}
}

// Clear drops every entry and forgets every key.
func (p *Pool[V]) Clear() {
	clear(p.values)
	p.dense = p.dense[:0]
	p.values = p.values[:0]
	p.sparse = p.sparse[:0]
	p.free = p.free[:0]
	p.next = 0
}
