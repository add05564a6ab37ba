package ecs

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale refs.
type EntityID uint64

// Nil never refers to a live entity.
const Nil = EntityID(^uint64(0))

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

// EntityPool manages entity allocation with generational indices, an active
// bit per slot and a LIFO free list.
type EntityPool struct {
	generations []uint32
	active      []bool
	freeList    []uint32
	nextIndex   uint32
	live        int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 1024),
		active:      make([]bool, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

func (p *EntityPool) Create() EntityID {
	p.live++
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		p.active[idx] = true
		return NewEntityID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
		p.active = append(p.active, false)
	}
	p.active[idx] = true
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.active[idx] && p.generations[idx] == id.Generation()
}

// Destroy retires id. It reports false for out-of-range, inactive or stale ids.
func (p *EntityPool) Destroy(id EntityID) bool {
	if !p.Alive(id) {
		return false
	}
	idx := id.Index()
	p.active[idx] = false
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
	p.live--
	return true
}

// SlotCount is the number of indices ever minted, live or not.
func (p *EntityPool) SlotCount() int { return int(p.nextIndex) }

// LiveCount is the number of active entities.
func (p *EntityPool) LiveCount() int { return p.live }

// At returns the current id occupying slot idx, if that slot is active.
func (p *EntityPool) At(idx uint32) (EntityID, bool) {
	if idx >= p.nextIndex || !p.active[idx] {
		return Nil, false
	}
	return NewEntityID(idx, p.generations[idx]), true
}
