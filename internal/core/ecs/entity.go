package ecs

// EntityID packs a 32-bit slot index in the lower half and a 32-bit
// generation in the upper half. The generation bumps on every destroy, so a
// handle held past its entity's removal can never alias a recycled slot.
type EntityID uint64

func newEntityID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// pool allocates entity slots with generational indices and a free list.
type pool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func newPool() *pool {
	return &pool{
		generations: make([]uint32, 0, 64),
		freeList:    make([]uint32, 0, 16),
	}
}

func (p *pool) create() EntityID {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return newEntityID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return newEntityID(idx, p.generations[idx])
}

func (p *pool) alive(id EntityID) bool {
	idx := id.Index()
	return idx < p.nextIndex && p.generations[idx] == id.Generation()
}

func (p *pool) destroy(id EntityID) bool {
	idx := id.Index()
	if idx >= p.nextIndex || p.generations[idx] != id.Generation() {
		return false // stale handle
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
	return true
}
