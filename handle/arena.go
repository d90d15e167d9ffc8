package handle

// Arena is a generic generation-counted slot arena. It backs the vertex,
// face and halfedge stores of a HalfEdge mesh; each concrete handle type
// wraps the (index, generation) pair Arena hands out.
type Arena[T any] struct {
	slots      []slot[T]
	freeList   []uint32
	liveCount  int
}

type slot[T any] struct {
	value      T
	generation uint32
	alive      bool
}

// Alloc inserts value into the arena and returns the (index, generation)
// pair of its slot. Generations start at 1, so the zero value of a handle
// (generation 0) never aliases a live slot.
func (a *Arena[T]) Alloc(value T) (uint32, uint32) {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.slots[idx].value = value
		a.slots[idx].alive = true
		a.liveCount++
		return idx, a.slots[idx].generation
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{value: value, generation: 1, alive: true})
	a.liveCount++
	return idx, 1
}

// Get returns a pointer to the live value at (index, generation), or
// (nil, false) if that slot is dead or the generation is stale.
func (a *Arena[T]) Get(index, generation uint32) (*T, bool) {
	if int(index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[index]
	if !s.alive || s.generation != generation {
		return nil, false
	}
	return &s.value, true
}

// Remove kills the slot at (index, generation) and bumps its generation so
// future Get calls with the old handle fail. Returns false if already dead
// or the generation is stale.
func (a *Arena[T]) Remove(index, generation uint32) bool {
	if int(index) >= len(a.slots) {
		return false
	}
	s := &a.slots[index]
	if !s.alive || s.generation != generation {
		return false
	}
	var zero T
	s.value = zero
	s.alive = false
	s.generation++
	a.liveCount--
	a.freeList = append(a.freeList, index)
	return true
}

// Len returns the number of live elements.
func (a *Arena[T]) Len() int { return a.liveCount }

// Cap returns the number of slots ever allocated, dead or alive. Useful for
// iterating in allocation order (the order selection expressions index by).
func (a *Arena[T]) Cap() int { return len(a.slots) }

// Alive reports whether the slot at index currently holds a live element,
// and if so returns its generation.
func (a *Arena[T]) Alive(index uint32) (uint32, bool) {
	if int(index) >= len(a.slots) {
		return 0, false
	}
	s := &a.slots[index]
	return s.generation, s.alive
}

// At returns the value at a raw slot index regardless of liveness check
// cost already paid by the caller (used by iteration helpers that already
// confirmed liveness via Alive).
func (a *Arena[T]) At(index uint32) *T { return &a.slots[index].value }

// Each calls f for every live slot in allocation order, passing its index,
// generation and value pointer.
func (a *Arena[T]) Each(f func(index, generation uint32, value *T)) {
	for i := range a.slots {
		if a.slots[i].alive {
			f(uint32(i), a.slots[i].generation, &a.slots[i].value)
		}
	}
}
