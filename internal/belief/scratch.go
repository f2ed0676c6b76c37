package belief

import "github.com/Ludeme/Ludii-sub013/internal/board"

// Scratch is the reusable per-worker memory of the engine. A Scratch must
// not be used by two goroutines at once; states themselves share nothing.
type Scratch struct {
	kingHits [64]uint8
	moves    board.MoveList
	packed   []board.Packed
}

// NewScratch allocates a scratch slot.
func NewScratch() *Scratch {
	return &Scratch{packed: make([]board.Packed, 0, 256)}
}

func ensure(sc *Scratch) *Scratch {
	if sc == nil {
		return NewScratch()
	}
	return sc
}

// ScratchPool holds one slot per worker plus one for the caller.
type ScratchPool struct {
	slots []*Scratch
}

// NewScratchPool allocates numThreads+1 slots. Slot 0 belongs to the caller.
func NewScratchPool(numThreads int) *ScratchPool {
	if numThreads < 0 {
		numThreads = 0
	}
	p := &ScratchPool{slots: make([]*Scratch, numThreads+1)}
	for i := range p.slots {
		p.slots[i] = NewScratch()
	}
	return p
}

// Slot returns slot i.
func (p *ScratchPool) Slot(i int) *Scratch {
	return p.slots[i]
}

// Len returns the number of slots.
func (p *ScratchPool) Len() int {
	return len(p.slots)
}
