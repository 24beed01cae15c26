package sim

import "container/heap"

// serverSlot is the next-free time of one server.
type serverSlot struct {
	nextFree float64
	index    int
}

// serverHeap implements a priority queue of server slots with deterministic ordering.
// Ordering: next-free time → server index
type serverHeap struct {
	slots []serverSlot
}

// newServerHeap seeds one slot per server, all free at t=0.
func newServerHeap(n int) *serverHeap {
	h := &serverHeap{
		slots: make([]serverSlot, n),
	}
	for i := range h.slots {
		h.slots[i] = serverSlot{index: i}
	}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *serverHeap) Len() int {
	return len(h.slots)
}

// Less implements heap.Interface with deterministic ordering
func (h *serverHeap) Less(i, j int) bool {
	si, sj := h.slots[i], h.slots[j]

	// Primary: next-free time (earlier first)
	if si.nextFree != sj.nextFree {
		return si.nextFree < sj.nextFree
	}

	// Secondary: server index (lower first, deterministic tie-breaker)
	return si.index < sj.index
}

// Swap implements heap.Interface
func (h *serverHeap) Swap(i, j int) {
	h.slots[i], h.slots[j] = h.slots[j], h.slots[i]
}

// Push implements heap.Interface
func (h *serverHeap) Push(x interface{}) {
	h.slots = append(h.slots, x.(serverSlot))
}

// Pop implements heap.Interface
func (h *serverHeap) Pop() interface{} {
	old := h.slots
	n := len(old)
	item := old[n-1]
	h.slots = old[0 : n-1]
	return item
}

// Peek returns the earliest-free slot without removing it.
// The heap is never empty during an estimation.
func (h *serverHeap) Peek() serverSlot {
	return h.slots[0]
}

// Occupy hands one customer to the earliest-free server, extending its
// next-free time by d, and returns that server's updated slot.
// Equivalent to pop + push, with a single sift-down.
func (h *serverHeap) Occupy(d float64) serverSlot {
	h.slots[0].nextFree += d
	occupied := h.slots[0]
	heap.Fix(h, 0)
	return occupied
}
