// Package mapper: fixed-slot arenas for nodes and cuts.
//
// The manager owns every node and cut it ever creates. Allocation is a
// bump pointer into chunked backing arrays; the cut arena additionally
// keeps a free list (threaded through Cut.next) so cut lists can be
// rebuilt each recovery pass without touching the system allocator. Nodes
// are never recycled; both arenas release their memory only when the
// manager itself is dropped.
package mapper

// arenaChunk is the number of slots allocated per backing chunk.
const arenaChunk = 1024

type nodeArena struct {
	chunks [][]Node
	used   int // slots used in the last chunk
}

// alloc returns a zeroed node slot.
func (a *nodeArena) alloc() *Node {
	if len(a.chunks) == 0 || a.used == arenaChunk {
		a.chunks = append(a.chunks, make([]Node, arenaChunk))
		a.used = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.used]
	a.used++

	return n
}

type cutArena struct {
	chunks [][]Cut
	used   int
	free   *Cut // recycled slots, threaded through Cut.next
}

// alloc returns a zeroed cut slot, reusing a recycled one when available.
func (a *cutArena) alloc() *Cut {
	if c := a.free; c != nil {
		a.free = c.next
		*c = Cut{}

		return c
	}
	if len(a.chunks) == 0 || a.used == arenaChunk {
		a.chunks = append(a.chunks, make([]Cut, arenaChunk))
		a.used = 0
	}
	c := &a.chunks[len(a.chunks)-1][a.used]
	a.used++

	return c
}

// recycle returns a cut slot to the free list. The slot must not be
// reachable from any cut list afterwards.
func (a *cutArena) recycle(c *Cut) {
	if c == nil {
		return
	}
	c.next = a.free
	a.free = c
}
