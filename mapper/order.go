// Package mapper: traversal orders, cover reference counting, and
// choice-class bookkeeping.
//
// Visited sets are dynamic bitsets indexed by node number rather than
// per-node mark bits, so traversals never leave stale scratch state
// behind.
package mapper

import (
	"fmt"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// visitBit maps a node to its bitset index (the constant owns bit 0).
func visitBit(n *Node) uint { return uint(n.num + 1) }

// dfsOrder returns the nodes reachable from the outputs in DFS
// post-order: inputs first, then every AND after its fanins. With
// collectEquiv set, choice-class members are visited before their
// representative so the enumerator finds their cut lists ready.
func (m *Manager) dfsOrder(collectEquiv bool) []*Node {
	visited := bitset.New(uint(len(m.nodesByNum) + 1))
	order := make([]*Node, 0, len(m.nodesByNum))

	var rec func(n *Node)
	rec = func(n *Node) {
		if visited.Test(visitBit(n)) {
			return
		}
		if n.isAnd() {
			rec(n.fanin0.node)
			rec(n.fanin1.node)
		}
		if collectEquiv && n.nextEquiv != nil {
			rec(n.nextEquiv)
		}
		visited.Set(visitBit(n))
		order = append(order, n)
	}

	for _, in := range m.inputs {
		visited.Set(visitBit(in))
		order = append(order, in)
	}
	for _, e := range m.outputs {
		if e.node != m.const1 {
			rec(e.node)
		}
	}

	return order
}

// consistencyCheck verifies that every node reachable from the outputs
// without following equivalence links is a primary node with primary
// fanins. A violation means the host wired choices incorrectly.
func (m *Manager) consistencyCheck() error {
	for _, n := range m.dfsOrder(false) {
		if n.repr != nil {
			return fmt.Errorf("node %d is a secondary node on a primary path: %w", n.num, ErrStructuralInvariant)
		}
		if !n.isAnd() {
			continue
		}
		if n.fanin0.node.repr != nil || n.fanin1.node.repr != nil {
			return fmt.Errorf("node %d has a secondary fanin: %w", n.num, ErrStructuralInvariant)
		}
	}

	return nil
}

// reportChoices counts choice classes and members among the collected
// nodes and reports them once per mapping run.
func (m *Manager) reportChoices() {
	m.choiceClasses, m.choiceMembers = 0, 0
	for _, n := range m.ands {
		if !n.isAnd() {
			continue
		}
		if n.repr != nil {
			m.choiceMembers++
		} else if n.nextEquiv != nil {
			m.choiceClasses++
		}
	}
	if m.choiceMembers > 0 {
		m.warnf("Performing mapping with %d choice classes (%d choices).\n", m.choiceClasses, m.choiceMembers)
	}
}

// alignChoiceLevels recomputes node levels over the DFS order and raises
// every choice class to the maximum level among its members, so that
// decreasing-level order remains a valid reverse topological order for
// required-time propagation.
func (m *Manager) alignChoiceLevels() {
	for _, n := range m.ands {
		if !n.isAnd() {
			continue
		}
		n.level = 1 + max32i(n.fanin0.node.level, n.fanin1.node.level)
		if n.repr != nil || n.nextEquiv == nil {
			continue
		}
		// Members precede their representative in the DFS order, so their
		// levels are final here.
		lvl := n.level
		for t := n.nextEquiv; t != nil; t = t.nextEquiv {
			lvl = max32i(lvl, t.level)
		}
		n.level = lvl
		for t := n.nextEquiv; t != nil; t = t.nextEquiv {
			t.level = lvl
		}
	}
}

// maxMappedLevel returns the highest level among the collected nodes.
// Choice alignment can push a shared node above its consumers, so the
// scan covers the whole DFS order, not just the output drivers.
func (m *Manager) maxMappedLevel() int32 {
	var lvl int32
	for _, n := range m.ands {
		lvl = max32i(lvl, n.level)
	}
	for _, e := range m.outputs {
		lvl = max32i(lvl, e.node.level)
	}

	return lvl
}

// setRefsAndArea recomputes the reference counts of the selected cover,
// rebuilds m.mapping in reverse topological (decreasing level) order, and
// returns the cover area.
func (m *Manager) setRefsAndArea() float32 {
	// 1. Clear all references, then re-derive them from the outputs.
	m.const1.refs = 0
	for _, n := range m.nodesByNum {
		n.refs = 0
	}
	buckets := make([][]*Node, m.maxMappedLevel()+1)

	var rec func(n *Node) float32
	rec = func(n *Node) float32 {
		n.refs++
		if n.refs > 1 || !n.isAnd() {
			return 0
		}
		buckets[n.level] = append(buckets[n.level], n)
		area := n.bestCut.rootArea(m.lib)
		var faninBuf [2]*Node // per level: nested calls reuse their own
		for _, leaf := range n.coverLeaves(&faninBuf) {
			area += rec(leaf)
		}

		return area
	}

	var area float32
	for _, e := range m.outputs {
		if e.node == m.const1 {
			continue
		}
		area += rec(e.node)
		e.node.refs++
	}

	// 2. Rebuild the cover order: levels descending, last-visited first
	// within a level.
	m.mapping = m.mapping[:0]
	for lvl := len(buckets) - 1; lvl >= 0; lvl-- {
		b := buckets[lvl]
		for i := len(b) - 1; i >= 0; i-- {
			m.mapping = append(m.mapping, b[i])
		}
	}

	return area
}

// mappingAreaTrav computes the cover area by traversal alone, leaving the
// reference counts untouched.
func (m *Manager) mappingAreaTrav() float32 {
	visited := bitset.New(uint(len(m.nodesByNum) + 1))

	var rec func(n *Node) float32
	rec = func(n *Node) float32 {
		if !n.isAnd() || visited.Test(visitBit(n)) {
			return 0
		}
		visited.Set(visitBit(n))
		area := n.bestCut.rootArea(m.lib)
		var faninBuf [2]*Node // per level: nested calls reuse their own
		for _, leaf := range n.coverLeaves(&faninBuf) {
			area += rec(leaf)
		}

		return area
	}

	var area float32
	for _, e := range m.outputs {
		if e.node != m.const1 {
			area += rec(e.node)
		}
	}

	return area
}

// latestOutputsReport prints the latest-arriving primary outputs (up to
// five) with their selected polarity.
func (m *Manager) latestOutputsReport() {
	idx := make([]int, len(m.outputs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return m.outputArrival(idx[a]) > m.outputArrival(idx[b])
	})
	limit := len(idx)
	if limit > 5 {
		limit = 5
	}
	for _, i := range idx[:limit] {
		pol := "POS"
		if m.outputs[i].compl {
			pol = "NEG"
		}
		m.logf("Output %4d : Delay = %8.2f  %s\n", i, m.outputArrival(i), pol)
	}
}

// outputArrival returns the arrival time of output i's driver.
func (m *Manager) outputArrival(i int) float32 {
	e := m.outputs[i]
	if e.node == m.const1 || e.node.bestCut == nil {
		return 0
	}

	return e.node.bestCut.arrival
}
