// Package mapper: K-feasible cut enumeration.
//
// For every AND node, in DFS order, the enumerator merges the cut lists
// of the two fanins pairwise, deduplicates merged leaf sets through a
// per-node canonicalization table, buckets the survivors by leaf count,
// prunes the list to a fixed budget, and prepends the trivial cut {node}.
// Choice classes are folded at the representative: each member's
// non-trivial cuts are appended (phase-marked when the member realizes
// the opposite polarity) and the list is re-sorted under the same budget.
package mapper

import (
	"fmt"
	"math/bits"
	"sort"
)

// cutTable canonicalizes merged leaf sets for a single node. Bins are
// open-addressed with linear probing; a side list of touched bins makes
// the reset between nodes O(cuts) instead of O(bins).
type cutTable struct {
	bins    []*Cut
	touched []int
	scratch []*Cut              // sorting staging
	merge   [maxCutLeaves]*Node // leaf-union staging
}

func newCutTable() *cutTable {
	return &cutTable{
		bins:    make([]*Cut, nextPrime(10*cutsMaxCompute)),
		touched: make([]int, 0, 2*cutsMaxCompute),
		scratch: make([]*Cut, 0, 2*cutsMaxCompute),
	}
}

// hashLeaves folds a leaf set into a table key. Keys depend only on node
// numbers, keeping the enumeration deterministic across runs.
func (t *cutTable) hashLeaves(leaves []*Node) int {
	var key uint64
	for i, l := range leaves {
		key += hashPrimes[i%len(hashPrimes)] * uint64(uint32(l.num))
	}

	return int(key % uint64(len(t.bins)))
}

// lookup probes for a leaf set. It returns -1 when an identical cut is
// already stored, otherwise the free bin where the new cut belongs.
func (t *cutTable) lookup(leaves []*Node) int {
	b := t.hashLeaves(leaves)
	for ; t.bins[b] != nil; b = (b + 1) % len(t.bins) {
		stored := t.bins[b]
		if int(stored.nLeaves) != len(leaves) {
			continue
		}
		same := true
		for i := range leaves {
			if stored.leaves[i] != leaves[i] {
				same = false

				break
			}
		}
		if same {
			return -1
		}
	}

	return b
}

// restart clears only the bins touched since the previous restart.
func (t *cutTable) restart() {
	for _, b := range t.touched {
		t.bins[b] = nil
	}
	t.touched = t.touched[:0]
}

// enumerateCuts populates the cut list of every AND node reachable from
// the outputs. Complexity: O(Σ |cuts(f0)|·|cuts(f1)|) bounded by the
// per-node compute cap.
func (m *Manager) enumerateCuts() {
	m.createPiCuts()
	table := newCutTable()
	for _, n := range m.ands {
		if n.isAnd() {
			m.computeCuts(table, n)
		}
	}
	if m.verbose {
		nCuts := m.CutCount()
		m.logf("Nodes = %6d. Total %d-cuts = %d. Cuts per node = %.1f.\n",
			len(m.nodesByNum), m.lib.LutMax(), nCuts, float64(nCuts)/float64(len(m.nodesByNum)))
	}
}

// createPiCuts assigns the trivial cut to every primary input and selects
// it as the input's best cut.
func (m *Manager) createPiCuts() {
	for _, in := range m.inputs {
		if in.cuts != nil {
			continue
		}
		cut := m.trivialCut(in)
		in.cuts = cut
		in.bestCut = cut
	}
}

// trivialCut builds the single-leaf cut {n}.
func (m *Manager) trivialCut(n *Node) *Cut {
	cut := m.cutMem.alloc()
	cut.nLeaves = 1
	cut.leaves[0] = n
	cut.sign = nodeSign(n)

	return cut
}

// computeCuts fills n.cuts. The fanin lists are already populated because
// nodes arrive in DFS order.
func (m *Manager) computeCuts(table *cutTable, n *Node) {
	if n.cuts != nil {
		return
	}

	// 1. Pairwise merge of the fanin lists.
	list := m.mergeCutLists(table,
		n.fanin0.node.cuts, n.fanin1.node.cuts,
		n.fanin0.compl, n.fanin1.compl)

	// 2. Representatives absorb the non-trivial cuts of every class
	// member (members were processed earlier in the DFS order).
	if n.repr == nil {
		for t := n.nextEquiv; t != nil; t = t.nextEquiv {
			list = unionCutLists(list, t.cuts)
			list = m.sortCuts(table, list)
		}
	}

	// 3. The trivial cut goes at the head of the list.
	trivial := m.trivialCut(n)
	trivial.next = list
	n.cuts = trivial

	// 4. Secondary class members realizing the opposite polarity mark
	// their cuts, so the representative later knows to complement them.
	if n.repr != nil && phaseDiffers(n, n.repr) {
		for c := n.cuts; c != nil; c = c.next {
			c.phase = true
		}
	}
}

// mergeCutLists produces the merged, deduplicated, pruned list of cuts
// over the cartesian product of two fanin lists. comp1/comp2 are the
// complement flags of the fanin edges, recorded on the parents of every
// merged cut.
func (m *Manager) mergeCutLists(table *cutTable, list1, list2 *Cut, comp1, comp2 bool) *Cut {
	table.restart()
	maxLeaves := m.lib.LutMax()
	var buckets [maxCutLeaves + 1]*Cut
	counter := 0

outer:
	for t1 := list1; t1 != nil; t1 = t1.next {
		for t2 := list2; t2 != nil; t2 = t2.next {
			// Signature prefilter: the union popcount bounds the merged
			// size from above in constant time.
			if bits.OnesCount32(t1.sign|t2.sign) > maxLeaves {
				continue
			}
			leaves, ok := mergeLeafSets(&table.merge, t1, t2, maxLeaves)
			if !ok {
				continue
			}
			cut := m.considerCut(table, leaves)
			if cut == nil {
				continue // duplicate leaf set
			}
			cut.parentA = cutParent{cut: t1, compl: comp1}
			cut.parentB = cutParent{cut: t2, compl: comp2}
			cut.sign = t1.sign | t2.sign
			cut.next = buckets[cut.nLeaves]
			buckets[cut.nLeaves] = cut
			counter++
			if counter == cutsMaxCompute {
				break outer
			}
		}
	}

	// Concatenate the buckets in ascending leaf-count order.
	var head *Cut
	tail := &head
	for i := 1; i <= maxLeaves; i++ {
		if buckets[i] == nil {
			continue
		}
		*tail = buckets[i]
		last := buckets[i]
		for last.next != nil {
			last = last.next
		}
		tail = &last.next
	}

	return m.sortCuts(table, head)
}

// mergeLeafSets computes the ordered union of the leaves of two cuts into
// buf. It reports false when the union exceeds maxLeaves.
func mergeLeafSets(buf *[maxCutLeaves]*Node, c1, c2 *Cut, maxLeaves int) ([]*Node, bool) {
	total := int(c1.nLeaves)
	for i := 0; i < int(c2.nLeaves); i++ {
		leaf := c2.leaves[i]
		found := false
		for k := 0; k < int(c1.nLeaves); k++ {
			if c1.leaves[k] == leaf {
				found = true

				break
			}
		}
		if found {
			continue
		}
		if total == maxLeaves {
			return nil, false
		}
		buf[total] = leaf
		total++
	}
	copy(buf[:c1.nLeaves], c1.leaves[:c1.nLeaves])

	// Order the union by ascending node number.
	leaves := buf[:total]
	for i := 1; i < total; i++ {
		for k := i; k > 0 && leaves[k].num < leaves[k-1].num; k-- {
			leaves[k], leaves[k-1] = leaves[k-1], leaves[k]
		}
	}

	return leaves, true
}

// considerCut enters a merged leaf set into the canonicalization table.
// Only the first insertion of each leaf set produces a cut.
func (m *Manager) considerCut(table *cutTable, leaves []*Node) *Cut {
	place := table.lookup(leaves)
	if place < 0 {
		return nil
	}
	cut := m.cutMem.alloc()
	cut.nLeaves = uint8(len(leaves))
	copy(cut.leaves[:], leaves)
	table.bins[place] = cut
	table.touched = append(table.touched, place)

	return cut
}

// unionCutLists appends the non-trivial part of a class member's list to
// the end of list. The member keeps only its trivial cut afterwards.
func unionCutLists(list, member *Cut) *Cut {
	if member == nil {
		return list
	}
	stolen := member.next
	member.next = nil
	if list == nil {
		return stolen
	}
	last := list
	for last.next != nil {
		last = last.next
	}
	last.next = stolen

	return list
}

// sortCuts stably orders a list by ascending leaf count and truncates it
// to the keep budget, recycling the pruned cuts.
func (m *Manager) sortCuts(table *cutTable, list *Cut) *Cut {
	scratch := table.scratch[:0]
	for c := list; c != nil; c = c.next {
		scratch = append(scratch, c)
	}
	table.scratch = scratch // keep any growth
	sort.SliceStable(scratch, func(i, j int) bool {
		return scratch[i].nLeaves < scratch[j].nLeaves
	})
	// Reserve one budget slot for the trivial cut prepended later.
	if len(scratch) > cutsMaxKeep-1 {
		for _, c := range scratch[cutsMaxKeep-1:] {
			m.cutMem.recycle(c)
		}
		scratch = scratch[:cutsMaxKeep-1]
	}
	var head *Cut
	tail := &head
	for _, c := range scratch {
		*tail = c
		tail = &c.next
	}
	*tail = nil

	return head
}

// checkCutLists verifies the per-node cut-list invariants after
// enumeration. A failure reports an engine bug, not a user input problem.
func (m *Manager) checkCutLists() error {
	for _, n := range m.ands {
		if !n.isAnd() {
			continue
		}
		head := n.cuts
		if head == nil || !head.IsTrivial() || head.leaves[0] != n {
			return fmt.Errorf("node %d: first cut is not the trivial cut: %w", n.num, ErrStructuralInvariant)
		}
		for c := head; c != nil; c = c.next {
			if int(c.nLeaves) > m.lib.LutMax() {
				return fmt.Errorf("node %d: cut of %d leaves exceeds the library: %w", n.num, c.nLeaves, ErrStructuralInvariant)
			}
			if c.sign != computeSignature(c.Leaves()) {
				return fmt.Errorf("node %d: stale cut signature: %w", n.num, ErrStructuralInvariant)
			}
			for i := 1; i < int(c.nLeaves); i++ {
				if c.leaves[i-1].num >= c.leaves[i].num {
					return fmt.Errorf("node %d: cut leaves out of order: %w", n.num, ErrStructuralInvariant)
				}
			}
			// Leaves sit strictly below their root unless choice classes
			// realigned the levels.
			if m.choiceClasses == 0 && c != head {
				for _, l := range c.Leaves() {
					if l.isAnd() && l.level >= n.level {
						return fmt.Errorf("node %d: cut leaf %d not below the root: %w", n.num, l.num, ErrStructuralInvariant)
					}
				}
			}
		}
	}

	return nil
}
