// Package mapper: cut selection under the three traversal criteria.
//
// matchAll implements the delay-oriented and area-flow modes over the
// forward topological order; matchAllExact implements the exact-area and
// switching modes, which re-reference the cover around every candidate
// to price it precisely.
package mapper

import "fmt"

// matchAll assigns a best cut to every primary AND node. With
// delayOriented set it minimizes arrival and breaks ties on area flow;
// otherwise it minimizes area flow under the node's required time and
// breaks ties on arrival. Complexity: O(Σ cuts·leaves).
func (m *Manager) matchAll(delayOriented bool) error {
	// PI arrivals feed every downstream cut evaluation.
	for i, in := range m.inputs {
		in.bestCut.arrival = m.curArrivals[i]
	}
	for _, n := range m.ands {
		if !n.isAnd() || n.repr != nil {
			continue
		}
		if err := m.matchNode(n, delayOriented); err != nil {
			return err
		}
	}

	return nil
}

// matchNode evaluates every non-trivial cut of n and selects the winner.
func (m *Manager) matchNode(n *Node, delayOriented bool) error {
	if n.cuts.next == nil {
		if m.lib.LutMax() == 1 {
			m.matchDegenerate(n)

			return nil
		}

		return fmt.Errorf("node %d: %w", n.num, ErrNodeWithoutCuts)
	}

	// Fanout estimate: raw count on the first pass, EWMA afterwards.
	if n.estFanouts < 0 {
		n.estFanouts = float32(n.refs)
	} else {
		n.estFanouts = (2*n.estFanouts + float32(n.refs)) / 3
	}

	old := n.bestCut
	n.bestCut = nil
	for cut := n.cuts.next; cut != nil; cut = cut.next {
		m.cutParams(cut)
		// Drop cuts that miss the required time.
		if m.gtEps(cut.arrival, n.required) {
			continue
		}
		if n.bestCut == nil {
			n.bestCut = cut

			continue
		}
		best := n.bestCut
		var better bool
		if delayOriented {
			better = m.gtEps(best.arrival, cut.arrival) ||
				(m.eqEps(best.arrival, cut.arrival) && m.gtEps(best.areaFlow, cut.areaFlow))
		} else {
			better = m.gtEps(best.areaFlow, cut.areaFlow) ||
				(m.eqEps(best.areaFlow, cut.areaFlow) && m.gtEps(best.arrival, cut.arrival))
		}
		if better {
			n.bestCut = cut
		}
	}

	// An unmeetable required time keeps the previous selection.
	if n.bestCut == nil {
		if old == nil {
			return fmt.Errorf("node %d: %w", n.num, ErrUnmeetableRequired)
		}
		n.bestCut = old
	}

	return nil
}

// matchDegenerate handles a 1-LUT library, where the trivial cut is the
// only feasible implementation of every AND node.
func (m *Manager) matchDegenerate(n *Node) {
	cut := n.cuts
	cut.arrival = max32(n.fanin0.node.bestCut.arrival, n.fanin1.node.bestCut.arrival) + m.lib.Delay(1)
	cut.areaFlow = cut.rootArea(m.lib)
	n.bestCut = cut
}

// matchAllExact re-matches every primary AND node under the exact-area
// objective, or the switching-activity objective when useSwitch is set.
// Candidates are priced by referencing them into the cover and
// dereferencing them back out, so shared logic is charged only once.
func (m *Manager) matchAllExact(useSwitch bool) error {
	for i, in := range m.inputs {
		in.bestCut.arrival = m.curArrivals[i]
	}
	for _, n := range m.ands {
		if !n.isAnd() || n.repr != nil {
			continue
		}
		if err := m.matchNodeExact(n, useSwitch); err != nil {
			return err
		}
	}

	return nil
}

// matchNodeExact evaluates every non-trivial cut of n under the exact
// objective. The node's current cut is dereferenced first so the
// candidate prices do not count logic the node itself holds alive.
func (m *Manager) matchNodeExact(n *Node, useSwitch bool) error {
	if n.cuts.next == nil {
		if m.lib.LutMax() == 1 {
			return nil // nothing to improve
		}

		return fmt.Errorf("node %d: %w", n.num, ErrNodeWithoutCuts)
	}

	old := n.bestCut
	if n.refs > 0 {
		if useSwitch {
			m.cutDerefSwitch(n, old)
		} else {
			m.cutDeref(old)
		}
	}

	n.bestCut = nil
	for cut := n.cuts.next; cut != nil; cut = cut.next {
		cut.arrival = m.cutArrival(cut)
		if m.gtEps(cut.arrival, n.required) {
			continue
		}
		if useSwitch {
			cut.areaFlow = m.switchDerefed(n, cut)
		} else {
			cut.areaFlow = m.areaDerefed(cut)
		}
		if n.bestCut == nil {
			n.bestCut = cut

			continue
		}
		best := n.bestCut
		if m.gtEps(best.areaFlow, cut.areaFlow) ||
			(m.eqEps(best.areaFlow, cut.areaFlow) && m.gtEps(best.arrival, cut.arrival)) {
			n.bestCut = cut
		}
	}

	if n.bestCut == nil {
		n.bestCut = old
		if old == nil {
			return fmt.Errorf("node %d: %w", n.num, ErrUnmeetableRequired)
		}
		if n.refs > 0 {
			if useSwitch {
				m.cutRefSwitch(n, old)
			} else {
				m.cutRef(old)
			}
		}

		return nil
	}
	if n.refs > 0 {
		if useSwitch {
			n.bestCut.areaFlow = m.cutRefSwitch(n, n.bestCut)
		} else {
			n.bestCut.areaFlow = m.cutRef(n.bestCut)
		}
	}

	return nil
}
