// Package mapper: cut cost evaluation — arrival, area flow, and the
// refcount-aware exact area used by the final recovery pass.
package mapper

import "fmt"

// cutArrival returns the arrival time of a cut: the latest leaf arrival
// plus the worst-case delay of the LUT realizing the cut.
func (m *Manager) cutArrival(cut *Cut) float32 {
	t := negInf
	for _, l := range cut.Leaves() {
		t = max32(t, l.bestCut.arrival)
	}

	return t + m.lib.Delay(cut.Size())
}

// cutParams computes the arrival time and the area flow of a cut in one
// sweep over its leaves. The area flow of a leaf is amortized by its
// estimated fanout, clamped below at one.
func (m *Manager) cutParams(cut *Cut) {
	arrival := negInf
	flow := cut.rootArea(m.lib)
	for _, l := range cut.Leaves() {
		leafCut := l.bestCut
		arrival = max32(arrival, leafCut.arrival)
		est := l.estFanouts
		if est < 1 {
			est = 1
		}
		flow += leafCut.areaFlow / est
	}
	cut.arrival = arrival + m.lib.Delay(cut.Size())
	cut.areaFlow = flow
}

// cutRef references a cut inside the cover: every leaf gains a fanout,
// and leaves entering the cover recurse into their own best cuts. The
// return value is the area the cut adds to the cover.
func (m *Manager) cutRef(cut *Cut) float32 {
	area := cut.rootArea(m.lib)
	for _, child := range cut.Leaves() {
		if child.refs < 0 {
			m.invariant(fmt.Sprintf("node %d has negative refs", child.num))
			child.refs = 0
		}
		child.refs++
		if child.refs > 1 || !child.isAnd() {
			continue
		}
		area += m.cutRef(child.bestCut)
	}

	return area
}

// cutDeref is the inverse of cutRef: leaves dropping to zero references
// leave the cover and release their subtrees. Returns the area removed.
func (m *Manager) cutDeref(cut *Cut) float32 {
	area := cut.rootArea(m.lib)
	for _, child := range cut.Leaves() {
		if child.refs <= 0 {
			m.invariant(fmt.Sprintf("node %d dereferenced below zero", child.num))

			continue
		}
		child.refs--
		if child.refs > 0 || !child.isAnd() {
			continue
		}
		area += m.cutDeref(child.bestCut)
	}

	return area
}

// areaRefed returns the exact area of a currently referenced cut. The
// deref/ref round trip leaves every reference count unchanged.
func (m *Manager) areaRefed(cut *Cut) float32 {
	if cut.nLeaves == 1 {
		return 0
	}
	area := m.cutDeref(cut)
	back := m.cutRef(cut)
	if !m.eqEps(area, back) {
		m.invariant(fmt.Sprintf("deref/ref area mismatch: %g vs %g", area, back))
	}

	return area
}

// areaDerefed returns the exact area a currently unreferenced cut would
// add. The ref/deref round trip leaves every reference count unchanged.
func (m *Manager) areaDerefed(cut *Cut) float32 {
	if cut.nLeaves == 1 {
		return 0
	}
	back := m.cutRef(cut)
	area := m.cutDeref(cut)
	if !m.eqEps(area, back) {
		m.invariant(fmt.Sprintf("ref/deref area mismatch: %g vs %g", back, area))
	}

	return area
}

// invariant records the first broken internal invariant. Map surfaces it
// as ErrStructuralInvariant once the current pass completes.
func (m *Manager) invariant(msg string) {
	if m.invariantErr == nil {
		m.invariantErr = fmt.Errorf("%s: %w", msg, ErrStructuralInvariant)
	}
}
