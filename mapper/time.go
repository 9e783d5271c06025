// Package mapper: the timing engine — arrival maxima and required-time
// propagation over the selected cover.
package mapper

// arrivalMax returns the arrival time of the latest selected output.
// Under latch-path optimization only the latch-bound outputs count.
// Constant-driven outputs never constrain timing.
func (m *Manager) arrivalMax() float32 {
	outs := m.outputs
	if m.latchPaths {
		outs = outs[len(outs)-m.latchCount:]
	}
	t := negInf
	seen := false
	for _, e := range outs {
		if e.node == m.const1 || e.node.bestCut == nil {
			continue
		}
		t = max32(t, e.node.bestCut.arrival)
		seen = true
	}
	if !seen {
		return 0
	}

	return t
}

// computeRequiredGlobal derives the global required time from the current
// arrival maximum and the user delay target, then propagates it backward.
// The target can raise the required time but never lower it; an unmet
// target is reported once and mapping continues.
func (m *Manager) computeRequiredGlobal(firstTime bool) {
	m.requiredGlobal = m.arrivalMax()
	if m.delayTarget >= 0 {
		switch {
		case m.gtEps(m.requiredGlobal, m.delayTarget):
			if firstTime {
				m.warnf("Cannot meet the target required times (%4.2f). Mapping continues anyway.\n", m.delayTarget)
			}
		case m.ltEps(m.requiredGlobal, m.delayTarget):
			if firstTime {
				m.logf("Relaxing the required times from (%4.2f) to the target (%4.2f).\n", m.requiredGlobal, m.delayTarget)
			}
			m.requiredGlobal = m.delayTarget
		}
	}
	m.computeRequired(m.requiredGlobal)
}

// computeRequired resets every node's required time, pins the selected
// output drivers to required, and relaxes backward through each selected
// cut over the reverse topological cover order.
func (m *Manager) computeRequired(required float32) {
	// 1. Unset means "no constraint yet".
	for _, n := range m.ands {
		n.required = posInf
	}

	// 2. Output drivers take the global required time.
	outs := m.outputs
	if m.latchPaths {
		outs = outs[len(outs)-m.latchCount:]
	}
	for _, e := range outs {
		if e.node != m.const1 {
			e.node.required = required
		}
	}

	// 3. Backward pass: m.mapping is already in reverse topological order.
	var faninBuf [2]*Node
	for _, n := range m.mapping {
		if !n.isAnd() {
			continue
		}
		slack := n.required - m.lib.Delay(n.bestCut.Size())
		for _, leaf := range n.coverLeaves(&faninBuf) {
			leaf.required = min32(leaf.required, slack)
		}
	}
}
