// Package mapper: the mapping driver — the outer schedule that turns an
// enumerated graph into a LUT cover.
package mapper

import "fmt"

// Map runs the full mapping flow:
//
//  1. collect the DFS order (including choice classes) and align levels;
//  2. enumerate the K-feasible cuts of every node;
//  3. match delay-optimally, then — unless area recovery is off — once
//     under area flow and once under exact area (or switching activity).
//
// After a nil return the cover is readable through MappingNodes,
// GlobalArrival, and TotalArea. Any error aborts the run and leaves the
// manager in an unspecified but safe-to-drop state.
func (m *Manager) Map() error {
	// 1. Configuration validation.
	if err := m.validate(); err != nil {
		return err
	}
	m.invariantErr = nil

	// 2. Effective PI arrivals: latch-driven inputs never constrain the
	// critical path when optimizing latch paths only.
	if m.latchPaths && m.latchCount == 0 {
		m.warnf("Latch-path optimization skipped: the graph has no latches.\n")
		m.latchPaths = false
	}
	m.curArrivals = append(m.curArrivals[:0], m.arrivals...)
	if m.latchPaths {
		for i := len(m.curArrivals) - m.latchCount; i < len(m.curArrivals); i++ {
			m.curArrivals[i] = negInf
		}
	}

	// 3. Orders, choices, cuts.
	m.ands = m.dfsOrder(true)
	if err := m.consistencyCheck(); err != nil {
		return err
	}
	m.reportChoices()
	m.alignChoiceLevels()
	m.enumerateCuts()
	if err := m.checkCutLists(); err != nil {
		return err
	}

	// 4. Pass 1: delay-oriented matching establishes the baseline cover.
	if err := m.matchAll(true); err != nil {
		return err
	}
	m.totalArea = m.setRefsAndArea()
	iter := 1
	m.reportIteration(iter, "D", m.totalArea)
	iter++

	if !m.areaRecovery || m.lib.LutMax() == 1 {
		// A 1-LUT library admits exactly one cut per node; there is no
		// slack to trade.
		m.requiredGlobal = m.arrivalMax()

		return m.invariantErr
	}

	// 5. Pass 2: area flow under the required times of pass 1. Reference
	// counts are refreshed only after the whole pass, which behaves
	// better than updating them on the fly.
	m.computeRequiredGlobal(true)
	if err := m.matchAll(false); err != nil {
		return err
	}
	areaTrav := m.mappingAreaTrav()
	m.reportIteration(iter, "F", areaTrav)
	iter++
	m.totalArea = m.setRefsAndArea()
	if !m.eqEps(areaTrav, m.totalArea) {
		m.invariant(fmt.Sprintf("area mismatch after area-flow pass: %g vs %g", areaTrav, m.totalArea))
	}

	// 6. Pass 3: exact area, or switching activity when configured.
	m.computeRequiredGlobal(false)
	objective := "A"
	var err error
	if m.switchingCost {
		objective = "S"
		err = m.matchAllExact(true)
	} else {
		err = m.matchAllExact(false)
	}
	if err != nil {
		return err
	}
	m.totalArea = m.setRefsAndArea()
	m.reportIteration(iter, objective, m.totalArea)

	if m.verbose {
		m.latestOutputsReport()
	}

	return m.invariantErr
}

// validate checks the library and the output wiring before mapping.
func (m *Manager) validate() error {
	if m.lib == nil {
		return fmt.Errorf("no library attached: %w", ErrLibraryInconsistent)
	}
	if m.lib.LutMax() < 1 || m.lib.LutMax() > maxCutLeaves {
		return fmt.Errorf("LutMax = %d: %w", m.lib.LutMax(), ErrLibraryInconsistent)
	}
	for k := 1; k <= m.lib.LutMax(); k++ {
		if m.lib.Delay(k) <= 0 {
			return fmt.Errorf("LUT %d has delay %g: %w", k, m.lib.Delay(k), ErrLibraryInconsistent)
		}
	}
	if !m.lib.PinDelaysMonotone() {
		m.warnf("Warning: pin delays of library %q are not non-decreasing.\n", m.lib.Name())
	}
	for i, set := range m.outputSet {
		if !set {
			return fmt.Errorf("output %d: %w", i, ErrOutputUnset)
		}
	}
	if m.latchCount > len(m.inputs) || m.latchCount > len(m.outputs) {
		return fmt.Errorf("latch count %d: %w", m.latchCount, ErrLatchCount)
	}

	return nil
}

// reportIteration prints one recovery-schedule report line.
func (m *Manager) reportIteration(iter int, objective string, area float32) {
	if !m.verbose {
		return
	}
	if m.switchingCost {
		m.logf("Iteration %d%s :  Area = %8.1f  Switch = %8.1f\n", iter, objective, area, m.mappingSwitching())

		return
	}
	m.logf("Iteration %d%s :  Area = %8.1f  Delay = %5.2f\n", iter, objective, area, m.arrivalMax())
}
