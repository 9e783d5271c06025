// White-box tests of arrival/required-time propagation.
package mapper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lutmap/lutlib"
)

func TestRequiredTimes_Chain(t *testing.T) {
	lib, err := lutlib.NewUniform("k2", []float32{1, 2}, []float32{1, 2})
	require.NoError(t, err)
	m := quiet(3, 1, lib)
	x := m.And(m.InputEdge(0), m.InputEdge(1))
	out := m.And(x, m.InputEdge(2))
	m.SetOutput(0, out)
	require.NoError(t, m.Map())

	// Two stacked 2-LUTs: arrivals 2 and 4; required times relax
	// backward by one LUT delay per stage.
	assert.InDelta(t, 2.0, x.Node().Arrival(), 1e-3)
	assert.InDelta(t, 4.0, out.Node().Arrival(), 1e-3)
	assert.InDelta(t, 4.0, m.RequiredGlobal(), 1e-3)
	assert.InDelta(t, 4.0, out.Node().RequiredTime(), 1e-3)
	assert.InDelta(t, 2.0, x.Node().RequiredTime(), 1e-3)
	assert.InDelta(t, 0.0, m.inputs[0].RequiredTime(), 1e-3)
	assert.InDelta(t, 2.0, m.inputs[2].RequiredTime(), 1e-3)
}

func TestRequiredTimes_SelectionMeetsRequired(t *testing.T) {
	m := quiet(4, 2, lib4(t))
	x := m.And(m.InputEdge(0), m.InputEdge(1))
	m.SetOutput(0, m.And(x, m.InputEdge(2)))
	m.SetOutput(1, m.And(m.InputEdge(3), x))
	require.NoError(t, m.Map())

	for _, n := range m.mapping {
		assert.LessOrEqual(t, n.Arrival(), n.RequiredTime()+m.epsilon,
			"node %d arrives after its required time", n.Num())
	}
}

func TestPiArrivalsShiftTheCriticalPath(t *testing.T) {
	m := quiet(2, 1, lib4(t))
	out := m.And(m.InputEdge(0), m.InputEdge(1))
	m.SetOutput(0, out)
	require.NoError(t, m.SetPIArrivals([]float32{5, 0}))
	require.NoError(t, m.Map())

	assert.InDelta(t, 7.0, m.GlobalArrival(), 1e-3)
}

func TestDelayTargetRaisesRequired(t *testing.T) {
	lib, err := lutlib.NewUniform("k2", []float32{1, 2}, []float32{1, 1})
	require.NoError(t, err)
	m := quiet(3, 1, lib)
	x := m.And(m.InputEdge(0), m.InputEdge(1))
	out := m.And(x, m.InputEdge(2))
	m.SetOutput(0, out)
	m.SetDelayTarget(10)
	require.NoError(t, m.Map())

	// Arrival 2 is raised to the free target; slack flows backward.
	assert.InDelta(t, 10.0, m.RequiredGlobal(), 1e-3)
	assert.LessOrEqual(t, m.GlobalArrival(), float32(10)+m.epsilon)
	assert.InDelta(t, 10.0, out.Node().RequiredTime(), 1e-3)
	assert.InDelta(t, 9.0, x.Node().RequiredTime(), 1e-3)
}

func TestLatchPathMasking(t *testing.T) {
	m := quiet(3, 1, lib4(t))
	x := m.And(m.InputEdge(0), m.InputEdge(1))
	out := m.And(x, m.InputEdge(2)) // input 2 is latch-driven
	m.SetOutput(0, out)
	m.SetLatchPaths(true)
	m.SetLatchCount(1)
	require.NoError(t, m.Map())

	// The latch-driven input contributes arrival -Inf, so the global
	// arrival is set by the non-latch fanins alone: three inputs through
	// one 3-LUT.
	assert.InDelta(t, 3.0, m.GlobalArrival(), 1e-3)
	assert.False(t, math.IsInf(float64(m.GlobalArrival()), -1))
}

func TestLatchPathsWithoutLatchesFallsBack(t *testing.T) {
	m := quiet(2, 1, lib4(t))
	m.SetOutput(0, m.And(m.InputEdge(0), m.InputEdge(1)))
	m.SetLatchPaths(true) // latch count left at zero
	require.NoError(t, m.Map())

	assert.InDelta(t, 2.0, m.GlobalArrival(), 1e-3)
}
