// Package mapper_test runs the end-to-end mapping scenarios through the
// public API only: degenerate graphs, absorption, fanout sharing, latch
// masking, delay targets, and replay determinism.
package mapper_test

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lutmap/lutlib"
	"github.com/katalvlaran/lutmap/mapper"
)

// MappingSuite shares the reference 4-LUT library across scenarios.
type MappingSuite struct {
	suite.Suite
	lib *lutlib.Library
}

func TestMappingSuite(t *testing.T) {
	suite.Run(t, new(MappingSuite))
}

func (s *MappingSuite) SetupSuite() {
	lib, err := lutlib.NewUniform("k4", []float32{1, 2, 4, 8}, []float32{1, 2, 3, 4})
	s.Require().NoError(err)
	s.lib = lib
}

func (s *MappingSuite) newManager(nIn, nOut int) *mapper.Manager {
	return mapper.New(nIn, nOut,
		mapper.WithLutLibrary(s.lib),
		mapper.WithOutput(io.Discard))
}

// leafNums flattens a cut to leaf numbers for comparisons.
func leafNums(c *mapper.Cut) []int32 {
	nums := make([]int32, 0, c.Size())
	for _, l := range c.Leaves() {
		nums = append(nums, l.Num())
	}

	return nums
}

// Scenario 1: an output wired straight to an input needs no LUT.
func (s *MappingSuite) TestPassThroughOutput() {
	m := s.newManager(1, 1)
	m.SetOutput(0, m.And(m.InputEdge(0), m.Const1Edge()))
	s.Require().NoError(m.SetPIArrivals([]float32{1.5}))
	s.Require().NoError(m.Map())

	s.Empty(m.MappingNodes())
	s.InDelta(0.0, m.TotalArea(), 1e-3)
	s.InDelta(1.5, m.GlobalArrival(), 1e-3)
}

// Scenario 2: a single AND maps to one 2-LUT.
func (s *MappingSuite) TestSingleAnd() {
	m := s.newManager(2, 1)
	out := m.And(m.InputEdge(0), m.InputEdge(1))
	m.SetOutput(0, out)
	s.Require().NoError(m.Map())

	nodes := m.MappingNodes()
	s.Require().Len(nodes, 1)
	s.Equal([]int32{0, 1}, leafNums(nodes[0].BestCut()))
	s.Equal(2, nodes[0].BestCut().Size())
	s.InDelta(2.0, m.GlobalArrival(), 1e-3)
	s.InDelta(2.0, m.TotalArea(), 1e-3)
}

// Scenario 3: a balanced tree of three ANDs. Under this library the
// three-2-LUT cover (area 6) beats the single 4-LUT (area 8) on the
// area-flow tie-break at equal depth, and the full-input cut must still
// be present in the root's enumeration.
func (s *MappingSuite) TestBalancedTree() {
	m := s.newManager(4, 1)
	x := m.And(m.InputEdge(0), m.InputEdge(1))
	y := m.And(m.InputEdge(2), m.InputEdge(3))
	out := m.And(x, y)
	m.SetOutput(0, out)
	s.Require().NoError(m.Map())

	s.InDelta(4.0, m.GlobalArrival(), 1e-3)
	s.InDelta(6.0, m.TotalArea(), 1e-3)
	s.Len(m.MappingNodes(), 3)
	s.Equal([]int32{x.Node().Num(), y.Node().Num()}, leafNums(out.Node().BestCut()))
}

// Scenario 4: fanout sharing. Without slack the flat 3-LUT covers win
// (area 8); with a free delay target the recovery passes must rebuild
// the shared 2-LUT cover (area 6).
func (s *MappingSuite) TestFanoutSharing() {
	build := func() (*mapper.Manager, mapper.Edge) {
		m := s.newManager(4, 2)
		x := m.And(m.InputEdge(0), m.InputEdge(1))
		m.SetOutput(0, m.And(x, m.InputEdge(2)))
		m.SetOutput(1, m.And(x, m.InputEdge(3)))

		return m, x
	}

	tight, _ := build()
	s.Require().NoError(tight.Map())
	s.InDelta(8.0, tight.TotalArea(), 1e-3)
	s.InDelta(3.0, tight.GlobalArrival(), 1e-3)

	relaxed, x := build()
	relaxed.SetDelayTarget(10)
	s.Require().NoError(relaxed.Map())
	s.InDelta(6.0, relaxed.TotalArea(), 1e-3)
	s.Positive(x.Node().Refs(), "the shared node re-enters the cover")
	s.LessOrEqual(relaxed.GlobalArrival(), float32(10)+1e-3)
}

// Scenario 5: a latch-driven input never constrains the critical path.
func (s *MappingSuite) TestLatchPathMasking() {
	m := s.newManager(3, 1)
	x := m.And(m.InputEdge(0), m.InputEdge(1))
	m.SetOutput(0, m.And(x, m.InputEdge(2)))
	m.SetLatchPaths(true)
	m.SetLatchCount(1)
	s.Require().NoError(m.Map())

	s.InDelta(3.0, m.GlobalArrival(), 1e-3)
}

// Scenario 6: a delay target above the achievable arrival raises the
// global required time and leaves the area passes free.
func (s *MappingSuite) TestDelayTargetSlack() {
	lib, err := lutlib.NewUniform("k2", []float32{1, 2}, []float32{1, 1})
	s.Require().NoError(err)
	m := mapper.New(5, 1, mapper.WithLutLibrary(lib), mapper.WithOutput(io.Discard))
	e := m.InputEdge(0)
	for i := 1; i < 5; i++ {
		e = m.And(e, m.InputEdge(i))
	}
	m.SetOutput(0, e)
	m.SetDelayTarget(10)
	s.Require().NoError(m.Map())

	s.InDelta(10.0, m.RequiredGlobal(), 1e-3)
	s.LessOrEqual(m.GlobalArrival(), float32(10)+1e-3)
	s.InDelta(4.0, m.GlobalArrival(), 1e-3)
	s.InDelta(8.0, m.TotalArea(), 1e-3)
}

// Boundary: a 1-LUT library maps every AND onto its trivial cut.
func (s *MappingSuite) TestUnitLutLibrary() {
	lib, err := lutlib.NewUniform("k1", []float32{1}, []float32{1})
	s.Require().NoError(err)
	m := mapper.New(3, 1, mapper.WithLutLibrary(lib), mapper.WithOutput(io.Discard))
	x := m.And(m.InputEdge(0), m.InputEdge(1))
	out := m.And(x, m.InputEdge(2))
	m.SetOutput(0, out)
	s.Require().NoError(m.Map())

	s.InDelta(2.0, m.TotalArea(), 1e-3, "area_of(1) per AND node")
	s.Len(m.MappingNodes(), 2)
	for _, n := range m.MappingNodes() {
		s.Equal(1, n.BestCut().Size())
	}
}

// Replaying a run over byte-identical inputs yields byte-identical
// selections.
func (s *MappingSuite) TestDeterministicReplay() {
	run := func() []string {
		m := s.newManager(6, 2)
		x := m.And(m.InputEdge(0), m.InputEdge(1))
		y := m.And(x, m.InputEdge(2))
		z := m.And(m.InputEdge(3), m.InputEdge(4))
		m.SetOutput(0, m.And(y, z))
		m.SetOutput(1, m.And(z, m.InputEdge(5).Not()))
		s.Require().NoError(m.Map())

		var trace []string
		for _, n := range m.MappingNodes() {
			trace = append(trace, fmt.Sprintf("%d:%v", n.Num(), leafNums(n.BestCut())))
		}

		return trace
	}

	first := run()
	s.NotEmpty(first)
	for i := 0; i < 3; i++ {
		s.Equal(first, run())
	}
}

// Disabling area recovery stops after the delay-oriented pass.
func TestAreaRecoveryDisabled(t *testing.T) {
	lib, err := lutlib.NewUniform("k4", []float32{1, 2, 4, 8}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	m := mapper.New(4, 2,
		mapper.WithLutLibrary(lib),
		mapper.WithOutput(io.Discard),
		mapper.WithAreaRecovery(false),
		mapper.WithDelayTarget(10))
	x := m.And(m.InputEdge(0), m.InputEdge(1))
	m.SetOutput(0, m.And(x, m.InputEdge(2)))
	m.SetOutput(1, m.And(x, m.InputEdge(3)))
	require.NoError(t, m.Map())

	// Without recovery the delay-optimal flat cover stands, even though
	// the target would allow the cheaper shared cover.
	require.InDelta(t, 8.0, float64(m.TotalArea()), 1e-3)
}

// The parent links of a selected cut reach back to real fanin cuts, as
// the truth-table reconstruction callback requires.
func TestCutParentLinks(t *testing.T) {
	lib, err := lutlib.NewUniform("k4", []float32{1, 2, 4, 8}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	m := mapper.New(2, 1, mapper.WithLutLibrary(lib), mapper.WithOutput(io.Discard))
	out := m.And(m.InputEdge(0), m.InputEdge(1).Not())
	m.SetOutput(0, out)
	require.NoError(t, m.Map())

	best := out.Node().BestCut()
	pa, ca := best.ParentA()
	pb, cb := best.ParentB()
	require.NotNil(t, pa)
	require.NotNil(t, pb)
	require.True(t, pa.IsTrivial())
	require.True(t, pb.IsTrivial())
	require.False(t, ca, "fanin 0 is uncomplemented")
	require.True(t, cb, "fanin 1 is complemented")
}

func TestVerboseReport(t *testing.T) {
	lib, err := lutlib.NewUniform("k4", []float32{1, 2, 4, 8}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	var buf writerBuffer
	m := mapper.New(2, 1,
		mapper.WithLutLibrary(lib),
		mapper.WithVerbose(),
		mapper.WithOutput(&buf))
	m.SetOutput(0, m.And(m.InputEdge(0), m.InputEdge(1)))
	require.NoError(t, m.Map())

	out := buf.String()
	require.Contains(t, out, "Iteration 1D")
	require.Contains(t, out, "Iteration 2F")
	require.Contains(t, out, "Iteration 3A")
	require.Contains(t, out, "Output")
}

// writerBuffer is a minimal strings.Builder-compatible io.Writer.
type writerBuffer struct{ data []byte }

func (w *writerBuffer) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)

	return len(p), nil
}

func (w *writerBuffer) String() string { return string(w.data) }
