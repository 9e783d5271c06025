// Package mapper: the mapping manager — graph ownership, construction
// surface, and configuration.
package mapper

import (
	"fmt"
	"io"
	"os"

	"github.com/katalvlaran/lutmap/lutlib"
)

// Manager owns a mapping graph: the constant, the primary inputs and
// outputs, every AND node created through it, and all cuts. It is not
// safe for concurrent use; the whole engine is single-threaded and runs
// each operation to completion.
type Manager struct {
	lib     *lutlib.Library
	epsilon float32

	const1     *Node
	inputs     []*Node
	outputs    []Edge
	outputSet  []bool
	nodesByNum []*Node // inputs and ANDs, dense by num

	bins []*Node // structural-hash unique table

	arrivals    []float32 // PI arrival times as supplied
	curArrivals []float32 // effective arrivals of the current Map run
	latchCount  int

	// Configuration.
	areaRecovery  bool
	switchingCost bool
	latchPaths    bool
	delayTarget   float32
	verbose       bool
	out           io.Writer

	// Populated by Map.
	ands           []*Node // DFS order of nodes reachable from the outputs
	mapping        []*Node // reverse topological order of the cover
	requiredGlobal float32
	totalArea      float32
	choiceClasses  int
	choiceMembers  int

	invariantErr error // sticky; set when a refcount/cut-list invariant breaks

	nodeMem nodeArena
	cutMem  cutArena
}

// Option configures a Manager at construction.
type Option func(*Manager)

// WithLutLibrary attaches the LUT library (same as SetLutLibrary).
func WithLutLibrary(lib *lutlib.Library) Option {
	return func(m *Manager) { m.lib = lib }
}

// WithVerbose enables per-pass reports on the manager's output writer.
func WithVerbose() Option {
	return func(m *Manager) { m.verbose = true }
}

// WithOutput redirects verbose reports and warnings (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(m *Manager) {
		if w != nil {
			m.out = w
		}
	}
}

// WithAreaRecovery toggles the area-recovery passes (default on).
func WithAreaRecovery(on bool) Option {
	return func(m *Manager) { m.areaRecovery = on }
}

// WithSwitchingCost makes the final recovery pass minimize switching
// activity instead of exact area.
func WithSwitchingCost(on bool) Option {
	return func(m *Manager) { m.switchingCost = on }
}

// WithLatchPaths restricts delay optimization to latch-bounded paths.
func WithLatchPaths(on bool) Option {
	return func(m *Manager) { m.latchPaths = on }
}

// WithDelayTarget sets the user delay target; t < 0 means "free".
func WithDelayTarget(t float32) Option {
	return func(m *Manager) { m.SetDelayTarget(t) }
}

// WithEpsilon overrides the float-comparison tolerance.
func WithEpsilon(eps float32) Option {
	return func(m *Manager) {
		if eps > 0 {
			m.epsilon = eps
		}
	}
}

// New creates a manager for a graph with fixed input and output counts.
// Inputs receive numbers [0..nInputs-1]; AND nodes continue from there in
// creation order. Complexity: O(nInputs + nOutputs).
func New(nInputs, nOutputs int, opts ...Option) *Manager {
	m := &Manager{
		epsilon:      DefaultEpsilon,
		delayTarget:  -1,
		areaRecovery: true,
		out:          os.Stdout,
		outputs:      make([]Edge, nOutputs),
		outputSet:    make([]bool, nOutputs),
		arrivals:     make([]float32, nInputs),
	}
	m.bins = make([]*Node, nextPrime(1009))

	// The constant sits outside the dense numbering.
	m.const1 = m.newNode(Edge{}, Edge{}, -1)

	m.inputs = make([]*Node, nInputs)
	m.nodesByNum = make([]*Node, 0, nInputs)
	for i := 0; i < nInputs; i++ {
		n := m.newNode(Edge{}, Edge{}, int32(i))
		m.inputs[i] = n
		m.nodesByNum = append(m.nodesByNum, n)
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// newNode allocates a node slot and wires its static attributes.
func (m *Manager) newNode(f0, f1 Edge, num int32) *Node {
	n := m.nodeMem.alloc()
	n.num = num
	n.required = posInf
	n.estFanouts = -1
	n.fanin0 = f0
	n.fanin1 = f1
	if f0.node != nil {
		n.level = 1 + max32i(f0.node.level, f1.node.level)
		n.phaseInv = f0.simComplement() && f1.simComplement()
		// Creation references double as the initial fanout counts for the
		// first matching pass.
		f0.node.refs++
		f1.node.refs++
	}

	return n
}

// max32i returns the larger of two int32 values.
func max32i(a, b int32) int32 {
	if a > b {
		return a
	}

	return b
}

// Const1Edge returns the positive edge to the constant-1 node.
func (m *Manager) Const1Edge() Edge { return Edge{node: m.const1} }

// InputEdge returns the positive edge to primary input i.
// Panics when i is out of range.
func (m *Manager) InputEdge(i int) Edge { return Edge{node: m.inputs[i]} }

// And returns the canonical edge computing a AND b, folding constants and
// complements and sharing structurally identical nodes through the unique
// table. Complexity: amortized O(1).
func (m *Manager) And(a, b Edge) Edge { return m.tableLookup(a, b) }

// Or returns the canonical edge computing a OR b.
func (m *Manager) Or(a, b Edge) Edge { return m.And(a.Not(), b.Not()).Not() }

// Mux returns the canonical edge computing if c then t else e.
func (m *Manager) Mux(c, t, e Edge) Edge {
	return m.Or(m.And(c, t), m.And(c.Not(), e))
}

// Xor returns the canonical edge computing a XOR b.
func (m *Manager) Xor(a, b Edge) Edge { return m.Mux(a, b.Not(), b) }

// SetOutput wires primary output i to the driver edge e.
// Panics when i is out of range.
func (m *Manager) SetOutput(i int, e Edge) {
	m.outputs[i] = e
	m.outputSet[i] = true
}

// SetLutLibrary attaches the LUT library used by Map.
func (m *Manager) SetLutLibrary(lib *lutlib.Library) { m.lib = lib }

// SetPIArrivals supplies per-input arrival times. The slice length must
// equal the input count.
func (m *Manager) SetPIArrivals(arrivals []float32) error {
	if len(arrivals) != len(m.inputs) {
		return fmt.Errorf("got %d arrivals for %d inputs: %w", len(arrivals), len(m.inputs), ErrArrivalsLength)
	}
	copy(m.arrivals, arrivals)

	return nil
}

// SetSwitching records the switching activity of the node with the given
// number, for the switching-oriented recovery pass.
func (m *Manager) SetSwitching(num int32, value float32) error {
	if num < 0 || int(num) >= len(m.nodesByNum) {
		return fmt.Errorf("node %d: %w", num, ErrUnknownNode)
	}
	m.nodesByNum[num].switching = value

	return nil
}

// SetDelayTarget sets the user delay target; any negative value disables
// it.
func (m *Manager) SetDelayTarget(t float32) {
	if t < 0 {
		t = -1
	}
	m.delayTarget = t
}

// SetLatchPaths toggles latch-path-only delay optimization.
func (m *Manager) SetLatchPaths(on bool) { m.latchPaths = on }

// SetLatchCount declares how many trailing inputs and outputs belong to
// latches.
func (m *Manager) SetLatchCount(n int) { m.latchCount = n }

// SetAreaRecovery toggles the area-recovery passes.
func (m *Manager) SetAreaRecovery(on bool) { m.areaRecovery = on }

// SetSwitchingCost selects switching activity as the final-pass objective.
func (m *Manager) SetSwitchingCost(on bool) { m.switchingCost = on }

// AddChoice links other into the choice class anchored at repr. Both must
// be AND nodes; repr must be a class representative (or class-free) and
// other must not belong to any class yet. Equivalence itself is not
// verified.
func (m *Manager) AddChoice(repr, other *Node) error {
	if repr == nil || other == nil || !repr.isAnd() || !other.isAnd() {
		return fmt.Errorf("choice members must be AND nodes: %w", ErrNotRepresentative)
	}
	if repr.repr != nil {
		return fmt.Errorf("node %d is itself a secondary node: %w", repr.num, ErrNotRepresentative)
	}
	if other.repr != nil || other.nextEquiv != nil {
		return fmt.Errorf("node %d already belongs to a class: %w", other.num, ErrNotRepresentative)
	}
	other.nextEquiv = repr.nextEquiv
	repr.nextEquiv = other
	other.repr = repr

	return nil
}

// NodeByNum returns the node with the given number.
func (m *Manager) NodeByNum(num int32) (*Node, error) {
	if num == -1 {
		return m.const1, nil
	}
	if num < 0 || int(num) >= len(m.nodesByNum) {
		return nil, fmt.Errorf("node %d: %w", num, ErrUnknownNode)
	}

	return m.nodesByNum[num], nil
}

// NumInputs returns the primary input count.
func (m *Manager) NumInputs() int { return len(m.inputs) }

// NumOutputs returns the primary output count.
func (m *Manager) NumOutputs() int { return len(m.outputs) }

// NumNodes returns the number of numbered nodes (inputs plus ANDs).
func (m *Manager) NumNodes() int { return len(m.nodesByNum) }

// MappingNodes returns the nodes used by the current cover in reverse
// topological order. Valid after a successful Map.
func (m *Manager) MappingNodes() []*Node {
	out := make([]*Node, len(m.mapping))
	copy(out, m.mapping)

	return out
}

// GlobalArrival returns the arrival time of the latest selected output.
func (m *Manager) GlobalArrival() float32 { return m.arrivalMax() }

// TotalArea returns the area of the current cover.
func (m *Manager) TotalArea() float32 { return m.totalArea }

// RequiredGlobal returns the global required time of the last Map run.
func (m *Manager) RequiredGlobal() float32 { return m.requiredGlobal }

// CutCount returns the number of non-trivial cuts currently stored.
func (m *Manager) CutCount() int {
	count := 0
	for _, n := range m.nodesByNum {
		for c := n.cuts; c != nil; c = c.next {
			if c.nLeaves > 1 {
				count++
			}
		}
	}

	return count
}

// logf writes a verbose report line.
func (m *Manager) logf(format string, args ...any) {
	if m.verbose {
		fmt.Fprintf(m.out, format, args...)
	}
}

// warnf writes a warning regardless of verbosity.
func (m *Manager) warnf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}
