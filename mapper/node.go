// Package mapper: the mapping-graph vertex and its polarity-carrying edge.
package mapper

// NodeKind classifies a mapping-graph vertex.
type NodeKind uint8

const (
	// KindConst1 is the constant-1 node (num = -1).
	KindConst1 NodeKind = iota

	// KindInput is a primary input (num in [0..nInputs-1]).
	KindInput

	// KindAnd is an internal two-input AND node.
	KindAnd
)

// Edge is a reference to a node together with a complement flag. Negation
// lives on edges, never on nodes; Edge is an explicit pair rather than a
// tagged pointer, so no pointer-alignment assumption is made.
type Edge struct {
	node  *Node
	compl bool
}

// Node returns the target node of the edge.
func (e Edge) Node() *Node { return e.node }

// Complement reports whether the edge inverts its target.
func (e Edge) Complement() bool { return e.compl }

// Not returns the same edge with the opposite polarity.
func (e Edge) Not() Edge { return Edge{node: e.node, compl: !e.compl} }

// simComplement reports the simulated polarity of the edge: the edge
// complement XOR the phase bit of the node it targets.
func (e Edge) simComplement() bool { return e.compl != e.node.phaseInv }

// Node is a vertex of the mapping graph: the constant, a primary input,
// or a structurally hashed two-input AND. Nodes live in the manager's
// arena and are never freed individually.
type Node struct {
	next *Node // unique-table chain

	num   int32 // -1 for the constant, creation order otherwise
	level int32 // longest AND path from the inputs
	refs  int32 // fanout count inside the selected cover

	phaseInv bool // node represents the complement of its natural function

	fanin0, fanin1 Edge // zero-valued for the constant and the inputs

	required   float32 // latest acceptable arrival; +Inf until propagated
	estFanouts float32 // EWMA of refs across recovery passes; -1 until set
	switching  float32 // externally supplied switching activity

	cuts    *Cut // enumerated cut list; head is the trivial cut
	bestCut *Cut // selection under the current objective

	repr      *Node // choice-class representative (nil on representatives)
	nextEquiv *Node // next member of the choice class

	aux any // host scratch slot for netlist back-mapping
}

// Kind derives the node classification.
func (n *Node) Kind() NodeKind {
	switch {
	case n.num < 0:
		return KindConst1
	case n.fanin0.node == nil:
		return KindInput
	default:
		return KindAnd
	}
}

// isAnd is the hot-path form of Kind() == KindAnd.
func (n *Node) isAnd() bool { return n.fanin0.node != nil }

// Num returns the unique node number (-1 for the constant).
func (n *Node) Num() int32 { return n.num }

// Level returns the longest AND-path depth from the inputs.
func (n *Node) Level() int32 { return n.level }

// Refs returns the reference count of the node in the current cover.
func (n *Node) Refs() int32 { return n.refs }

// Fanin0 returns the first fanin edge; ok is false for non-AND nodes.
func (n *Node) Fanin0() (e Edge, ok bool) { return n.fanin0, n.isAnd() }

// Fanin1 returns the second fanin edge; ok is false for non-AND nodes.
func (n *Node) Fanin1() (e Edge, ok bool) { return n.fanin1, n.isAnd() }

// BestCut returns the cut selected for this node under the current
// objective, or nil before matching.
func (n *Node) BestCut() *Cut { return n.bestCut }

// Arrival returns the arrival time of the node's selected cut.
func (n *Node) Arrival() float32 {
	if n.bestCut == nil {
		return negInf
	}

	return n.bestCut.arrival
}

// RequiredTime returns the node's required time (+Inf until the backward
// pass sets it).
func (n *Node) RequiredTime() float32 { return n.required }

// Representative returns the choice-class representative, or nil when the
// node is itself a representative (or belongs to no class).
func (n *Node) Representative() *Node { return n.repr }

// NextEquiv returns the next member of the node's choice class, if any.
func (n *Node) NextEquiv() *Node { return n.nextEquiv }

// Aux returns the host scratch slot.
func (n *Node) Aux() any { return n.aux }

// SetAux stores v in the host scratch slot. The slot belongs to whichever
// component set it last.
func (n *Node) SetAux(v any) { n.aux = v }

// coverLeaves returns the nodes feeding n's selected LUT. Under a 1-LUT
// library the selection is the trivial cut {n}; its cover feeds are the
// node's own fanins, not the cut leaves.
func (n *Node) coverLeaves(buf *[2]*Node) []*Node {
	bc := n.bestCut
	if n.isAnd() && bc.IsTrivial() {
		buf[0], buf[1] = n.fanin0.node, n.fanin1.node

		return buf[:2]
	}

	return bc.Leaves()
}

// nodeSign is the signature bit contributed by a node to a cut.
func nodeSign(n *Node) uint32 { return 1 << (uint32(n.num) % 31) }

// phaseDiffers reports whether two functionally equivalent nodes realize
// opposite polarities of the shared function.
func phaseDiffers(a, b *Node) bool { return a.phaseInv != b.phaseInv }
