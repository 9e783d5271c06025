// Package mapper: the K-feasible cut value object.
package mapper

import (
	"github.com/katalvlaran/lutmap/lutlib"
)

// maxCutLeaves bounds the leaf storage of a single cut. It matches
// lutlib.MaxSize so any library-legal cut fits in one fixed arena slot.
const maxCutLeaves = lutlib.MaxSize

// cutParent records the fanin cut a merged cut was produced from,
// together with the complement flag of the fanin edge it crossed. Hosts
// use the pair to rebuild truth tables once a cover is selected.
type cutParent struct {
	cut   *Cut
	compl bool
}

// Cut is a set of at most K leaves that covers every input path to its
// root node. Cuts are owned by the root's cut list; they are allocated
// from the manager's cut arena and recycled through its free list when a
// list is pruned.
type Cut struct {
	next *Cut // cut-list linkage

	parentA, parentB cutParent

	leaves  [maxCutLeaves]*Node // ascending by Num; only [:nLeaves] valid
	nLeaves uint8

	sign  uint32 // OR of 1<<(leaf.num mod 31); quick superset prefilter
	phase bool   // complemented relative to the choice representative

	arrival  float32
	areaFlow float32
}

// Size returns the number of leaves.
func (c *Cut) Size() int { return int(c.nLeaves) }

// Leaves returns the leaf nodes in ascending num order. The slice aliases
// the cut's storage and must be treated as read-only.
func (c *Cut) Leaves() []*Node { return c.leaves[:c.nLeaves] }

// Sign returns the leaf-set signature.
func (c *Cut) Sign() uint32 { return c.sign }

// Phase reports whether the cut computes the complement of its root's
// choice-class representative.
func (c *Cut) Phase() bool { return c.phase }

// Arrival returns the arrival time computed by the matcher.
func (c *Cut) Arrival() float32 { return c.arrival }

// AreaFlow returns the area flow computed by the matcher.
func (c *Cut) AreaFlow() float32 { return c.areaFlow }

// ParentA returns the first fanin cut this cut was merged from and the
// complement flag of the crossed edge. Trivial cuts have no parents.
func (c *Cut) ParentA() (parent *Cut, compl bool) { return c.parentA.cut, c.parentA.compl }

// ParentB returns the second fanin cut this cut was merged from and the
// complement flag of the crossed edge.
func (c *Cut) ParentB() (parent *Cut, compl bool) { return c.parentB.cut, c.parentB.compl }

// IsTrivial reports whether the cut is the single-leaf cut {root}.
func (c *Cut) IsTrivial() bool { return c.nLeaves == 1 && c.parentA.cut == nil }

// rootArea returns the area of the LUT realizing this cut.
func (c *Cut) rootArea(lib *lutlib.Library) float32 { return lib.AreaOf(int(c.nLeaves)) }

// computeSignature folds the signature bits of a leaf set.
func computeSignature(leaves []*Node) uint32 {
	var s uint32
	for _, l := range leaves {
		s |= nodeSign(l)
	}

	return s
}
