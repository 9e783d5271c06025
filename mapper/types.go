// Package mapper: shared constants and sentinel errors.
package mapper

import "errors"

// Cut enumeration budgets. The compute cap bounds how many merged cuts a
// single node may generate; the keep cap bounds how many survive pruning
// (including the trivial cut). Both are quality/runtime dials, fixed
// regardless of the LUT size.
const (
	cutsMaxCompute = 2000
	cutsMaxKeep    = 1000
)

// DefaultEpsilon is the tolerance used for every float comparison inside
// the engine. Selections never hinge on exact float equality.
const DefaultEpsilon = 1e-3

// hashPrimes feeds the per-node cut canonicalization table. Leaf i
// contributes primes[i mod 10]·num to the key.
var hashPrimes = [10]uint64{109, 499, 557, 619, 631, 709, 797, 881, 907, 991}

// Sentinel errors returned by Map and the configuration surface.
var (
	// ErrNodeWithoutCuts indicates a node whose cut list holds only the
	// trivial cut although the current matching criterion needs a real one.
	ErrNodeWithoutCuts = errors.New("mapper: node has no feasible cuts")

	// ErrUnmeetableRequired indicates that no cut of some node satisfies
	// its required time and no previous best cut exists to fall back on.
	ErrUnmeetableRequired = errors.New("mapper: required time cannot be met")

	// ErrLibraryInconsistent indicates a missing library, LutMax = 0, or a
	// non-positive worst-case delay.
	ErrLibraryInconsistent = errors.New("mapper: LUT library is inconsistent")

	// ErrStructuralInvariant indicates a violated node- or cut-list
	// invariant. It reports an implementation bug, never bad user input.
	ErrStructuralInvariant = errors.New("mapper: structural invariant violated")

	// ErrArrivalsLength indicates that SetPIArrivals received a slice whose
	// length differs from the input count.
	ErrArrivalsLength = errors.New("mapper: arrival count does not match input count")

	// ErrOutputUnset indicates that Map ran before every primary output
	// was assigned a driver.
	ErrOutputUnset = errors.New("mapper: primary output not wired")

	// ErrNotRepresentative indicates an AddChoice argument that cannot
	// anchor or join a choice class.
	ErrNotRepresentative = errors.New("mapper: invalid choice-class member")

	// ErrUnknownNode indicates a node number outside the graph.
	ErrUnknownNode = errors.New("mapper: unknown node number")

	// ErrLatchCount indicates a latch count exceeding the I/O counts.
	ErrLatchCount = errors.New("mapper: latch count exceeds the I/O counts")
)
