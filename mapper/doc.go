// Package mapper implements delay-optimal technology mapping of
// combinational And-Inverter Graphs (AIGs) onto variable-size-LUT FPGAs,
// with iterative area recovery.
//
// The host builds the subject graph through a Manager: primary inputs and
// outputs are fixed at construction, internal nodes are created with And
// (plus the Or/Xor/Mux conveniences), and structurally identical nodes are
// shared through a unique table. Functionally equivalent alternative
// implementations may be linked into choice classes with AddChoice. Once
// the graph is wired and a lutlib.Library is attached, Map runs the
// engine:
//
//  1. enumerate the K-feasible cuts of every AND node bottom-up, merging
//     the fanin cut lists, deduplicating by leaf set, and pruning to a
//     fixed budget;
//  2. match every node to its delay-optimal cut (arrival time first,
//     area flow as the tie-breaker);
//  3. propagate required times backward from the outputs and re-match
//     under the area-flow and then the exact-area (or switching-activity)
//     objective, trading slack for area.
//
// The selected cuts form a LUT cover readable through MappingNodes,
// (*Node).BestCut, and (*Cut).Leaves in deterministic reverse topological
// order. Two runs over byte-identical inputs produce identical covers.
//
// The area-recovery schedule follows Manohararajah, Brown, Vranesic,
// "Heuristics for area minimization in LUT-based FPGA technology mapping"
// (IWLS'04).
//
// Errors:
//
//	ErrNodeWithoutCuts     - a node has only its trivial cut when a real cut is needed.
//	ErrUnmeetableRequired  - no cut meets the required time and no earlier match exists.
//	ErrLibraryInconsistent - the LUT library is missing, empty, or carries bad delays.
//	ErrStructuralInvariant - an internal cut-list or refcount invariant broke (a bug, not an input problem).
//	ErrArrivalsLength      - SetPIArrivals was given the wrong number of values.
//	ErrOutputUnset         - Map was called before every output was wired.
//	ErrNotRepresentative   - AddChoice was given an invalid class member.
//	ErrUnknownNode         - a node number outside the graph was referenced.
//	ErrLatchCount          - the declared latch count exceeds the I/O counts.
package mapper
