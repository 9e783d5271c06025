// Package lutlib defines the LUT library: an immutable table of per-size
// area and per-pin delay values for variable-size-LUT FPGAs.
//
// A library describes LUTs of sizes 1..LutMax (LutMax ≤ MaxSize). For each
// size k it stores one area value and either a single worst-case pin delay
// or k per-pin delays. The mapping engine (package mapper) consults the
// library through AreaOf, Delay, and PinDelay; it treats every LUT of size
// k as having the uniform delay Delay(k) and leaves the per-pin model to
// callers that need it.
//
// Construction happens once per run from in-memory entries (the file
// parser lives outside this module). Libraries are pure values: no method
// mutates a Library after New returns, so a single instance may be shared
// freely.
//
// Errors:
//
//	ErrEmptyLibrary     - no entries were supplied.
//	ErrSizeOutOfRange   - an entry size is outside [1..MaxSize].
//	ErrNonContiguous    - entry sizes do not form the sequence 1..LutMax.
//	ErrBadDelay         - a worst-case delay is not a positive number.
//	ErrPinCount         - an entry carries neither 1 nor Size pin delays.
package lutlib
