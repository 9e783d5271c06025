package lutlib

import (
	"errors"
	"fmt"
)

// MaxSize is the largest LUT size a library may describe.
const MaxSize = 32

// Sentinel errors for library construction.
var (
	// ErrEmptyLibrary indicates that New was called with no entries.
	ErrEmptyLibrary = errors.New("lutlib: library has no entries")

	// ErrSizeOutOfRange indicates an entry size outside [1..MaxSize].
	ErrSizeOutOfRange = errors.New("lutlib: LUT size out of range")

	// ErrNonContiguous indicates that entry sizes do not form 1..LutMax.
	ErrNonContiguous = errors.New("lutlib: LUT sizes must be contiguous from 1")

	// ErrBadDelay indicates a non-positive worst-case pin delay.
	ErrBadDelay = errors.New("lutlib: pin delay must be positive")

	// ErrPinCount indicates a pin-delay count other than 1 or the LUT size.
	ErrPinCount = errors.New("lutlib: pin delay count must be 1 or the LUT size")
)

// Entry describes one LUT size during construction.
//
// PinDelays holds either a single worst-case delay applied to every pin,
// or exactly Size values in non-decreasing pin order. Supplying more than
// one value for any entry switches the whole library into the
// variable-pin-delay model.
type Entry struct {
	// Size is the number of LUT inputs, in [1..MaxSize].
	Size int

	// Area is the cost of one LUT of this size.
	Area float32

	// PinDelays holds 1 or Size delay values (see type comment).
	PinDelays []float32
}

// Library is an immutable table of per-size LUT areas and delays.
type Library struct {
	name         string
	lutMax       int
	varPinDelays bool
	areas        [MaxSize + 1]float32
	delays       [MaxSize + 1][MaxSize]float32
}

// New builds a Library from entries. Entries must cover the contiguous
// size range 1..LutMax; each entry needs a positive worst-case delay.
// Complexity: O(LutMax · MaxSize).
func New(name string, entries []Entry) (*Library, error) {
	// 1. Shape validation before any allocation.
	if len(entries) == 0 {
		return nil, ErrEmptyLibrary
	}
	lib := &Library{name: name}
	for i, e := range entries {
		if e.Size < 1 || e.Size > MaxSize {
			return nil, fmt.Errorf("entry %d (size %d): %w", i, e.Size, ErrSizeOutOfRange)
		}
		// Sizes arrive as the sequence 1..LutMax, mirroring the row order
		// of a LUT library description.
		if e.Size != i+1 {
			return nil, fmt.Errorf("entry %d has size %d: %w", i, e.Size, ErrNonContiguous)
		}
		if len(e.PinDelays) == 0 || e.PinDelays[0] <= 0 {
			return nil, fmt.Errorf("entry %d: %w", i, ErrBadDelay)
		}
		if len(e.PinDelays) > 1 && len(e.PinDelays) != e.Size {
			return nil, fmt.Errorf("entry %d has %d pin delays for %d pins: %w", i, len(e.PinDelays), e.Size, ErrPinCount)
		}

		// 2. Record the entry.
		lib.areas[e.Size] = e.Area
		copy(lib.delays[e.Size][:], e.PinDelays)
		if len(e.PinDelays) > 1 {
			lib.varPinDelays = true
		} else {
			// Uniform model: replicate the worst-case value to every pin so
			// PinDelay stays total for either model.
			for p := 1; p < e.Size; p++ {
				lib.delays[e.Size][p] = e.PinDelays[0]
			}
		}
	}
	lib.lutMax = len(entries)

	return lib, nil
}

// NewUniform builds a Library where every pin of a k-LUT has the same
// delay. areas[i] and delays[i] describe the LUT of size i+1.
// Complexity: O(LutMax).
func NewUniform(name string, areas, delays []float32) (*Library, error) {
	if len(areas) != len(delays) {
		return nil, fmt.Errorf("%d areas vs %d delays: %w", len(areas), len(delays), ErrNonContiguous)
	}
	entries := make([]Entry, len(areas))
	for i := range areas {
		entries[i] = Entry{Size: i + 1, Area: areas[i], PinDelays: []float32{delays[i]}}
	}

	return New(name, entries)
}

// Name returns the library name.
func (l *Library) Name() string { return l.name }

// LutMax returns the largest LUT size the library describes.
func (l *Library) LutMax() int { return l.lutMax }

// VarPinDelays reports whether the library uses per-pin delays.
func (l *Library) VarPinDelays() bool { return l.varPinDelays }

// AreaOf returns the area of a k-input LUT. k must be in [1..LutMax].
func (l *Library) AreaOf(k int) float32 { return l.areas[k] }

// Delay returns the worst-case (pin-0) delay of a k-input LUT.
// The mapping engine uses only this value.
func (l *Library) Delay(k int) float32 { return l.delays[k][0] }

// PinDelay returns the delay of pin on a k-input LUT. Under the uniform
// model every pin reports the worst-case value.
func (l *Library) PinDelay(k, pin int) float32 { return l.delays[k][pin] }

// PinDelaysMonotone reports whether per-pin delays are non-decreasing in
// the pin index for every size. Always true for the uniform model.
// Complexity: O(LutMax²).
func (l *Library) PinDelaysMonotone() bool {
	if !l.varPinDelays {
		return true
	}
	for k := 1; k <= l.lutMax; k++ {
		for p := 1; p < k; p++ {
			if l.delays[k][p] < l.delays[k][p-1] {
				return false
			}
		}
	}

	return true
}
