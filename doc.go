// Package lutmap maps combinational And-Inverter Graphs onto
// variable-size-LUT FPGAs: delay first, area recovered afterwards.
//
// 🚀 What is lutmap?
//
//	A deterministic, single-threaded technology-mapping core:
//
//	  • Build the subject AIG through a structurally hashed Manager
//	  • Enumerate bounded K-feasible cuts for every node
//	  • Match delay-optimally, then trade slack for area (or switching)
//
// ✨ Why choose lutmap?
//
//   - Deterministic          — identical inputs produce identical covers
//   - Host-friendly          — in-memory library, no files, no CLI
//   - Choice-aware           — alternative implementations merge cleanly
//   - Pure Go                — no cgo; arenas keep allocation flat
//
// Everything is organized under two subpackages:
//
//	lutlib/ — the immutable per-size area/delay table
//	mapper/ — the graph, cut enumerator, matcher, timing, and driver
//
// Quick ASCII example:
//
//	 i0  i1  i2  i3
//	  \  /    \  /
//	   x       y        — two AND nodes
//	    \     /
//	     out            — covered by 2-input LUTs (or one 4-LUT)
//
// See DESIGN.md for the grounding and the recorded design decisions.
//
//	go get github.com/katalvlaran/lutmap
package lutmap
