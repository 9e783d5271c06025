package mapper_test

import (
	"io"
	"testing"

	"github.com/katalvlaran/lutmap/lutlib"
	"github.com/katalvlaran/lutmap/mapper"
)

// buildLayeredAIG wires a deterministic multiplier-like AND/XOR lattice
// of the given width over the manager's inputs and returns the root.
func buildLayeredAIG(m *mapper.Manager, width, depth int) mapper.Edge {
	layer := make([]mapper.Edge, width)
	for i := range layer {
		layer[i] = m.InputEdge(i % m.NumInputs())
	}
	for d := 0; d < depth; d++ {
		next := make([]mapper.Edge, 0, len(layer))
		for i := 0; i+1 < len(layer); i += 2 {
			a, b := layer[i], layer[i+1]
			if (d+i)%3 == 0 {
				next = append(next, m.Xor(a, b))
			} else {
				next = append(next, m.And(a, b.Not()))
			}
		}
		if len(layer)%2 == 1 {
			next = append(next, layer[len(layer)-1])
		}
		if len(next) < 2 {
			return next[0]
		}
		layer = next
	}
	out := layer[0]
	for _, e := range layer[1:] {
		out = m.And(out, e)
	}

	return out
}

func benchLibrary(b *testing.B) *lutlib.Library {
	b.Helper()
	lib, err := lutlib.NewUniform("k6",
		[]float32{1, 1, 2, 2, 4, 4},
		[]float32{1, 1, 1.2, 1.4, 1.8, 2})
	if err != nil {
		b.Fatal(err)
	}

	return lib
}

func BenchmarkMapLattice(b *testing.B) {
	lib := benchLibrary(b)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m := mapper.New(16, 1,
			mapper.WithLutLibrary(lib),
			mapper.WithOutput(io.Discard))
		m.SetOutput(0, buildLayeredAIG(m, 64, 6))
		if err := m.Map(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMapDelayOnly(b *testing.B) {
	lib := benchLibrary(b)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		m := mapper.New(16, 1,
			mapper.WithLutLibrary(lib),
			mapper.WithOutput(io.Discard),
			mapper.WithAreaRecovery(false))
		m.SetOutput(0, buildLayeredAIG(m, 64, 6))
		if err := m.Map(); err != nil {
			b.Fatal(err)
		}
	}
}
