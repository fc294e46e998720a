package bench

import (
	"testing"

	"fourpath-signature/lattice"
)

func benchEngine(b *testing.B, n int) *lattice.Engine {
	b.Helper()
	par, err := lattice.NewParams(n, 12289)
	if err != nil {
		b.Fatalf("params: %v", err)
	}
	eng, err := lattice.NewEngine(par)
	if err != nil {
		b.Fatalf("engine: %v", err)
	}
	return eng
}

func BenchmarkForwardNTT(b *testing.B) {
	eng := benchEngine(b, 512)
	p := eng.NewPoly()
	for i := range p.Coeffs {
		p.Coeffs[i] = uint64(i*31) % eng.Q()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eng.ForwardNTT(p)
	}
}

func BenchmarkMulModQ(b *testing.B) {
	eng := benchEngine(b, 512)
	x := eng.NewPoly()
	y := eng.NewPoly()
	for i := range x.Coeffs {
		x.Coeffs[i] = uint64(i*17) % eng.Q()
		y.Coeffs[i] = uint64(i*29+3) % eng.Q()
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eng.MulModQ(x, y)
	}
}

func BenchmarkBatchForwardNTT(b *testing.B) {
	eng := benchEngine(b, 512)
	ps := make([]lattice.Poly, 16)
	for i := range ps {
		ps[i] = eng.NewPoly()
		for j := range ps[i].Coeffs {
			ps[i].Coeffs[j] = uint64(i+j) % eng.Q()
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		eng.BatchForwardNTT(ps)
	}
}
