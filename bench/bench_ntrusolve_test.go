package bench

import (
	"math"
	"testing"

	"fourpath-signature/lattice"
)

func BenchmarkNTRUSolveN64(b *testing.B) {
	par, err := lattice.NewParams(64, 12289)
	if err != nil {
		b.Fatalf("params: %v", err)
	}
	src, err := lattice.NewKeyedSource([]byte("bench-solve"))
	if err != nil {
		b.Fatalf("source: %v", err)
	}
	sigma := par.SigmaKey * math.Sqrt(float64(par.Q)/float64(2*par.N))
	gauss := lattice.NewGaussianSampler(src, sigma)
	f, err := gauss.SampleVec(par.N)
	if err != nil {
		b.Fatalf("sample: %v", err)
	}
	g, err := gauss.SampleVec(par.N)
	if err != nil {
		b.Fatalf("sample: %v", err)
	}
	if _, _, err := lattice.NTRUSolve(f, g, par.Q); err != nil {
		b.Skipf("fixed candidate has no completion: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := lattice.NTRUSolve(f, g, par.Q); err != nil {
			b.Fatalf("solve: %v", err)
		}
	}
}
