package lattice

import (
	"math"
	"math/big"
	"testing"
)

func bigInt(v int64) *big.Int { return big.NewInt(v) }

func sampleKeyPoly(t *testing.T, src *Source, par Params) []int64 {
	t.Helper()
	sigma := par.SigmaKey * math.Sqrt(float64(par.Q)/float64(2*par.N))
	g := NewGaussianSampler(src, sigma)
	v, err := g.SampleVec(par.N)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	return v
}

func TestNTRUSolveIdentity(t *testing.T) {
	par := testParams(t)
	src, err := NewKeyedSource([]byte("ntrusolve"))
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	solved := 0
	for trial := 0; trial < 4; trial++ {
		f := sampleKeyPoly(t, src, par)
		g := sampleKeyPoly(t, src, par)
		F, G, err := NTRUSolve(f, g, par.Q)
		if err != nil {
			// Some (f, g) have no completion; resample.
			continue
		}
		solved++
		if !CheckTrapdoorIdentity(f, g, F, G, par.Q) {
			t.Fatalf("trial %d: f*G - g*F != q", trial)
		}
		// Babai reduction should leave the completion within a few
		// bits of the short row.
		if bl, ref := bitlenMaxAbs(F), bitlenMaxAbs(f); bl > ref+16 {
			t.Fatalf("trial %d: completion unreduced, %d bits vs %d", trial, bl, ref)
		}
	}
	if solved == 0 {
		t.Fatal("no trial produced a completion")
	}
}

func TestNTRUSolveRejectsBadDimensions(t *testing.T) {
	if _, _, err := NTRUSolve(make([]int64, 3), make([]int64, 3), 12289); err == nil {
		t.Fatal("non-power-of-two dimension accepted")
	}
	if _, _, err := NTRUSolve(make([]int64, 4), make([]int64, 8), 12289); err == nil {
		t.Fatal("mismatched dimensions accepted")
	}
}

func TestFFTNegRoundtrip(t *testing.T) {
	n := 32
	a := make([]complex128, n)
	for i := range a {
		a[i] = complex(float64(i*7%13)-6, 0)
	}
	back := ifftNeg(fftNeg(a))
	for i := range a {
		if math.Abs(real(back[i])-real(a[i])) > 1e-9 || math.Abs(imag(back[i])) > 1e-9 {
			t.Fatalf("index %d: roundtrip %v != %v", i, back[i], a[i])
		}
	}
}

// The transform must be multiplicative: fft(a*b) = fft(a).*fft(b)
// with the negacyclic product on the coefficient side.
func TestFFTNegConvolutionTheorem(t *testing.T) {
	n := 16
	a := make([]int64, n)
	b := make([]int64, n)
	for i := 0; i < n; i++ {
		a[i] = int64(i%5) - 2
		b[i] = int64(i%7) - 3
	}
	ac := make([]complex128, n)
	bc := make([]complex128, n)
	for i := 0; i < n; i++ {
		ac[i] = complex(float64(a[i]), 0)
		bc[i] = complex(float64(b[i]), 0)
	}
	ae, be := fftNeg(ac), fftNeg(bc)
	prod := make([]complex128, n)
	for i := range prod {
		prod[i] = ae[i] * be[i]
	}
	got := ifftNeg(prod)
	want := NegacyclicMulZ(a, b)
	for i := range want {
		if math.Abs(real(got[i])-float64(want[i])) > 1e-6 {
			t.Fatalf("coeff %d: fft product %f != exact %d", i, real(got[i]), want[i])
		}
	}
}

func TestExtGCD(t *testing.T) {
	cases := [][2]int64{{240, 46}, {-240, 46}, {17, 0}, {0, -5}, {12289, 64}}
	for _, c := range cases {
		a, b := bigInt(c[0]), bigInt(c[1])
		d, u, v := extGCD(a, b)
		if d.Sign() < 0 {
			t.Fatalf("gcd(%d,%d) negative", c[0], c[1])
		}
		lhs := bigInt(0).Add(bigInt(0).Mul(u, a), bigInt(0).Mul(v, b))
		if lhs.Cmp(d) != 0 {
			t.Fatalf("gcd(%d,%d): u*a+v*b = %s, want %s", c[0], c[1], lhs, d)
		}
	}
}
