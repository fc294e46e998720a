package lattice

import (
	"errors"
	"math"
	"testing"
)

func TestKeygenProducesConsistentTrapdoor(t *testing.T) {
	if testing.Short() {
		t.Skip("keygen is slow in -short mode")
	}
	par := testParams(t)
	eng := testEngine(t)
	src, err := NewKeyedSource([]byte("keygen-consistent"))
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	km, err := Keygen(eng, src, KeyGenOpts{})
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	if len(km.H) != par.N {
		t.Fatalf("public key length %d, want %d", len(km.H), par.N)
	}
	if !CheckTrapdoorIdentity(km.F, km.G, km.BigF, km.BigG, par.Q) {
		t.Fatal("basis identity f*G - g*F = q violated")
	}
	// h*f == g mod q
	hf := eng.MulModQ(Poly{Coeffs: km.H}, Poly{Coeffs: DecenterToModQ(km.F, par.Q)})
	g := DecenterToModQ(km.G, par.Q)
	for i := range g {
		if hf.Coeffs[i] != g[i] {
			t.Fatalf("coeff %d: h*f = %d, g = %d", i, hf.Coeffs[i], g[i])
		}
	}
	if km.BoundSq == 0 {
		t.Fatal("zero acceptance bound")
	}
}

func TestKeygenDeterministicUnderKeyedSource(t *testing.T) {
	if testing.Short() {
		t.Skip("keygen is slow in -short mode")
	}
	eng := testEngine(t)
	gen := func() *KeyMaterial {
		src, err := NewKeyedSource([]byte("keygen-repeat"))
		if err != nil {
			t.Fatalf("source: %v", err)
		}
		km, err := Keygen(eng, src, KeyGenOpts{})
		if err != nil {
			t.Fatalf("keygen: %v", err)
		}
		return km
	}
	a, b := gen(), gen()
	for i := range a.F {
		if a.F[i] != b.F[i] || a.G[i] != b.G[i] || a.H[i] != b.H[i] {
			t.Fatalf("index %d: keyed keygen not reproducible", i)
		}
	}
}

// An accepted basis must sit under the quality cap, which in turn caps
// the published response bound; oversized completions are resampled,
// not folded into a looser bound.
func TestKeygenEnforcesBasisQualityCap(t *testing.T) {
	if testing.Short() {
		t.Skip("keygen is slow in -short mode")
	}
	par := testParams(t)
	eng := testEngine(t)
	src, err := NewKeyedSource([]byte("keygen-quality"))
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	km, err := Keygen(eng, src, KeyGenOpts{})
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	basisSq := NormSq(km.F) + NormSq(km.G) + NormSq(km.BigF) + NormSq(km.BigG)
	capSq := maxBasisNormSq(par)
	if float64(basisSq) > capSq {
		t.Fatalf("accepted basis norm %d exceeds quality cap %.0f", basisSq, capSq)
	}
	perCoeff := par.SigmaSign*par.SigmaSign + 0.25
	maxBound := uint64(math.Ceil(2 * float64(par.N) * perCoeff * capSq))
	if km.BoundSq > maxBound {
		t.Fatalf("published bound %d exceeds cap-derived maximum %d", km.BoundSq, maxBound)
	}
}

func TestKeygenExhaustion(t *testing.T) {
	eng := testEngine(t)
	// With a single attempt, failure must surface as the sentinel,
	// never as an internal solver error.
	src, err := NewKeyedSource([]byte("keygen-exhaust"))
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	_, err = Keygen(eng, src, KeyGenOpts{MaxAttempts: 1})
	if err != nil && !errors.Is(err, ErrKeyGenerationExhausted) {
		t.Fatalf("unexpected error class: %v", err)
	}
}
