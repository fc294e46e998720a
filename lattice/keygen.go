package lattice

import (
	"math"
	"os"
	"time"

	"fourpath-signature/prof"
)

// KeyGenOpts bounds the retry behaviour of key generation.
type KeyGenOpts struct {
	// MaxAttempts caps the number of (f, g) candidates tried before
	// giving up. Zero selects the default.
	MaxAttempts int
}

// DefaultKeyGenAttempts is generous: a fresh Gaussian (f, g) fails
// invertibility or the trapdoor solve only a few percent of the time.
const DefaultKeyGenAttempts = 64

// KeyMaterial is the raw output of trapdoor generation, before any
// serialization or sealing.
type KeyMaterial struct {
	F, G       []int64  // short basis row (f, g)
	BigF, BigG []int64  // completion with f*BigG - g*BigF = q
	H          []uint64 // public h = g/f, coefficient domain mod q
	BoundSq    uint64   // squared acceptance bound for responses
}

// Keygen samples an NTRU trapdoor for the engine's ring. Both basis
// rows are returned centered; H is the public quotient g/f mod q.
// Candidates whose f has a zero NTT slot, whose completion the solver
// rejects, or whose total basis norm exceeds the quality cap are
// discarded and resampled. ErrKeyGenerationExhausted is returned when
// MaxAttempts candidates all fail.
func Keygen(eng *Engine, src *Source, opts KeyGenOpts) (*KeyMaterial, error) {
	defer prof.Track(time.Now(), "Keygen")
	par := eng.Par()
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultKeyGenAttempts
	}
	sigmaFG := par.SigmaKey * math.Sqrt(float64(par.Q)/float64(2*par.N))
	gauss := NewGaussianSampler(src, sigmaFG)
	for attempt := 0; attempt < attempts; attempt++ {
		f, err := gauss.SampleVec(par.N)
		if err != nil {
			return nil, err
		}
		g, err := gauss.SampleVec(par.N)
		if err != nil {
			return nil, err
		}
		fNTT := eng.ForwardNTT(Poly{Coeffs: DecenterToModQ(f, par.Q)})
		if !eng.IsUnit(fNTT) {
			dbg(os.Stderr, "[keygen] attempt=%d f not invertible\n", attempt)
			continue
		}
		F, G, err := NTRUSolve(f, g, par.Q)
		if err != nil {
			dbg(os.Stderr, "[keygen] attempt=%d solve: %v\n", attempt, err)
			continue
		}
		basisSq := NormSq(f) + NormSq(g) + NormSq(F) + NormSq(G)
		if float64(basisSq) > maxBasisNormSq(par) {
			dbg(os.Stderr, "[keygen] attempt=%d basis too large: %d\n", attempt, basisSq)
			continue
		}
		fInv, ok := eng.PointwiseInverse(fNTT)
		if !ok {
			continue
		}
		gNTT := eng.ForwardNTT(Poly{Coeffs: DecenterToModQ(g, par.Q)})
		h := eng.InverseNTT(eng.PointwiseMul(gNTT, fInv))
		return &KeyMaterial{
			F: f, G: g, BigF: F, BigG: G,
			H:       h.Coeffs,
			BoundSq: acceptanceBoundSq(par, f, g, F, G),
		}, nil
	}
	return nil, ErrKeyGenerationExhausted
}

// maxBasisNormSq caps the total squared norm of an acceptable basis.
// E[||f||^2+||g||^2] = SigmaKey^2*q for the sampled row, and a reduced
// completion adds at most about as much again; a slack factor of 4
// rejects only genuinely oversized bases, which would otherwise
// inflate the published response bound.
func maxBasisNormSq(par Params) float64 {
	return 4 * par.SigmaKey * par.SigmaKey * float64(par.Q)
}

// acceptanceBoundSq derives the squared norm bound a signature
// produced with this basis stays under, up to negligible tail mass.
func acceptanceBoundSq(par Params, f, g, F, G []int64) uint64 {
	basisSq := float64(NormSq(f) + NormSq(g) + NormSq(F) + NormSq(G))
	perCoeff := par.SigmaSign*par.SigmaSign + 0.25
	return uint64(math.Ceil(2 * float64(par.N) * perCoeff * basisSq))
}
