package lattice

import (
	"fmt"
	"math/big"
	"os"
	"sync"

	"github.com/tuneinsight/lattigo/v4/ring"
)

// Engine performs NTT-domain arithmetic over Z_q[x]/(x^N+1). The
// transforms are delegated to a Lattigo ring, whose butterfly network
// runs in data-independent time; the root-of-unity precondition is
// validated explicitly before the ring is built so that a bad modulus
// is reported as ErrInvalidModulus rather than a backend failure.
//
// Engines are immutable after construction and safe for concurrent
// use: every operation works on freshly allocated buffers.
type Engine struct {
	par   Params
	ringQ *ring.Ring
	psi   uint64 // validated primitive 2N-th root of unity
}

// NewEngine validates (N, q) and builds the transform tables.
func NewEngine(par Params) (*Engine, error) {
	if err := par.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModulus, err)
	}
	psi, err := primitiveRoot2N(par.Q, par.N)
	if err != nil {
		return nil, err
	}
	r, err := ring.NewRing(par.N, []uint64{par.Q})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModulus, err)
	}
	dbg(os.Stderr, "[engine] N=%d q=%d psi=%d\n", par.N, par.Q, psi)
	return &Engine{par: par, ringQ: r, psi: psi}, nil
}

// primitiveRoot2N returns a psi with psi^N = -1 (mod q), or
// ErrInvalidModulus when q is not prime or 2N does not divide q-1.
func primitiveRoot2N(q uint64, N int) (uint64, error) {
	twoN := uint64(2 * N)
	if (q-1)%twoN != 0 {
		return 0, fmt.Errorf("%w: q-1 not divisible by 2N", ErrInvalidModulus)
	}
	if !new(big.Int).SetUint64(q).ProbablyPrime(32) {
		return 0, fmt.Errorf("%w: q is not prime", ErrInvalidModulus)
	}
	exp := (q - 1) / twoN
	for g := uint64(2); g < q && g < 1<<20; g++ {
		psi := expMod(g, exp, q)
		if expMod(psi, uint64(N), q) == q-1 {
			return psi, nil
		}
	}
	return 0, fmt.Errorf("%w: no primitive 2N-th root found", ErrInvalidModulus)
}

// N returns the ring dimension.
func (e *Engine) N() int { return e.par.N }

// Q returns the coefficient modulus.
func (e *Engine) Q() uint64 { return e.par.Q }

// Psi returns the validated primitive 2N-th root of unity.
func (e *Engine) Psi() uint64 { return e.psi }

// Par returns the engine parameters.
func (e *Engine) Par() Params { return e.par }

// NewPoly allocates a zero polynomial of the engine's dimension.
func (e *Engine) NewPoly() Poly {
	return Poly{Coeffs: make([]uint64, e.par.N)}
}

func (e *Engine) lift(c []uint64) *ring.Poly {
	p := e.ringQ.NewPoly()
	copy(p.Coeffs[0], c)
	return p
}

// ForwardNTT maps a coefficient-domain polynomial to evaluation domain.
func (e *Engine) ForwardNTT(p Poly) NTTPoly {
	rp := e.lift(p.Coeffs)
	e.ringQ.NTT(rp, rp)
	out := make([]uint64, e.par.N)
	copy(out, rp.Coeffs[0])
	return NTTPoly{Coeffs: out}
}

// InverseNTT maps an evaluation-domain polynomial back to coefficients.
// InverseNTT(ForwardNTT(p)) == p exactly for all valid p.
func (e *Engine) InverseNTT(p NTTPoly) Poly {
	rp := e.lift(p.Coeffs)
	e.ringQ.InvNTT(rp, rp)
	out := make([]uint64, e.par.N)
	copy(out, rp.Coeffs[0])
	return Poly{Coeffs: out}
}

// PointwiseMul multiplies two evaluation-domain polynomials slot-wise.
func (e *Engine) PointwiseMul(a, b NTTPoly) NTTPoly {
	ra := e.lift(a.Coeffs)
	rb := e.lift(b.Coeffs)
	e.ringQ.MForm(ra, ra)
	out := e.ringQ.NewPoly()
	e.ringQ.MulCoeffsMontgomery(ra, rb, out)
	res := make([]uint64, e.par.N)
	copy(res, out.Coeffs[0])
	return NTTPoly{Coeffs: res}
}

// PointwiseInverse inverts every slot; ok is false when any slot is
// zero, i.e. the polynomial is not a unit of R_q.
func (e *Engine) PointwiseInverse(a NTTPoly) (NTTPoly, bool) {
	out := make([]uint64, e.par.N)
	q := e.par.Q
	ok := true
	for i, v := range a.Coeffs {
		if v%q == 0 {
			ok = false
		}
		out[i] = InvMod(v, q)
	}
	if !ok {
		return NTTPoly{}, false
	}
	return NTTPoly{Coeffs: out}, true
}

// IsUnit reports whether a has no zero NTT slot.
func (e *Engine) IsUnit(a NTTPoly) bool {
	q := e.par.Q
	for _, v := range a.Coeffs {
		if v%q == 0 {
			return false
		}
	}
	return true
}

// MulModQ multiplies two coefficient-domain polynomials through the NTT.
func (e *Engine) MulModQ(a, b Poly) Poly {
	return e.InverseNTT(e.PointwiseMul(e.ForwardNTT(a), e.ForwardNTT(b)))
}

// AddModQ adds two coefficient-domain polynomials.
func (e *Engine) AddModQ(a, b Poly) Poly {
	out := make([]uint64, e.par.N)
	for i := range out {
		out[i] = addMod(a.Coeffs[i], b.Coeffs[i], e.par.Q)
	}
	return Poly{Coeffs: out}
}

// SubModQ subtracts b from a in coefficient domain.
func (e *Engine) SubModQ(a, b Poly) Poly {
	out := make([]uint64, e.par.N)
	for i := range out {
		out[i] = subMod(a.Coeffs[i], b.Coeffs[i], e.par.Q)
	}
	return Poly{Coeffs: out}
}

// BatchForwardNTT transforms the inputs independently, one goroutine
// per element. The result is identical to mapping ForwardNTT over the
// slice; there is no ordering dependency between elements.
func (e *Engine) BatchForwardNTT(ps []Poly) []NTTPoly {
	out := make([]NTTPoly, len(ps))
	var wg sync.WaitGroup
	for i := range ps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out[i] = e.ForwardNTT(ps[i])
		}(i)
	}
	wg.Wait()
	return out
}
