package lattice

import (
	"errors"
	"math"
	"math/big"
	"math/cmplx"
	"os"
	"time"

	"fourpath-signature/prof"
)

// NTRUSolve computes integer F, G with f*G - g*F = q in Z[x]/(x^N+1).
// Inputs are centered int64 slices whose length must be a power of two.
// The solver recurses through the field-norm tower down to degree one,
// lifts the base solution back up, and Babai-reduces F, G against
// (f, g) at every level so coefficient growth stays polynomial.
func NTRUSolve(f, g []int64, q uint64) (F, G []int64, err error) {
	defer prof.Track(time.Now(), "NTRUSolve")
	n := len(f)
	if n == 0 || n != len(g) || n&(n-1) != 0 {
		return nil, nil, errors.New("ntrusolve: dimension must be a power of two")
	}
	fb := make([]*big.Int, n)
	gb := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		fb[i] = big.NewInt(f[i])
		gb[i] = big.NewInt(g[i])
	}
	dbg(os.Stderr, "[ntrusolve] enter N=%d q=%d\n", n, q)
	Fb, Gb, ok := towerSolve(fb, gb, q)
	if !ok {
		return nil, nil, errors.New("ntrusolve: tower recursion failed")
	}
	Fb, Gb, ok = babaiReduce(fb, gb, Fb, Gb)
	if !ok {
		return nil, nil, errors.New("ntrusolve: size reduction failed")
	}
	F, ok = bigSliceToInt64(Fb)
	if !ok {
		return nil, nil, errors.New("ntrusolve: coefficient overflow after reduction")
	}
	G, ok = bigSliceToInt64(Gb)
	if !ok {
		return nil, nil, errors.New("ntrusolve: coefficient overflow after reduction")
	}
	if !CheckTrapdoorIdentity(f, g, F, G, q) {
		return nil, nil, errors.New("ntrusolve: identity check failed")
	}
	dbg(os.Stderr, "[ntrusolve] done maxbits=%d\n", bitlenMaxAbs(F))
	return F, G, nil
}

// CheckTrapdoorIdentity verifies f*G - g*F == q exactly over Z.
func CheckTrapdoorIdentity(f, g, F, G []int64, q uint64) bool {
	fG := NegacyclicMulZ(f, G)
	gF := NegacyclicMulZ(g, F)
	for i := range fG {
		want := int64(0)
		if i == 0 {
			want = int64(q)
		}
		if fG[i]-gF[i] != want {
			return false
		}
	}
	return true
}

// towerSolve solves f*G - g*F = q by recursion on the field norm.
// At each level, N(p) = e^2 - x*o^2 maps Z[x]/(x^d+1) into
// Z[x]/(x^(d/2)+1); the solution one level down lifts back via
// F = F'(x^2) * g(-x), G = G'(x^2) * f(-x).
func towerSolve(f, g []*big.Int, q uint64) (F, G []*big.Int, ok bool) {
	d := len(f)
	if d == 1 {
		// u*f0 + v*(-g0) = gcd; scaling by q/gcd gives
		// f0*(u*q/gcd) - g0*(v*q/gcd) = q.
		a := new(big.Int).Set(f[0])
		b := new(big.Int).Neg(g[0])
		gcd, u, v := extGCD(a, b)
		if gcd.Sign() == 0 {
			return nil, nil, false
		}
		k := new(big.Int).SetUint64(q)
		if new(big.Int).Mod(k, gcd).Sign() != 0 {
			return nil, nil, false
		}
		k.Quo(k, gcd)
		G0 := new(big.Int).Mul(u, k)
		F0 := new(big.Int).Mul(v, k)
		return []*big.Int{F0}, []*big.Int{G0}, true
	}
	fc := conjEvenOdd(f)
	gc := conjEvenOdd(g)
	fn := evenHalf(NegacyclicMulZBig(f, fc))
	gn := evenHalf(NegacyclicMulZBig(g, gc))
	Fs, Gs, ok := towerSolve(fn, gn, q)
	if !ok {
		return nil, nil, false
	}
	F = NegacyclicMulZBig(expandEven(Fs), gc)
	G = NegacyclicMulZBig(expandEven(Gs), fc)
	return babaiReduce(f, g, F, G)
}

// conjEvenOdd returns p(-x), i.e. negates the odd coefficients.
func conjEvenOdd(p []*big.Int) []*big.Int {
	out := make([]*big.Int, len(p))
	for i, v := range p {
		out[i] = new(big.Int).Set(v)
		if i&1 == 1 {
			out[i].Neg(out[i])
		}
	}
	return out
}

// evenHalf keeps the even-index coefficients. p(x)*p(-x) has zero odd
// coefficients, so this is the field norm as an element of the
// half-degree ring.
func evenHalf(p []*big.Int) []*big.Int {
	out := make([]*big.Int, len(p)/2)
	for i := range out {
		out[i] = new(big.Int).Set(p[2*i])
	}
	return out
}

// expandEven maps p(x) to p(x^2) in the double-degree ring.
func expandEven(p []*big.Int) []*big.Int {
	out := make([]*big.Int, 2*len(p))
	for i := range out {
		out[i] = new(big.Int)
	}
	for i := range p {
		out[2*i].Set(p[i])
	}
	return out
}

// floatScaleBase keeps the FFT inputs well inside float64 exponent
// range while leaving the full 53-bit mantissa for precision.
const floatScaleBase = 300

// babaiReduce subtracts k*(f, g) from (F, G) where k rounds
// (F*adj(f) + G*adj(g)) / (f*adj(f) + g*adj(g)). The float pass only
// sees the top bits of each operand; the exact update runs in big.Int,
// and the loop repeats until the rounded quotient vanishes, so limited
// float precision costs iterations, never correctness.
func babaiReduce(f, g, F, G []*big.Int) (Fout, Gout []*big.Int, ok bool) {
	n := len(f)
	ef := extraBitsBig(f, g, floatScaleBase)
	fE := fftNeg(bigToComplexShifted(f, ef))
	gE := fftNeg(bigToComplexShifted(g, ef))
	den := make([]complex128, n)
	for i := 0; i < n; i++ {
		den[i] = fE[i]*cmplx.Conj(fE[i]) + gE[i]*cmplx.Conj(gE[i])
		if den[i] == 0 {
			return nil, nil, false
		}
	}
	Fb := cloneBig(F)
	Gb := cloneBig(G)
	maxIters := 2 * bitlenMaxAbsBig(Fb)
	if maxIters < 2 {
		maxIters = 2
	}
	for iter := 0; iter < maxIters; iter++ {
		eF := extraBitsBig(Fb, Gb, floatScaleBase)
		FE := fftNeg(bigToComplexShifted(Fb, eF))
		GE := fftNeg(bigToComplexShifted(Gb, eF))
		num := make([]complex128, n)
		for i := 0; i < n; i++ {
			num[i] = (FE[i]*cmplx.Conj(fE[i]) + GE[i]*cmplx.Conj(gE[i])) / den[i]
		}
		k := roundShifted(ifftNeg(num), eF-ef)
		allZero := true
		for i := range k {
			if k[i].Sign() != 0 {
				allZero = false
				break
			}
		}
		if allZero {
			break
		}
		kf := NegacyclicMulZBig(k, f)
		kg := NegacyclicMulZBig(k, g)
		for i := 0; i < n; i++ {
			Fb[i].Sub(Fb[i], kf[i])
			Gb[i].Sub(Gb[i], kg[i])
		}
	}
	return Fb, Gb, true
}

func cloneBig(p []*big.Int) []*big.Int {
	out := make([]*big.Int, len(p))
	for i, v := range p {
		out[i] = new(big.Int).Set(v)
	}
	return out
}

// bigToComplexShifted loads src>>sh as float64 real parts. The shift
// is arithmetic toward zero, matching the load used on both sides of
// the quotient so the scale factors cancel.
func bigToComplexShifted(src []*big.Int, sh int) []complex128 {
	out := make([]complex128, len(src))
	t := new(big.Int)
	for i, v := range src {
		t.Set(v)
		if sh > 0 {
			neg := t.Sign() < 0
			if neg {
				t.Neg(t)
			}
			t.Rsh(t, uint(sh))
			if neg {
				t.Neg(t)
			}
		}
		fv, _ := new(big.Float).SetInt(t).Float64()
		out[i] = complex(fv, 0)
	}
	return out
}

// roundShifted rounds the real parts to integers and shifts left by
// sh, undoing the relative scaling between numerator and basis.
func roundShifted(c []complex128, sh int) []*big.Int {
	out := make([]*big.Int, len(c))
	for i, v := range c {
		r := math.Round(real(v))
		z := new(big.Int)
		if !math.IsInf(r, 0) && !math.IsNaN(r) {
			new(big.Float).SetFloat64(r).Int(z)
		}
		if sh > 0 {
			z.Lsh(z, uint(sh))
		} else if sh < 0 {
			z.Rsh(z, uint(-sh))
		}
		out[i] = z
	}
	return out
}

// fftNeg evaluates the polynomial at the primitive 2N-th complex roots
// exp(i*pi*(2j+1)/N), the points where x^N = -1.
func fftNeg(a []complex128) []complex128 {
	n := len(a)
	if n == 1 {
		return []complex128{a[0]}
	}
	half := n / 2
	even := make([]complex128, half)
	odd := make([]complex128, half)
	for i := 0; i < half; i++ {
		even[i] = a[2*i]
		odd[i] = a[2*i+1]
	}
	E := fftNeg(even)
	O := fftNeg(odd)
	out := make([]complex128, n)
	for j := 0; j < n; j++ {
		zeta := cmplx.Exp(complex(0, math.Pi*float64(2*j+1)/float64(n)))
		out[j] = E[j%half] + zeta*O[j%half]
	}
	return out
}

// ifftNeg inverts fftNeg.
func ifftNeg(a []complex128) []complex128 {
	n := len(a)
	if n == 1 {
		return []complex128{a[0]}
	}
	half := n / 2
	E := make([]complex128, half)
	O := make([]complex128, half)
	for j := 0; j < half; j++ {
		zeta := cmplx.Exp(complex(0, math.Pi*float64(2*j+1)/float64(n)))
		E[j] = (a[j] + a[j+half]) / 2
		O[j] = (a[j] - a[j+half]) / (2 * zeta)
	}
	e := ifftNeg(E)
	o := ifftNeg(O)
	out := make([]complex128, n)
	for i := 0; i < half; i++ {
		out[2*i] = e[i]
		out[2*i+1] = o[i]
	}
	return out
}
