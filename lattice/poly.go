package lattice

import (
	"math"
	"math/bits"
)

func mul64(a, b uint64) (hi, lo uint64) { return bits.Mul64(a, b) }

func rem128(hi, lo, q uint64) uint64 {
	_, r := bits.Div64(hi%q, lo, q)
	return r
}

// Poly holds coefficient-domain values in [0, q).
type Poly struct {
	Coeffs []uint64
}

// NTTPoly holds evaluation-domain values; arithmetic on it is pointwise.
type NTTPoly struct {
	Coeffs []uint64
}

// CenterModQ maps coefficients in [0,q) to the symmetric interval [-q/2, q/2).
func CenterModQ(a []uint64, q uint64) []int64 {
	out := make([]int64, len(a))
	half := q / 2
	for i, v := range a {
		if v > half {
			out[i] = int64(v) - int64(q)
		} else {
			out[i] = int64(v)
		}
	}
	return out
}

// DecenterToModQ maps centered coefficients back to [0,q).
func DecenterToModQ(a []int64, q uint64) []uint64 {
	out := make([]uint64, len(a))
	qi := int64(q)
	for i, v := range a {
		t := v % qi
		if t < 0 {
			t += qi
		}
		out[i] = uint64(t)
	}
	return out
}

// NormSq returns the squared Euclidean norm of a centered vector.
func NormSq(a []int64) uint64 {
	var s uint64
	for _, v := range a {
		s += uint64(v * v)
	}
	return s
}

// InfNorm returns the largest absolute coefficient.
func InfNorm(a []int64) int64 {
	var m int64
	for _, v := range a {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

// RoundAwayFromZero implements C99 round semantics: ties away from zero.
func RoundAwayFromZero(x float64) int64 {
	if math.IsNaN(x) {
		return 0
	}
	if x >= 0 {
		return int64(math.Floor(x + 0.5))
	}
	return -int64(math.Floor(-x + 0.5))
}

// mulMod returns a*b mod q without overflow for q < 2^63.
func mulMod(a, b, q uint64) uint64 {
	hi, lo := mul64(a%q, b%q)
	return rem128(hi, lo, q)
}

// addMod returns a+b mod q.
func addMod(a, b, q uint64) uint64 {
	s := a%q + b%q
	if s >= q {
		s -= q
	}
	return s
}

// subMod returns a-b mod q.
func subMod(a, b, q uint64) uint64 {
	a, b = a%q, b%q
	if a >= b {
		return a - b
	}
	return a + q - b
}

// expMod returns a^e mod q by square-and-multiply.
func expMod(a, e, q uint64) uint64 {
	res := uint64(1 % q)
	base := a % q
	for e > 0 {
		if e&1 == 1 {
			res = mulMod(res, base, q)
		}
		base = mulMod(base, base, q)
		e >>= 1
	}
	return res
}

// InvMod returns a^{-1} mod q for prime q (a != 0 mod q).
func InvMod(a, q uint64) uint64 {
	return expMod(a, q-2, q)
}

// MulMod returns a*b mod q without overflow for q < 2^63.
func MulMod(a, b, q uint64) uint64 { return mulMod(a, b, q) }

// AddMod returns a+b mod q.
func AddMod(a, b, q uint64) uint64 { return addMod(a, b, q) }

// SubMod returns a-b mod q.
func SubMod(a, b, q uint64) uint64 { return subMod(a, b, q) }
