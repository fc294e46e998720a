package lattice

import "math/big"

// NegacyclicMulZ computes a*b in Z[x]/(x^N+1) exactly over the
// integers. Accumulation runs in big.Int so arbitrarily large key
// coefficients stay exact; the result is reduced back to int64 only
// when it fits, which holds for every product the signer forms.
func NegacyclicMulZ(a, b []int64) []int64 {
	n := len(a)
	acc := make([]*big.Int, n)
	for i := range acc {
		acc[i] = new(big.Int)
	}
	t := new(big.Int)
	for i, ai := range a {
		if ai == 0 {
			continue
		}
		bi := big.NewInt(ai)
		for j, bj := range b {
			if bj == 0 {
				continue
			}
			t.Mul(bi, big.NewInt(bj))
			k := i + j
			if k < n {
				acc[k].Add(acc[k], t)
			} else {
				acc[k-n].Sub(acc[k-n], t)
			}
		}
	}
	out := make([]int64, n)
	for i, v := range acc {
		out[i] = v.Int64()
	}
	return out
}

// NegacyclicMulZBig is NegacyclicMulZ with big.Int inputs and outputs,
// used by the trapdoor solver where intermediate coefficients exceed
// 64 bits.
func NegacyclicMulZBig(a, b []*big.Int) []*big.Int {
	n := len(a)
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = new(big.Int)
	}
	t := new(big.Int)
	for i := range a {
		if a[i].Sign() == 0 {
			continue
		}
		for j := range b {
			if b[j].Sign() == 0 {
				continue
			}
			t.Mul(a[i], b[j])
			k := i + j
			if k < n {
				out[k].Add(out[k], t)
			} else {
				out[k-n].Sub(out[k-n], t)
			}
		}
	}
	return out
}

// DivRoundQ returns the real quotients v[i]/q as float64 centers for
// the randomized rounding step.
func DivRoundQ(v []int64, q uint64) []float64 {
	out := make([]float64, len(v))
	fq := float64(q)
	for i, x := range v {
		out[i] = float64(x) / fq
	}
	return out
}

// ScaleNeg negates a slice in place and returns it.
func ScaleNeg(v []int64) []int64 {
	for i := range v {
		v[i] = -v[i]
	}
	return v
}

// AddZ returns a+b element-wise.
func AddZ(a, b []int64) []int64 {
	out := make([]int64, len(a))
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// SubZ returns a-b element-wise.
func SubZ(a, b []int64) []int64 {
	out := make([]int64, len(a))
	for i := range out {
		out[i] = a[i] - b[i]
	}
	return out
}
