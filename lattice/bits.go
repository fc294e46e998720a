package lattice

import (
	"math/big"
	"math/bits"
)

func bitlenMaxAbsBig(s []*big.Int) int {
	var m big.Int
	for _, v := range s {
		if v == nil {
			continue
		}
		var t big.Int
		t.Abs(v)
		if t.Cmp(&m) > 0 {
			m.Set(&t)
		}
	}
	return m.BitLen()
}

func bitlenMaxAbs(s []int64) int {
	m := 0
	for _, v := range s {
		if v < 0 {
			v = -v
		}
		if b := bits.Len64(uint64(v)); b > m {
			m = b
		}
	}
	return m
}

// extraBitsBig returns max(bitlen(a), bitlen(b), base) - base, so the
// result is never negative and shifting by it brings both operands
// under base bits.
func extraBitsBig(a, b []*big.Int, base int) int {
	maxBits := base
	if bl := bitlenMaxAbsBig(a); bl > maxBits {
		maxBits = bl
	}
	if bl := bitlenMaxAbsBig(b); bl > maxBits {
		maxBits = bl
	}
	return maxBits - base
}

func bigSliceToInt64(p []*big.Int) ([]int64, bool) {
	out := make([]int64, len(p))
	for i := range p {
		if !p[i].IsInt64() {
			return nil, false
		}
		out[i] = p[i].Int64()
	}
	return out, true
}
