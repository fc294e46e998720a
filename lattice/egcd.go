package lattice

import "math/big"

// extGCD returns d = gcd(a, b) together with u, v satisfying
// u*a + v*b = d. d is normalized non-negative.
func extGCD(a, b *big.Int) (d, u, v *big.Int) {
	old_r, r := new(big.Int).Set(a), new(big.Int).Set(b)
	old_s, s := big.NewInt(1), big.NewInt(0)
	old_t, t := big.NewInt(0), big.NewInt(1)
	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(old_r, r)

		tmp.Mul(q, r)
		old_r.Sub(old_r, tmp)
		old_r, r = r, old_r

		tmp.Mul(q, s)
		old_s.Sub(old_s, tmp)
		old_s, s = s, old_s

		tmp.Mul(q, t)
		old_t.Sub(old_t, tmp)
		old_t, t = t, old_t
	}
	if old_r.Sign() < 0 {
		old_r.Neg(old_r)
		old_s.Neg(old_s)
		old_t.Neg(old_t)
	}
	return old_r, old_s, old_t
}
