package lattice

import (
	"math"
	"os"
)

// tailcut bounds the support of the discrete Gaussian at tailcut*sigma
// on each side of the center; mass beyond it is below 2^-100 for the
// deviations used here.
const tailcut = 12.0

// GaussianSampler draws integers from the discrete Gaussian D_{Z,sigma}
// by cumulative-table inversion. The zero-centered table is built once
// at construction; every draw scans the full table so the scan length
// does not depend on the sampled value.
type GaussianSampler struct {
	src   *Source
	sigma float64
	table []uint64 // cdf over |z| = 0..len-1, scaled to 2^64
}

// NewGaussianSampler builds the inversion table for deviation sigma.
func NewGaussianSampler(src *Source, sigma float64) *GaussianSampler {
	bound := int(math.Ceil(tailcut * sigma))
	weights := make([]float64, bound+1)
	// Half weight at zero so that a uniform sign bit restores the
	// symmetric distribution without biasing z=0.
	weights[0] = 0.5
	total := 0.5
	for k := 1; k <= bound; k++ {
		w := math.Exp(-float64(k) * float64(k) / (2 * sigma * sigma))
		weights[k] = w
		total += w
	}
	table := make([]uint64, bound+1)
	cum := 0.0
	for k := 0; k <= bound; k++ {
		cum += weights[k] / total
		if cum >= 1.0 {
			table[k] = ^uint64(0)
		} else {
			table[k] = uint64(cum * float64(^uint64(0)))
		}
	}
	table[bound] = ^uint64(0)
	dbg(os.Stderr, "[sampler] sigma=%.4f bound=%d\n", sigma, bound)
	return &GaussianSampler{src: src, sigma: sigma, table: table}
}

// Sigma returns the sampler's deviation.
func (g *GaussianSampler) Sigma() float64 { return g.sigma }

// Sample draws z from D_{Z,sigma} centered at zero.
func (g *GaussianSampler) Sample() (int64, error) {
	u, err := g.src.Uint64()
	if err != nil {
		return 0, err
	}
	// Constant scan: every entry is compared, the match index is
	// accumulated arithmetically.
	var z int64
	for _, t := range g.table {
		if u > t {
			z++
		}
	}
	s, err := g.src.Uint64()
	if err != nil {
		return 0, err
	}
	if s&1 == 1 {
		z = -z
	}
	return z, nil
}

// SampleCentered draws z from D_{Z,sigma,c} for an arbitrary real
// center by inversion over the window [c - tailcut*sigma,
// c + tailcut*sigma]. The window table is rebuilt per call because the
// center changes with every coefficient.
func (g *GaussianSampler) SampleCentered(c float64) (int64, error) {
	lo := int64(math.Floor(c - tailcut*g.sigma))
	hi := int64(math.Ceil(c + tailcut*g.sigma))
	n := int(hi - lo + 1)
	weights := make([]float64, n)
	total := 0.0
	inv := 1 / (2 * g.sigma * g.sigma)
	for i := 0; i < n; i++ {
		d := float64(lo+int64(i)) - c
		w := math.Exp(-d * d * inv)
		weights[i] = w
		total += w
	}
	u, err := g.src.Float64()
	if err != nil {
		return 0, err
	}
	target := u * total
	cum := 0.0
	idx := n - 1
	for i := 0; i < n; i++ {
		cum += weights[i]
		if cum > target && idx == n-1 {
			idx = i
		}
	}
	return lo + int64(idx), nil
}

// SampleVec draws n independent zero-centered values.
func (g *GaussianSampler) SampleVec(n int) ([]int64, error) {
	out := make([]int64, n)
	for i := range out {
		z, err := g.Sample()
		if err != nil {
			return nil, err
		}
		out[i] = z
	}
	return out, nil
}

// RoundOff applies randomized Gaussian rounding to each real center:
// the result is distributed as D_{Z,sigma,c[i]} coordinate-wise.
func (g *GaussianSampler) RoundOff(c []float64) ([]int64, error) {
	out := make([]int64, len(c))
	for i, ci := range c {
		z, err := g.SampleCentered(ci)
		if err != nil {
			return nil, err
		}
		out[i] = z
	}
	return out, nil
}
