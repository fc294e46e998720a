package lattice

import (
	"errors"
	"fmt"
)

// Params defines the cyclotomic dimension N, the NTT modulus q and the
// sampling widths of the scheme.
//
// SigmaKey is the Falcon-style key quality multiplier: secret
// polynomials f, g are drawn with stddev SigmaKey*sqrt(q/2N).
// SigmaSign is the stddev of the randomized Babai rounding used when
// computing responses. Parallelism is a hint for the batch scheduler
// (0 means GOMAXPROCS).
type Params struct {
	N           int
	Q           uint64
	SigmaKey    float64
	SigmaSign   float64
	Parallelism int
}

// NewParams creates parameters, ensuring N is a power of two and q is
// large enough to host centered coefficients. The full root-of-unity
// precondition is validated by NewEngine.
func NewParams(N int, Q uint64) (Params, error) {
	if N < 2 || N&(N-1) != 0 {
		return Params{}, errors.New("N must be a power of two >= 2")
	}
	if Q < 3 {
		return Params{}, errors.New("q must be >= 3")
	}
	return Params{N: N, Q: Q, SigmaKey: DefaultSigmaKey, SigmaSign: DefaultSigmaSign}, nil
}

const (
	// DefaultSigmaKey matches the Falcon quality constant.
	DefaultSigmaKey = 1.17
	// DefaultSigmaSign matches the reference rounding stddev.
	DefaultSigmaSign = 1.2
)

// PresetN512Q12289 returns the baseline parameter set (Falcon modulus).
func PresetN512Q12289() Params {
	return Params{N: 512, Q: 12289, SigmaKey: DefaultSigmaKey, SigmaSign: DefaultSigmaSign}
}

// PresetN1024Q12289 returns the high-security parameter set.
func PresetN1024Q12289() Params {
	return Params{N: 1024, Q: 12289, SigmaKey: DefaultSigmaKey, SigmaSign: DefaultSigmaSign}
}

// PresetN64Q12289 returns a small parameter set for tests and validation.
func PresetN64Q12289() Params {
	return Params{N: 64, Q: 12289, SigmaKey: DefaultSigmaKey, SigmaSign: DefaultSigmaSign}
}

// Validate re-checks the structural constraints on p.
func (p Params) Validate() error {
	if p.N < 2 || p.N&(p.N-1) != 0 {
		return fmt.Errorf("params: N=%d is not a power of two >= 2", p.N)
	}
	if p.Q < 3 {
		return fmt.Errorf("params: q=%d too small", p.Q)
	}
	if p.SigmaKey <= 0 || p.SigmaSign <= 0 {
		return errors.New("params: sigma values must be positive")
	}
	return nil
}
