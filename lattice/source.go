package lattice

import (
	"encoding/binary"
	"fmt"

	"github.com/tuneinsight/lattigo/v4/utils"
)

// Source is the randomness tap used by all samplers. A keyed source is
// a deterministic expander of its seed, so two sources built from the
// same seed emit identical streams regardless of scheduling.
type Source struct {
	prng utils.PRNG
}

// NewSource returns a source backed by the system CSPRNG.
func NewSource() (*Source, error) {
	p, err := utils.NewPRNG()
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return &Source{prng: p}, nil
}

// NewKeyedSource returns a deterministic source expanding seed.
func NewKeyedSource(seed []byte) (*Source, error) {
	p, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return &Source{prng: p}, nil
}

// NewDerivedSource keys a source with seed || index, giving each batch
// item its own independent stream.
func NewDerivedSource(seed []byte, index uint64) (*Source, error) {
	buf := make([]byte, len(seed)+8)
	copy(buf, seed)
	binary.LittleEndian.PutUint64(buf[len(seed):], index)
	return NewKeyedSource(buf)
}

// Read fills p from the underlying stream.
func (s *Source) Read(p []byte) (int, error) {
	return s.prng.Read(p)
}

// Bytes draws n fresh bytes.
func (s *Source) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := s.prng.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Uint64 draws a uniform 64-bit word.
func (s *Source) Uint64() (uint64, error) {
	var b [8]byte
	if _, err := s.prng.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// UniformMod draws a uniform value in [0, bound) by threshold
// rejection, so the distribution carries no modulo bias.
func (s *Source) UniformMod(bound uint64) (uint64, error) {
	if bound == 0 {
		return 0, fmt.Errorf("source: zero bound")
	}
	threshold := (^uint64(0) / bound) * bound
	for i := 0; i < 256; i++ {
		v, err := s.Uint64()
		if err != nil {
			return 0, err
		}
		if v < threshold {
			return v % bound, nil
		}
	}
	return 0, ErrSamplingExhausted
}

// Float64 draws a uniform float in [0,1) with 53 bits of precision.
func (s *Source) Float64() (float64, error) {
	v, err := s.Uint64()
	if err != nil {
		return 0, err
	}
	return float64(v>>11) / (1 << 53), nil
}
