package lattice

import "errors"

// Error taxonomy for the arithmetic, sampling and key generation layers.
// Verification never surfaces an error: absence of proof is a plain false.
var (
	// ErrInvalidModulus reports that (N, q) do not admit a primitive
	// 2N-th root of unity. Surfaced once, at engine initialization.
	ErrInvalidModulus = errors.New("invalid modulus: q admits no primitive 2N-th root of unity")

	// ErrKeyGenerationExhausted reports that trapdoor rejection sampling
	// hit its trial bound. Indicates a parameter misconfiguration.
	ErrKeyGenerationExhausted = errors.New("key generation trial bound exhausted")

	// ErrSamplingExhausted reports that the bounded internal retries of
	// a sampler were exhausted. Extremely rare with sane parameters.
	ErrSamplingExhausted = errors.New("sampler retry bound exhausted")

	// ErrResponseRejectionExhausted reports that signing rejection
	// sampling hit its trial bound. The caller may retry with fresh
	// randomness.
	ErrResponseRejectionExhausted = errors.New("response rejection sampling exhausted")
)
