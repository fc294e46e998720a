// Package lattice implements the polynomial-ring arithmetic, discrete
// sampling and trapdoor key generation underlying the four-path
// signature scheme. Arithmetic lives in Z_q[x]/(x^N+1) for a
// power-of-two N and an NTT-friendly prime q; the heavy mod-q
// transforms are backed by Lattigo rings while exact integer
// convolutions (needed by the Babai trapdoor response and the NTRU
// equation solver) are computed over Z with big.Int accumulation.
package lattice
