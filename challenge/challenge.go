// Package challenge derives the per-signature challenge: the message
// commitment, the deterministic selection of one of four challenge
// paths, each path's auxiliary data, and the challenge polynomial the
// response must hit.
package challenge

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"

	"fourpath-signature/lattice"
)

// Type selects one of the four challenge paths.
type Type uint8

const (
	// FiatShamir is the plain hash-to-polynomial path.
	FiatShamir Type = iota
	// HyperbolaHorizontal binds a point of the horizontal hyperbola
	// x*y = c_h into the challenge.
	HyperbolaHorizontal
	// HyperbolaVertical is the same with the roles of the coordinates
	// swapped and an independent constant c_v.
	HyperbolaVertical
	// ModifiedFS perturbs the challenge with a signer-chosen scalar.
	ModifiedFS

	numTypes = 4
)

func (t Type) String() string {
	switch t {
	case FiatShamir:
		return "fiat-shamir"
	case HyperbolaHorizontal:
		return "hyperbola-horizontal"
	case HyperbolaVertical:
		return "hyperbola-vertical"
	case ModifiedFS:
		return "modified-fs"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// DigestLen is the length of the message commitment.
const DigestLen = 64

const (
	commitDomain = "fourpath/commit"
	typeDomain   = "fourpath/type"
	polyDomain   = "fourpath/poly"
)

// Commit binds salt and message into the digest everything downstream
// derives from.
func Commit(salt, msg []byte) []byte {
	h := sha3.NewShake256()
	h.Write([]byte(commitDomain))
	h.Write(salt)
	h.Write(msg)
	out := make([]byte, DigestLen)
	h.Read(out)
	return out
}

// DeriveType selects the challenge path from the commitment and the
// message. Neither the signer nor the verifier gets a choice: the path
// is a pure function of (salt, msg), so a signature replayed under a
// different tag fails before any algebra runs.
func DeriveType(digest, msg []byte) Type {
	h := sha3.NewShake256()
	h.Write([]byte(typeDomain))
	h.Write(digest)
	h.Write(msg)
	var b [1]byte
	h.Read(b[:])
	return Type(b[0] % numTypes)
}

// Scalar derives a uniform value in [0, q) from the digest under a
// per-use label, by rejection on 64-bit words.
func Scalar(digest []byte, label string, q uint64) uint64 {
	h := sha3.NewShake256()
	h.Write([]byte(label))
	h.Write(digest)
	threshold := (^uint64(0) / q) * q
	var b [8]byte
	for {
		h.Read(b[:])
		v := binary.LittleEndian.Uint64(b[:])
		if v < threshold {
			return v % q
		}
	}
}

// scalarNonzero is Scalar restricted to [1, q).
func scalarNonzero(digest []byte, label string, q uint64) uint64 {
	return 1 + Scalar(digest, label, q-1)
}

// Poly expands the challenge polynomial for the chosen path. The aux
// bytes enter the expansion, so forging aux after the fact would
// change the challenge itself.
func Poly(digest []byte, t Type, aux []byte, n int, q uint64) []uint64 {
	h := sha3.NewShake256()
	h.Write([]byte(polyDomain))
	h.Write(digest)
	h.Write([]byte{byte(t)})
	h.Write(aux)
	out := make([]uint64, n)
	threshold := (^uint64(0) / q) * q
	var b [8]byte
	for i := 0; i < n; {
		h.Read(b[:])
		v := binary.LittleEndian.Uint64(b[:])
		if v < threshold {
			out[i] = v % q
			i++
		}
	}
	return out
}

// Target maps the challenge polynomial to the lattice point the
// response must approximate. All paths except ModifiedFS sign the
// challenge directly; ModifiedFS signs c + lambda*c^2 coefficient-wise.
func Target(t Type, c []uint64, aux []byte, q uint64) ([]uint64, error) {
	if t != ModifiedFS {
		out := make([]uint64, len(c))
		copy(out, c)
		return out, nil
	}
	lambda, err := parseLambda(aux, q)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, len(c))
	for i, ci := range c {
		sq := lattice.MulMod(ci, ci, q)
		out[i] = lattice.AddMod(ci, lattice.MulMod(lambda, sq, q), q)
	}
	return out, nil
}
