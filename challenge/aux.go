package challenge

import (
	"encoding/binary"
	"fmt"
	"io"

	"fourpath-signature/lattice"
)

// Auxiliary data layout per path:
//
//	FiatShamir           none
//	HyperbolaHorizontal  h, k, a, b, x, y as little-endian uint64
//	HyperbolaVertical    same layout, swapped orientation
//	ModifiedFS           lambda as little-endian uint64
//
// The hyperbola shape (h, k, a, b) and the starting coordinate are
// digest-derived, so the verifier recomputes them; carrying them in
// the signature keeps decoding independent of the challenge math.

const (
	hypAuxLen    = 48
	lambdaAuxLen = 8
)

const (
	labelHypConstH = "fourpath/hyp-h"
	labelHypConstV = "fourpath/hyp-v"
	labelHypShape  = "fourpath/hyp-shape"
	labelHypCoord  = "fourpath/hyp-x"
)

// BuildAux produces the auxiliary block for the selected path. rand is
// consulted only by ModifiedFS, which draws its scalar from the
// signer's randomness rather than the digest.
func BuildAux(t Type, digest []byte, q uint64, rand io.Reader) ([]byte, error) {
	switch t {
	case FiatShamir:
		return nil, nil
	case HyperbolaHorizontal:
		return hyperbolaAux(digest, q, labelHypConstH), nil
	case HyperbolaVertical:
		return hyperbolaAux(digest, q, labelHypConstV), nil
	case ModifiedFS:
		lambda, err := drawLambda(rand, q)
		if err != nil {
			return nil, err
		}
		aux := make([]byte, lambdaAuxLen)
		binary.LittleEndian.PutUint64(aux, lambda)
		return aux, nil
	}
	return nil, fmt.Errorf("challenge: unknown type %d", t)
}

// hyperbolaAux derives the shape (h, k, a, b), picks the digest-bound
// coordinate x, and solves for y on x*y = c mod q.
func hyperbolaAux(digest []byte, q uint64, constLabel string) []byte {
	c := scalarNonzero(digest, constLabel, q)
	h := Scalar(digest, labelHypShape+"/h", q)
	k := Scalar(digest, labelHypShape+"/k", q)
	a := scalarNonzero(digest, labelHypShape+"/a", q)
	b := scalarNonzero(digest, labelHypShape+"/b", q)
	x := scalarNonzero(digest, labelHypCoord, q)
	y := lattice.MulMod(c, lattice.InvMod(x, q), q)
	aux := make([]byte, hypAuxLen)
	for i, v := range []uint64{h, k, a, b, x, y} {
		binary.LittleEndian.PutUint64(aux[8*i:], v)
	}
	return aux
}

// CheckAux verifies that the auxiliary block is the one the digest
// dictates for this path: correct length, digest-derived fields intact,
// and the hyperbola membership equation satisfied.
func CheckAux(t Type, digest []byte, q uint64, aux []byte) bool {
	switch t {
	case FiatShamir:
		return len(aux) == 0
	case HyperbolaHorizontal:
		return checkHyperbolaAux(digest, q, labelHypConstH, aux)
	case HyperbolaVertical:
		return checkHyperbolaAux(digest, q, labelHypConstV, aux)
	case ModifiedFS:
		_, err := parseLambda(aux, q)
		return err == nil
	}
	return false
}

func checkHyperbolaAux(digest []byte, q uint64, constLabel string, aux []byte) bool {
	if len(aux) != hypAuxLen {
		return false
	}
	var f [6]uint64
	for i := range f {
		f[i] = binary.LittleEndian.Uint64(aux[8*i:])
	}
	h, k, a, b, x, y := f[0], f[1], f[2], f[3], f[4], f[5]
	if h != Scalar(digest, labelHypShape+"/h", q) ||
		k != Scalar(digest, labelHypShape+"/k", q) ||
		a != scalarNonzero(digest, labelHypShape+"/a", q) ||
		b != scalarNonzero(digest, labelHypShape+"/b", q) {
		return false
	}
	if x != scalarNonzero(digest, labelHypCoord, q) {
		return false
	}
	c := scalarNonzero(digest, constLabel, q)
	return lattice.MulMod(x, y, q) == c
}

func drawLambda(rand io.Reader, q uint64) (uint64, error) {
	threshold := (^uint64(0) / (q - 1)) * (q - 1)
	var b [8]byte
	for i := 0; i < 256; i++ {
		if _, err := io.ReadFull(rand, b[:]); err != nil {
			return 0, err
		}
		v := binary.LittleEndian.Uint64(b[:])
		if v < threshold {
			return 1 + v%(q-1), nil
		}
	}
	return 0, lattice.ErrSamplingExhausted
}

func parseLambda(aux []byte, q uint64) (uint64, error) {
	if len(aux) != lambdaAuxLen {
		return 0, fmt.Errorf("challenge: lambda aux length %d", len(aux))
	}
	lambda := binary.LittleEndian.Uint64(aux)
	if lambda == 0 || lambda >= q {
		return 0, fmt.Errorf("challenge: lambda out of range")
	}
	return lambda, nil
}
