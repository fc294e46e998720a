// Package signverify wires key generation, signing, and verification
// together on top of the lattice engine and the four-path challenge
// derivation.
package signverify

import (
	"fmt"
	"os"
	"time"

	"fourpath-signature/challenge"
	"fourpath-signature/keys"
	"fourpath-signature/lattice"
	"fourpath-signature/measure"
	"fourpath-signature/prof"
)

// MaxSignAttempts caps the rejection loop. Honest parameters accept
// within a couple of attempts; exhausting the cap indicates broken
// parameters rather than bad luck.
const MaxSignAttempts = 32

const keyVersion = "fourpath-v1"

// GenerateKeyPair samples a trapdoor for par and wraps it into the
// persistable key structs.
func GenerateKeyPair(par lattice.Params, src *lattice.Source, opts lattice.KeyGenOpts) (*keys.PublicKey, *keys.SecretKey, error) {
	eng, err := lattice.NewEngine(par)
	if err != nil {
		return nil, nil, err
	}
	km, err := lattice.Keygen(eng, src, opts)
	if err != nil {
		return nil, nil, err
	}
	pk := &keys.PublicKey{
		Version: keyVersion,
		N:       par.N,
		Q:       par.Q,
		H:       km.H,
		BoundSq: km.BoundSq,
	}
	sk := &keys.SecretKey{
		Version:   keyVersion,
		N:         par.N,
		Q:         par.Q,
		SigmaSign: par.SigmaSign,
		F:         km.F,
		G:         km.G,
		BigF:      km.BigF,
		BigG:      km.BigG,
	}
	return pk, sk, nil
}

// Sign produces a signature on msg. Each attempt draws a fresh salt,
// derives the challenge path and target from it, computes the Babai
// round-off response against the trapdoor basis, and accepts only when
// the response norms clear the public bound.
func Sign(sk *keys.SecretKey, pk *keys.PublicKey, msg []byte, src *lattice.Source) (*keys.Signature, error) {
	defer prof.Track(time.Now(), "Sign")
	par, err := lattice.NewParams(pk.N, pk.Q)
	if err != nil {
		return nil, err
	}
	// The key's sigma, not the preset default: the public bound was
	// derived from it, and rounding at any other sigma breaks the
	// acceptance rate.
	if sk.SigmaSign > 0 {
		par.SigmaSign = sk.SigmaSign
	}
	gauss := lattice.NewGaussianSampler(src, par.SigmaSign)
	q := par.Q
	for attempt := 0; attempt < MaxSignAttempts; attempt++ {
		measure.Global.Add("sign/attempts", 1)
		salt, err := src.Bytes(keys.SaltLen)
		if err != nil {
			return nil, err
		}
		digest := challenge.Commit(salt, msg)
		typ := challenge.DeriveType(digest, msg)
		aux, err := challenge.BuildAux(typ, digest, q, src)
		if err != nil {
			return nil, err
		}
		c := challenge.Poly(digest, typ, aux, par.N, q)
		target, err := challenge.Target(typ, c, aux, q)
		if err != nil {
			return nil, err
		}
		t := lattice.CenterModQ(target, q)

		// Babai round-off: the real solution of (s1,s2)=(t,0) in the
		// basis is k = (t,0) * B^{-1} = (-t*F/q, t*f/q); randomized
		// rounding keeps the error spherical around it.
		c1 := lattice.DivRoundQ(lattice.ScaleNeg(lattice.NegacyclicMulZ(t, sk.BigF)), q)
		c2 := lattice.DivRoundQ(lattice.NegacyclicMulZ(t, sk.F), q)
		k1, err := gauss.RoundOff(c1)
		if err != nil {
			return nil, err
		}
		k2, err := gauss.RoundOff(c2)
		if err != nil {
			return nil, err
		}
		s1 := lattice.SubZ(t, lattice.AddZ(
			lattice.NegacyclicMulZ(k1, sk.G),
			lattice.NegacyclicMulZ(k2, sk.BigG)))
		s2 := lattice.AddZ(
			lattice.NegacyclicMulZ(k1, sk.F),
			lattice.NegacyclicMulZ(k2, sk.BigF))

		if !acceptResponse(s1, s2, pk.BoundSq, q) {
			dbg(os.Stderr, "[sign] attempt=%d rejected type=%s\n", attempt, typ)
			measure.Global.Add("sign/rejections", 1)
			continue
		}
		if measure.Enabled {
			measure.Global.Add("sign/s1_normsq", lattice.NormSq(s1))
			measure.Global.Add("sign/s2_normsq", lattice.NormSq(s2))
			measure.Global.Add("sign/aux_bytes", uint64(len(aux)))
		}
		return &keys.Signature{
			Type: uint8(typ),
			Salt: salt,
			S2:   s2,
			Aux:  aux,
		}, nil
	}
	return nil, lattice.ErrResponseRejectionExhausted
}

// acceptResponse applies the two-sided norm gate: the joint Euclidean
// norm against the public bound, plus the centering sanity bound on
// each coefficient.
func acceptResponse(s1, s2 []int64, boundSq, q uint64) bool {
	if lattice.InfNorm(s1) >= int64(q/2) || lattice.InfNorm(s2) >= int64(q/2) {
		return false
	}
	return lattice.NormSq(s1)+lattice.NormSq(s2) <= boundSq
}

// Verify checks sig on msg under pk. It returns false for anything
// short of a valid signature; structural problems and algebraic
// failures are indistinguishable to the caller.
func Verify(pk *keys.PublicKey, msg []byte, sig *keys.Signature) bool {
	if sig == nil || len(sig.Salt) != keys.SaltLen || len(sig.S2) != pk.N {
		return false
	}
	par, err := lattice.NewParams(pk.N, pk.Q)
	if err != nil {
		return false
	}
	eng, err := lattice.NewEngine(par)
	if err != nil {
		return false
	}
	q := par.Q
	digest := challenge.Commit(sig.Salt, msg)
	typ := challenge.Type(sig.Type)
	if challenge.DeriveType(digest, msg) != typ {
		return false
	}
	if !challenge.CheckAux(typ, digest, q, sig.Aux) {
		return false
	}
	c := challenge.Poly(digest, typ, sig.Aux, par.N, q)
	target, err := challenge.Target(typ, c, sig.Aux, q)
	if err != nil {
		return false
	}

	// s1 = t - h*s2 mod q; the pair (s1, s2) must be short.
	hNTT := eng.ForwardNTT(lattice.Poly{Coeffs: pk.H})
	s2NTT := eng.ForwardNTT(lattice.Poly{Coeffs: lattice.DecenterToModQ(sig.S2, q)})
	hs2 := eng.InverseNTT(eng.PointwiseMul(hNTT, s2NTT))
	s1 := make([]uint64, par.N)
	for i := range s1 {
		s1[i] = lattice.SubMod(target[i], hs2.Coeffs[i], q)
	}
	s1c := lattice.CenterModQ(s1, q)
	return acceptResponse(s1c, sig.S2, pk.BoundSq, q)
}

// VerifyBytes decodes a wire-form signature and verifies it. The only
// error path is a malformed encoding; a decodable but invalid
// signature is (false, nil).
func VerifyBytes(pk *keys.PublicKey, msg []byte, wire []byte) (bool, error) {
	sig, err := keys.DecodeSignature(wire)
	if err != nil {
		return false, fmt.Errorf("verify: %w", err)
	}
	return Verify(pk, msg, sig), nil
}
