package challenge

import (
	"bytes"
	"testing"

	"fourpath-signature/lattice"
)

const (
	testN = 64
	testQ = uint64(12289)
)

func testDigest(label string) []byte {
	salt := bytes.Repeat([]byte{0xa5}, 40)
	return Commit(salt, []byte(label))
}

func TestCommitBindsSaltAndMessage(t *testing.T) {
	salt := bytes.Repeat([]byte{1}, 40)
	d1 := Commit(salt, []byte("msg"))
	d2 := Commit(salt, []byte("msh"))
	salt2 := bytes.Repeat([]byte{2}, 40)
	d3 := Commit(salt2, []byte("msg"))
	if bytes.Equal(d1, d2) || bytes.Equal(d1, d3) {
		t.Fatal("commitment ignores one of its inputs")
	}
	if len(d1) != DigestLen {
		t.Fatalf("digest length %d, want %d", len(d1), DigestLen)
	}
}

func TestDeriveTypeStableAndCoversAllPaths(t *testing.T) {
	seen := make(map[Type]bool)
	for i := 0; i < 64; i++ {
		msg := []byte{byte(i), byte(i >> 1)}
		d := Commit(bytes.Repeat([]byte{byte(i)}, 40), msg)
		typ := DeriveType(d, msg)
		if typ > ModifiedFS {
			t.Fatalf("type out of range: %d", typ)
		}
		if DeriveType(d, msg) != typ {
			t.Fatal("type derivation not deterministic")
		}
		seen[typ] = true
	}
	for typ := FiatShamir; typ <= ModifiedFS; typ++ {
		if !seen[typ] {
			t.Fatalf("path %s never selected across 64 salts", typ)
		}
	}
}

func TestScalarRangeAndStability(t *testing.T) {
	d := testDigest("scalar")
	v := Scalar(d, "label-a", testQ)
	if v >= testQ {
		t.Fatalf("scalar out of range: %d", v)
	}
	if Scalar(d, "label-a", testQ) != v {
		t.Fatal("scalar not deterministic")
	}
	if Scalar(d, "label-b", testQ) == v {
		t.Fatal("labels do not separate scalar domains")
	}
	for i := 0; i < 256; i++ {
		if scalarNonzero(d, string(rune(i)), testQ) == 0 {
			t.Fatal("nonzero scalar returned zero")
		}
	}
}

func TestPolyUniformAndAuxBound(t *testing.T) {
	d := testDigest("poly")
	c := Poly(d, FiatShamir, nil, testN, testQ)
	if len(c) != testN {
		t.Fatalf("length %d, want %d", len(c), testN)
	}
	for i, v := range c {
		if v >= testQ {
			t.Fatalf("coeff %d out of range: %d", i, v)
		}
	}
	// Different aux must change the challenge.
	c2 := Poly(d, FiatShamir, []byte{1}, testN, testQ)
	same := true
	for i := range c {
		if c[i] != c2[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("aux bytes do not enter the challenge expansion")
	}
}

func TestHyperbolaAuxRoundtrip(t *testing.T) {
	for _, typ := range []Type{HyperbolaHorizontal, HyperbolaVertical} {
		d := testDigest("hyp-" + typ.String())
		aux, err := BuildAux(typ, d, testQ, nil)
		if err != nil {
			t.Fatalf("%s: build: %v", typ, err)
		}
		if len(aux) != hypAuxLen {
			t.Fatalf("%s: aux length %d", typ, len(aux))
		}
		if !CheckAux(typ, d, testQ, aux) {
			t.Fatalf("%s: honest aux rejected", typ)
		}
		// The two orientations use distinct constants, so aux from
		// one must fail under the other.
		other := HyperbolaHorizontal
		if typ == HyperbolaHorizontal {
			other = HyperbolaVertical
		}
		if CheckAux(other, d, testQ, aux) {
			t.Fatalf("%s: aux accepted under swapped orientation", typ)
		}
		for i := range aux {
			bad := append([]byte(nil), aux...)
			bad[i] ^= 0x01
			if CheckAux(typ, d, testQ, bad) {
				t.Fatalf("%s: tampered aux byte %d accepted", typ, i)
			}
		}
	}
}

func TestModifiedFSAux(t *testing.T) {
	d := testDigest("mfs")
	src, err := lattice.NewKeyedSource([]byte("mfs-rand"))
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	aux, err := BuildAux(ModifiedFS, d, testQ, src)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !CheckAux(ModifiedFS, d, testQ, aux) {
		t.Fatal("honest lambda rejected")
	}
	lambda, err := parseLambda(aux, testQ)
	if err != nil || lambda == 0 || lambda >= testQ {
		t.Fatalf("lambda out of range: %d (%v)", lambda, err)
	}
	if CheckAux(ModifiedFS, d, testQ, nil) {
		t.Fatal("missing lambda accepted")
	}
	zero := make([]byte, lambdaAuxLen)
	if CheckAux(ModifiedFS, d, testQ, zero) {
		t.Fatal("zero lambda accepted")
	}
}

func TestTargetTransform(t *testing.T) {
	d := testDigest("target")
	c := Poly(d, FiatShamir, nil, testN, testQ)
	plain, err := Target(FiatShamir, c, nil, testQ)
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	for i := range c {
		if plain[i] != c[i] {
			t.Fatal("direct path altered the challenge")
		}
	}
	src, _ := lattice.NewKeyedSource([]byte("target-rand"))
	aux, err := BuildAux(ModifiedFS, d, testQ, src)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	lambda, _ := parseLambda(aux, testQ)
	got, err := Target(ModifiedFS, c, aux, testQ)
	if err != nil {
		t.Fatalf("target: %v", err)
	}
	for i, ci := range c {
		want := lattice.AddMod(ci, lattice.MulMod(lambda, lattice.MulMod(ci, ci, testQ), testQ), testQ)
		if got[i] != want {
			t.Fatalf("coeff %d: %d != %d", i, got[i], want)
		}
	}
}

func TestFiatShamirAuxMustBeEmpty(t *testing.T) {
	d := testDigest("fs")
	if !CheckAux(FiatShamir, d, testQ, nil) {
		t.Fatal("empty aux rejected")
	}
	if CheckAux(FiatShamir, d, testQ, []byte{0}) {
		t.Fatal("nonempty aux accepted on the plain path")
	}
}
