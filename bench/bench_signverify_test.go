package bench

import (
	"testing"

	"fourpath-signature/keys"
	"fourpath-signature/lattice"
	"fourpath-signature/signverify"
)

func benchKeyPair(b *testing.B, n int) (*keys.PublicKey, *keys.SecretKey) {
	b.Helper()
	par, err := lattice.NewParams(n, 12289)
	if err != nil {
		b.Fatalf("params: %v", err)
	}
	src, err := lattice.NewKeyedSource([]byte("bench-keys"))
	if err != nil {
		b.Fatalf("source: %v", err)
	}
	pk, sk, err := signverify.GenerateKeyPair(par, src, lattice.KeyGenOpts{})
	if err != nil {
		b.Fatalf("keygen: %v", err)
	}
	return pk, sk
}

func BenchmarkKeygenN64(b *testing.B) {
	par, err := lattice.NewParams(64, 12289)
	if err != nil {
		b.Fatalf("params: %v", err)
	}
	eng, err := lattice.NewEngine(par)
	if err != nil {
		b.Fatalf("engine: %v", err)
	}
	src, err := lattice.NewSource()
	if err != nil {
		b.Fatalf("source: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := lattice.Keygen(eng, src, lattice.KeyGenOpts{}); err != nil {
			b.Fatalf("keygen: %v", err)
		}
	}
}

func BenchmarkSignN64(b *testing.B) {
	pk, sk := benchKeyPair(b, 64)
	src, err := lattice.NewSource()
	if err != nil {
		b.Fatalf("source: %v", err)
	}
	msg := []byte("benchmark message")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := signverify.Sign(sk, pk, msg, src); err != nil {
			b.Fatalf("sign: %v", err)
		}
	}
}

func BenchmarkVerifyN64(b *testing.B) {
	pk, sk := benchKeyPair(b, 64)
	src, err := lattice.NewSource()
	if err != nil {
		b.Fatalf("source: %v", err)
	}
	msg := []byte("benchmark message")
	sig, err := signverify.Sign(sk, pk, msg, src)
	if err != nil {
		b.Fatalf("sign: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !signverify.Verify(pk, msg, sig) {
			b.Fatal("verification failed")
		}
	}
}
