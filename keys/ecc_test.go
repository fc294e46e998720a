package keys

import (
	"bytes"
	"errors"
	"math/bits"
	"testing"
)

func TestHammingCodewordsDistance(t *testing.T) {
	for i := 0; i < 16; i++ {
		for j := i + 1; j < 16; j++ {
			d := bits.OnesCount8(hammingCodewords[i] ^ hammingCodewords[j])
			if d < 4 {
				t.Fatalf("codewords %d and %d at distance %d", i, j, d)
			}
		}
	}
}

func TestECCRoundtrip(t *testing.T) {
	data := []byte("the quick brown fox\x00\xff\x80")
	got, err := eccDecode(eccEncode(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("roundtrip mismatch: %x != %x", got, data)
	}
}

func TestECCCorrectsSingleBitPerByte(t *testing.T) {
	data := []byte{0x12, 0x34, 0xab}
	code := eccEncode(data)
	// One flipped bit in every code byte stays correctable.
	for i := range code {
		code[i] ^= 1 << (i % 8)
	}
	got, err := eccDecode(code)
	if err != nil {
		t.Fatalf("decode after single-bit flips: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("correction failed: %x != %x", got, data)
	}
}

func TestECCDetectsDoubleBitErrors(t *testing.T) {
	code := eccEncode([]byte{0x5a})
	code[0] ^= 0b00000101
	if _, err := eccDecode(code); !errors.Is(err, ErrKeyCorruption) {
		t.Fatalf("double flip: got %v, want ErrKeyCorruption", err)
	}
}

func TestECCRejectsOddLength(t *testing.T) {
	if _, err := eccDecode([]byte{0x00}); !errors.Is(err, ErrKeyCorruption) {
		t.Fatalf("odd length: got %v, want ErrKeyCorruption", err)
	}
}
