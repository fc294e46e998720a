package keys

import "math/bits"

// Extended Hamming(8,4) code: each nibble becomes one byte with
// minimum distance 4, so any single bit flip per byte is corrected and
// any double flip is detected as uncorrectable.

var hammingCodewords [16]byte

func init() {
	for d := 0; d < 16; d++ {
		d1 := byte(d>>3) & 1
		d2 := byte(d>>2) & 1
		d3 := byte(d>>1) & 1
		d4 := byte(d) & 1
		p1 := d1 ^ d2 ^ d4
		p2 := d1 ^ d3 ^ d4
		p3 := d2 ^ d3 ^ d4
		cw := p1<<7 | p2<<6 | d1<<5 | p3<<4 | d2<<3 | d3<<2 | d4<<1
		cw |= byte(bits.OnesCount8(cw)) & 1 // overall parity
		hammingCodewords[d] = cw
	}
}

// eccEncode expands each input byte into two code bytes.
func eccEncode(data []byte) []byte {
	out := make([]byte, 2*len(data))
	for i, b := range data {
		out[2*i] = hammingCodewords[b>>4]
		out[2*i+1] = hammingCodewords[b&0x0f]
	}
	return out
}

// eccDecode corrects single-bit errors per code byte and rejects
// anything further from the code with ErrKeyCorruption.
func eccDecode(code []byte) ([]byte, error) {
	if len(code)%2 != 0 {
		return nil, ErrKeyCorruption
	}
	out := make([]byte, len(code)/2)
	for i := range out {
		hi, err := decodeNibble(code[2*i])
		if err != nil {
			return nil, err
		}
		lo, err := decodeNibble(code[2*i+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func decodeNibble(cw byte) (byte, error) {
	for d, ref := range hammingCodewords {
		if bits.OnesCount8(cw^ref) <= 1 {
			return byte(d), nil
		}
	}
	return 0, ErrKeyCorruption
}
