package keys

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"os"
	"path/filepath"
)

// SaltLen is the fixed length of the per-signature salt.
const SaltLen = 40

const sigVersion = 1

// Signature is a challenge-type tag, the salt that seeded the
// challenge, the short response polynomial, and whatever auxiliary
// data the challenge path carries.
type Signature struct {
	Type uint8   `json:"type"`
	Salt []byte  `json:"salt"`
	S2   []int64 `json:"s2"`
	Aux  []byte  `json:"aux,omitempty"`
}

// Encode packs the signature into its wire form. The response is
// stored sign-magnitude with a per-signature magnitude width, so small
// honest responses cost little and the format stays canonical.
func (s *Signature) Encode() ([]byte, error) {
	n := len(s.S2)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("%w: response length %d", ErrSignatureDecode, n)
	}
	if len(s.Salt) != SaltLen {
		return nil, fmt.Errorf("%w: salt length %d", ErrSignatureDecode, len(s.Salt))
	}
	if s.Type > 3 {
		return nil, fmt.Errorf("%w: challenge type %d", ErrSignatureDecode, s.Type)
	}
	if len(s.Aux) > 0xffff {
		return nil, fmt.Errorf("%w: aux too long", ErrSignatureDecode)
	}
	width := 1
	for _, v := range s.S2 {
		if v < 0 {
			v = -v
		}
		if w := bits.Len64(uint64(v)); w > width {
			width = w
		}
	}
	// The reader accumulates at most 7 leftover bits plus one byte per
	// refill, so widths beyond 56 would overflow its accumulator.
	if width > 56 {
		return nil, fmt.Errorf("%w: response magnitude overflow", ErrSignatureDecode)
	}
	out := make([]byte, 0, 6+SaltLen+len(s.Aux)+(n*(width+1)+7)/8)
	out = append(out, sigVersion, s.Type, byte(bits.TrailingZeros(uint(n))))
	out = append(out, s.Salt...)
	out = append(out, byte(len(s.Aux)>>8), byte(len(s.Aux)))
	out = append(out, s.Aux...)
	out = append(out, byte(width))
	bw := bitWriter{}
	for _, v := range s.S2 {
		sign := uint64(0)
		mag := uint64(v)
		if v < 0 {
			sign = 1
			mag = uint64(-v)
		}
		bw.push(sign, 1)
		bw.push(mag, width)
	}
	return append(out, bw.flush()...), nil
}

// DecodeSignature parses a wire-form signature. Every malformed input
// is reported as ErrSignatureDecode; trailing garbage is rejected so
// each signature has exactly one encoding.
func DecodeSignature(data []byte) (*Signature, error) {
	if len(data) < 3+SaltLen+2+1 {
		return nil, fmt.Errorf("%w: truncated", ErrSignatureDecode)
	}
	if data[0] != sigVersion {
		return nil, fmt.Errorf("%w: version %d", ErrSignatureDecode, data[0])
	}
	typ := data[1]
	if typ > 3 {
		return nil, fmt.Errorf("%w: challenge type %d", ErrSignatureDecode, typ)
	}
	logN := int(data[2])
	if logN < 1 || logN > 16 {
		return nil, fmt.Errorf("%w: dimension 2^%d", ErrSignatureDecode, logN)
	}
	n := 1 << logN
	off := 3
	salt := append([]byte(nil), data[off:off+SaltLen]...)
	off += SaltLen
	auxLen := int(data[off])<<8 | int(data[off+1])
	off += 2
	if len(data) < off+auxLen+1 {
		return nil, fmt.Errorf("%w: truncated aux", ErrSignatureDecode)
	}
	var aux []byte
	if auxLen > 0 {
		aux = append([]byte(nil), data[off:off+auxLen]...)
	}
	off += auxLen
	width := int(data[off])
	off++
	if width < 1 || width > 56 {
		return nil, fmt.Errorf("%w: magnitude width %d", ErrSignatureDecode, width)
	}
	packed := (n*(width+1) + 7) / 8
	if len(data) != off+packed {
		return nil, fmt.Errorf("%w: length %d", ErrSignatureDecode, len(data))
	}
	br := bitReader{buf: data[off:]}
	s2 := make([]int64, n)
	for i := range s2 {
		sign, ok := br.pull(1)
		if !ok {
			return nil, fmt.Errorf("%w: truncated response", ErrSignatureDecode)
		}
		mag, ok := br.pull(width)
		if !ok {
			return nil, fmt.Errorf("%w: truncated response", ErrSignatureDecode)
		}
		if sign == 1 && mag == 0 {
			return nil, fmt.Errorf("%w: negative zero", ErrSignatureDecode)
		}
		v := int64(mag)
		if sign == 1 {
			v = -v
		}
		s2[i] = v
	}
	if !br.padZero() {
		return nil, fmt.Errorf("%w: nonzero padding", ErrSignatureDecode)
	}
	return &Signature{Type: typ, Salt: salt, S2: s2, Aux: aux}, nil
}

type bitWriter struct {
	buf  []byte
	acc  uint64
	nacc int
}

func (w *bitWriter) push(v uint64, width int) {
	w.acc = w.acc<<width | (v & (1<<width - 1))
	w.nacc += width
	for w.nacc >= 8 {
		w.nacc -= 8
		w.buf = append(w.buf, byte(w.acc>>w.nacc))
	}
}

func (w *bitWriter) flush() []byte {
	if w.nacc > 0 {
		w.buf = append(w.buf, byte(w.acc<<(8-w.nacc)))
		w.nacc = 0
	}
	return w.buf
}

type bitReader struct {
	buf  []byte
	acc  uint64
	nacc int
}

func (r *bitReader) pull(width int) (uint64, bool) {
	for r.nacc < width {
		if len(r.buf) == 0 {
			return 0, false
		}
		r.acc = r.acc<<8 | uint64(r.buf[0])
		r.buf = r.buf[1:]
		r.nacc += 8
	}
	r.nacc -= width
	v := r.acc >> r.nacc & (1<<width - 1)
	return v, true
}

func (r *bitReader) padZero() bool {
	return len(r.buf) == 0 && r.acc&(1<<r.nacc-1) == 0
}

// SaveSignature writes the signature to ./fourpath_keys/signature.json.
func SaveSignature(sig *Signature) error {
	if sig == nil {
		return nil
	}
	if err := os.MkdirAll(keyDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(keyDir, "signature.json"))
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(sig)
}

// LoadSignature reads the signature from ./fourpath_keys/signature.json.
func LoadSignature() (*Signature, error) {
	data, err := os.ReadFile(filepath.Join(keyDir, "signature.json"))
	if err != nil {
		return nil, err
	}
	var sig Signature
	if err := json.Unmarshal(data, &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}
