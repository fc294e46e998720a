package keys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"

	aeadsubtle "github.com/google/tink/go/aead/subtle"
	"golang.org/x/crypto/hkdf"
)

const (
	blobSaltLen = 16
	blobKeyLen  = 32
	blobInfo    = "fourpath/keyblob/v1"
)

// Seal encrypts the secret key under a passphrase-derived AES-GCM key
// and wraps the result in the error-correcting code. Layering order
// matters: the code sits outside the ciphertext, so storage bit rot is
// repaired before authentication sees the data.
func Seal(sk *SecretKey, passphrase []byte) ([]byte, error) {
	plain, err := json.Marshal(sk)
	if err != nil {
		return nil, err
	}
	salt := make([]byte, blobSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key, err := deriveBlobKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	gcm, err := aeadsubtle.NewAESGCM(key)
	if err != nil {
		return nil, err
	}
	ct, err := gcm.Encrypt(plain, []byte(blobInfo))
	if err != nil {
		return nil, err
	}
	return eccEncode(append(salt, ct...)), nil
}

// Open reverses Seal. Uncorrectable bit errors and authentication
// failures both surface as ErrKeyCorruption; the caller cannot tell a
// rotten disk from a tampered blob, and does not need to.
func Open(blob, passphrase []byte) (*SecretKey, error) {
	inner, err := eccDecode(blob)
	if err != nil {
		return nil, err
	}
	if len(inner) <= blobSaltLen {
		return nil, ErrKeyCorruption
	}
	salt, ct := inner[:blobSaltLen], inner[blobSaltLen:]
	key, err := deriveBlobKey(passphrase, salt)
	if err != nil {
		return nil, err
	}
	gcm, err := aeadsubtle.NewAESGCM(key)
	if err != nil {
		return nil, err
	}
	plain, err := gcm.Decrypt(ct, []byte(blobInfo))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyCorruption, err)
	}
	var sk SecretKey
	if err := json.Unmarshal(plain, &sk); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyCorruption, err)
	}
	return &sk, nil
}

func deriveBlobKey(passphrase, salt []byte) ([]byte, error) {
	key := make([]byte, blobKeyLen)
	r := hkdf.New(sha256.New, passphrase, salt, []byte(blobInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}
