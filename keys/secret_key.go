package keys

import (
	"os"
	"path/filepath"
)

// SecretKey is the full trapdoor basis. F, G are the short sampled
// row; BigF, BigG complete it so that F*BigG - G*BigF = Q. SigmaSign
// is the rounding stddev the key was generated for; the published
// norm bound on the public key is only valid for responses rounded
// at this sigma.
type SecretKey struct {
	Version   string  `json:"version"`
	N         int     `json:"N"`
	Q         uint64  `json:"Q"`
	SigmaSign float64 `json:"sigma_sign"`
	F         []int64 `json:"f"`
	G         []int64 `json:"g"`
	BigF      []int64 `json:"F"`
	BigG      []int64 `json:"G"`
}

// Zeroize overwrites the basis coefficients in place. The struct is
// unusable afterwards.
func (sk *SecretKey) Zeroize() {
	for _, v := range [][]int64{sk.F, sk.G, sk.BigF, sk.BigG} {
		for i := range v {
			v[i] = 0
		}
	}
	sk.F, sk.G, sk.BigF, sk.BigG = nil, nil, nil, nil
}

// SaveSecret seals the secret key under the passphrase and writes the
// blob to ./fourpath_keys/secret.blob. The trapdoor never touches the
// disk in the clear.
func SaveSecret(sk *SecretKey, passphrase []byte) error {
	if sk == nil {
		return nil
	}
	blob, err := Seal(sk, passphrase)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(keyDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(keyDir, "secret.blob"), blob, 0o600)
}

// LoadSecret reads and opens ./fourpath_keys/secret.blob.
func LoadSecret(passphrase []byte) (*SecretKey, error) {
	blob, err := os.ReadFile(filepath.Join(keyDir, "secret.blob"))
	if err != nil {
		return nil, err
	}
	return Open(blob, passphrase)
}
