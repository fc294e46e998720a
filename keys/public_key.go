package keys

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// keyDir holds the JSON key files written by Save*.
const keyDir = "fourpath_keys"

// PublicKey is the verification key persisted to JSON. H holds the
// coefficients of h = g/f in [0, Q); BoundSq is the squared norm bound
// signatures under this key must satisfy.
type PublicKey struct {
	Version string   `json:"version"`
	N       int      `json:"N"`
	Q       uint64   `json:"Q"`
	H       []uint64 `json:"h_coeffs"`
	BoundSq uint64   `json:"bound_sq"`
}

// SavePublic writes the public key to ./fourpath_keys/public.json.
func SavePublic(pk *PublicKey) error {
	if pk == nil {
		return nil
	}
	if err := os.MkdirAll(keyDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(keyDir, "public.json"))
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(pk)
}

// LoadPublic reads the public key from ./fourpath_keys/public.json.
func LoadPublic() (*PublicKey, error) {
	data, err := os.ReadFile(filepath.Join(keyDir, "public.json"))
	if err != nil {
		return nil, err
	}
	var pk PublicKey
	if err := json.Unmarshal(data, &pk); err != nil {
		return nil, err
	}
	return &pk, nil
}
