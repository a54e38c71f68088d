package resolve

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// CanonicalJSON encodes the graph deterministically. Slices are already in
// canonical order and encoding/json sorts map keys.
func (g *Graph) CanonicalJSON() ([]byte, error) {
	return json.Marshal(g)
}

// Fingerprint is the hex sha256 of the canonical encoding. Two resolutions
// of identical inputs have equal fingerprints.
func (g *Graph) Fingerprint() (string, error) {
	b, err := g.CanonicalJSON()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
