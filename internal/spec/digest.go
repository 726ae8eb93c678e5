package spec

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Digest fingerprints a spec block. encoding/json writes map keys in sorted
// order, so the encoding is stable across parses of the same document.
func Digest(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal for digest: %w", err)
	}
	sum := sha256.Sum256(raw)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// CheckDeterminism re-parses the file n times and verifies the named block
// digests identically each time.
func CheckDeterminism(path, name string, n int) error {
	if n < 2 {
		return nil
	}
	first := ""
	for i := 0; i < n; i++ {
		f, err := LoadFile(path)
		if err != nil {
			return err
		}
		block, err := f.Block(name)
		if err != nil {
			return err
		}
		d, err := Digest(block)
		if err != nil {
			return err
		}
		if i == 0 {
			first = d
			continue
		}
		if d != first {
			return fmt.Errorf("determinism check failed for %s: %s != %s", name, first, d)
		}
	}
	return nil
}
