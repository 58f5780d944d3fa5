// Package cryptids generates crypto/rand backed identifiers for session
// tokens and request trace ids.
package cryptids

import (
	"crypto/rand"
	"fmt"
)

var (
	// IDAlphabet avoids vowels so generated ids never spell anything.
	IDAlphabet = "bcdfghjklmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ0123456789"
	IDLength   = 24
)

// GenerateID creates a random string using the package defaults.
func GenerateID() (string, error) {
	return generateID(IDAlphabet, IDLength)
}

// GenerateCustomID creates a random string with the given alphabet and length.
func GenerateCustomID(alphabet string, size int) (string, error) {
	return generateID(alphabet, size)
}

func generateID(alphabet string, size int) (string, error) {
	if len(alphabet) < 2 {
		return "", fmt.Errorf("alphabet must contain at least 2 characters")
	}
	if size < 1 {
		return "", fmt.Errorf("size must be at least 1")
	}

	// Mask to the next power of two so modulo bias never skews the
	// character distribution; out-of-range bytes are skipped.
	mask := 1
	for mask < len(alphabet) {
		mask = (mask << 1) | 1
	}

	step := int(float64(size) * 1.6)
	if step < size {
		step = size
	}

	id := make([]byte, size)
	buf := make([]byte, step)

	idx := 0
	for idx < size {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}

		for i := 0; i < len(buf) && idx < size; i++ {
			ai := int(buf[i]) & mask
			if ai >= len(alphabet) {
				continue
			}
			id[idx] = alphabet[ai]
			idx++
		}
	}

	return string(id), nil
}
