package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

// CodeDigits is the fixed width of recovery codes (0000–9999).
const CodeDigits = 4

const codeSpace = 10000

// SecureRandom draws uniform integers from a cryptographically secure source.
// Tests may inject a deterministic implementation.
type SecureRandom interface {
	// UniformInt returns a uniform value in [0, max). max must be > 0.
	UniformInt(max int) (int, error)
}

// CryptoRand is the production SecureRandom backed by crypto/rand.
// crypto/rand.Int rejection-samples internally, so there is no modulo bias.
type CryptoRand struct{}

// UniformInt returns a uniform value in [0, max) from crypto/rand.
func (CryptoRand) UniformInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

// GenerateCode returns a fixed-width numeric recovery code (e.g. "0427")
// drawn uniformly over the full code space.
func GenerateCode(rng SecureRandom) (string, error) {
	n, err := rng.UniformInt(codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", CodeDigits, n), nil
}

// HashCode returns a SHA-256 digest of the code, hex-encoded.
// Plaintext codes are never persisted.
func HashCode(code string) string {
	h := sha256.Sum256([]byte(code))
	return hex.EncodeToString(h[:])
}

// CodeEqual compares the provided code's digest with the stored digest in
// constant time. The inputs to the comparison are fixed-length hex digests,
// so execution time is independent of where the first differing byte occurs.
func CodeEqual(providedCode, storedDigest string) bool {
	providedDigest := HashCode(providedCode)
	return subtle.ConstantTimeCompare([]byte(providedDigest), []byte(storedDigest)) == 1
}
