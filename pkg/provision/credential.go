package provision

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Ambiguous characters (0/O, 1/l/I) are left out because the credential
// is communicated out of band, often read aloud or retyped.
const credentialCharset = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const oneTimePasswordLength = 16

// generateOneTimePassword produces the initial credential for a new
// account from a cryptographically secure source. It is returned to the
// admin exactly once and never persisted or logged in plaintext.
func generateOneTimePassword() (string, error) {
	max := big.NewInt(int64(len(credentialCharset)))
	buf := make([]byte, oneTimePasswordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate credential: %w", err)
		}
		buf[i] = credentialCharset[n.Int64()]
	}
	return string(buf), nil
}
