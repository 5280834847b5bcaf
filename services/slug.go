package services

import (
	"crypto/rand"
	"math/big"
)

const (
	slugLength   = 8
	slugAlphabet = "0123456789abcdefghij"
)

// SlugGenerator produces candidate quiz urls. Uniqueness is enforced by the
// database, not by the generator.
type SlugGenerator func() (string, error)

// RandomSlug draws slugLength characters from slugAlphabet.
func RandomSlug() (string, error) {
	buf := make([]byte, slugLength)
	max := big.NewInt(int64(len(slugAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = slugAlphabet[n.Int64()]
	}
	return string(buf), nil
}
