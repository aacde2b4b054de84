package token

import (
	"crypto/rand"
	"fmt"
	"io"
)

const digits = "0123456789"

// Token generates verification codes.
type Token interface {
	Generate(length int) (string, error)
}

type PRNGTokenGenerator struct{}

func New() *PRNGTokenGenerator {
	buf := make([]byte, 1)

	_, err := io.ReadFull(rand.Reader, buf)
	if err != nil {
		panic(fmt.Errorf("crypto/rand failed: %w", err))
	}

	return &PRNGTokenGenerator{}
}

// Generate returns n decimal digits. Bytes at or above 250 are rejected so every digit is equally likely.
func (p *PRNGTokenGenerator) Generate(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token: length must be positive, %d provided", n)
	}

	out := make([]byte, 0, n)
	buf := make([]byte, n)

	for len(out) < n {
		_, err := io.ReadFull(rand.Reader, buf)
		if err != nil {
			return "", err
		}

		for _, b := range buf {
			if b >= 250 {
				continue
			}
			out = append(out, digits[b%10])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}
