package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	activationCodeMin   = 100000
	activationCodeRange = 900000
)

// GenerateActivationCode returns a random 6-digit code in [100000, 999999]
func GenerateActivationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(activationCodeRange))
	if err != nil {
		return "", fmt.Errorf("failed to generate activation code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+activationCodeMin), nil
}
