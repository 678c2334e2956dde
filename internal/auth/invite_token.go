package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// InvitationTokenLength is the number of characters in an invitation token.
	InvitationTokenLength = 32
	invitationAlphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateInvitationToken returns a random token of InvitationTokenLength characters
// drawn uniformly from [a-zA-Z0-9].
func GenerateInvitationToken() (string, error) {
	max := big.NewInt(int64(len(invitationAlphabet)))
	buf := make([]byte, InvitationTokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate invitation token: %w", err)
		}
		buf[i] = invitationAlphabet[n.Int64()]
	}
	return string(buf), nil
}
