// Package auth provides authentication and authorization functionality for
// the TodoApp API. This file implements generation of the opaque reset
// secrets recorded in the reset-token ledger.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/todoapp/gobackend/internal/constants"
)

// GenerateResetSecret produces a cryptographically random reset secret,
// rendered as fixed-width hex. At 256 bits of entropy a collision is not a
// practical concern. Entropy-source exhaustion is the only failure mode and
// is not recoverable by the caller.
func GenerateResetSecret() (string, error) {
	buf := make([]byte, constants.ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
