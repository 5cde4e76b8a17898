package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// SharedSecret checks secrets presented by trusted callers such as the payment gateway.
// The configured value may be the plain secret or its bcrypt hash.
type SharedSecret struct {
	value  []byte
	hashed bool
}

// NewSharedSecret wraps configured. An empty value disables the secret.
func NewSharedSecret(configured string) *SharedSecret {
	return &SharedSecret{
		value:  []byte(configured),
		hashed: isBcryptHash(configured),
	}
}

// Enabled reports whether a secret is configured.
func (s *SharedSecret) Enabled() bool {
	return len(s.value) > 0
}

// Verify reports whether presented matches the configured secret.
func (s *SharedSecret) Verify(presented string) bool {
	if !s.Enabled() || presented == "" {
		return false
	}
	if s.hashed {
		return bcrypt.CompareHashAndPassword(s.value, []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare(s.value, []byte(presented)) == 1
}

func isBcryptHash(v string) bool {
	if len(v) != 60 {
		return false
	}
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(v, prefix) {
			return true
		}
	}
	return false
}
