package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSharedSecret_Disabled(t *testing.T) {
	secret := NewSharedSecret("")
	if secret.Enabled() {
		t.Fatal("expected disabled secret")
	}
	if secret.Verify("") || secret.Verify("anything") {
		t.Fatal("disabled secret must reject everything")
	}
}

func TestSharedSecret_Plain(t *testing.T) {
	secret := NewSharedSecret("whsec_123")
	if !secret.Enabled() {
		t.Fatal("expected enabled secret")
	}
	if secret.hashed {
		t.Fatal("plain secret detected as hash")
	}
	if !secret.Verify("whsec_123") {
		t.Fatal("expected match")
	}
	if secret.Verify("whsec_12") || secret.Verify("") {
		t.Fatal("expected mismatch")
	}
}

func TestSharedSecret_Bcrypt(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("whsec_123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	secret := NewSharedSecret(string(hash))
	if !secret.hashed {
		t.Fatal("expected bcrypt hash to be detected")
	}
	if !secret.Verify("whsec_123") {
		t.Fatal("expected match")
	}
	if secret.Verify(string(hash)) {
		t.Fatal("the hash itself must not be accepted")
	}
	if secret.Verify("wrong") {
		t.Fatal("expected mismatch")
	}
}

func TestIsBcryptHash(t *testing.T) {
	if isBcryptHash("$2a$short") {
		t.Fatal("short value is not a hash")
	}
	if isBcryptHash("$1$" + string(make([]byte, 57))) {
		t.Fatal("unknown prefix is not a hash")
	}
}
