package weavetest

import (
	"crypto/rand"
	"testing"

	"github.com/mintbase/weave"
)

// NewCondition returns a signature condition with a random public key,
// so every call yields a distinct address.
func NewCondition() weave.Condition {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(err)
	}
	return weave.NewCondition("sigs", "ed25519", key)
}

// RandomAddr returns a random, valid address.
func RandomAddr(t testing.TB) weave.Address {
	t.Helper()
	addr := NewCondition().Address()
	if err := addr.Validate(); err != nil {
		t.Fatalf("invalid random address: %s", err)
	}
	return addr
}
