package security

import (
	"testing"

	"github.com/mesalivre/pos-backend/pkg/config"
)

var testCfg = config.PINConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     8,
	ArgonKeyLen:      16,
}

func TestHashAndVerifyPIN(t *testing.T) {
	hash, err := HashPIN("4217", testCfg)
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}

	ok, err := VerifyPIN("4217", hash)
	if err != nil {
		t.Fatalf("VerifyPIN: %v", err)
	}
	if !ok {
		t.Fatal("expected matching pin to verify")
	}

	ok, err = VerifyPIN("0000", hash)
	if err != nil {
		t.Fatalf("VerifyPIN mismatch: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched pin to fail")
	}
}

func TestHashPINRejectsEmpty(t *testing.T) {
	if _, err := HashPIN("", testCfg); err == nil {
		t.Fatal("expected error for empty pin")
	}
}

func TestVerifyPINMalformedHash(t *testing.T) {
	if _, err := VerifyPIN("1234", "$argon2id$nope"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
