package service

import (
	"encoding/hex"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, salt, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if b, err := hex.DecodeString(salt); err != nil || len(b) != saltLen {
		t.Fatalf("salt should be %d bytes hex, got %q", saltLen, salt)
	}
	if b, err := hex.DecodeString(hash); err != nil || len(b) != pbkdf2KeyLen {
		t.Fatalf("hash should be %d bytes hex, got %q", pbkdf2KeyLen, hash)
	}

	if !VerifyPassword("secret1", hash, salt) {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword("secret2", hash, salt) {
		t.Fatalf("wrong password must not verify")
	}
	if VerifyPassword("secret1", hash, "zz-not-hex") {
		t.Fatalf("corrupt salt must not verify")
	}

	// 同一密码每次盐不同
	hash2, salt2, _ := HashPassword("secret1")
	if salt == salt2 || hash == hash2 {
		t.Fatalf("expected fresh salt per hash")
	}
}
