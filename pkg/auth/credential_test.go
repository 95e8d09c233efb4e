package auth

import (
	"strings"
	"testing"
)

func TestHashCredential_Roundtrip(t *testing.T) {
	hash, err := HashCredential("s3cr3t")
	if err != nil {
		t.Fatalf("HashCredential failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash = %q, want argon2id encoding", hash)
	}
	if !VerifyCredential("s3cr3t", hash) {
		t.Error("VerifyCredential rejected the correct credential")
	}
	if VerifyCredential("wrong", hash) {
		t.Error("VerifyCredential accepted a wrong credential")
	}
}

func TestHashCredential_SaltsDiffer(t *testing.T) {
	h1, err := HashCredential("same")
	if err != nil {
		t.Fatalf("HashCredential failed: %v", err)
	}
	h2, err := HashCredential("same")
	if err != nil {
		t.Fatalf("HashCredential failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same credential should differ by salt")
	}
}

func TestVerifyCredential_MalformedHash(t *testing.T) {
	tests := []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$bad",
		"$bcrypt$whatever",
	}
	for _, hash := range tests {
		if VerifyCredential("pw", hash) {
			t.Errorf("VerifyCredential accepted malformed hash %q", hash)
		}
	}
}

func TestIssuer(t *testing.T) {
	t.Run("hashing available", func(t *testing.T) {
		stored, hashed, err := NewIssuer(true).Issue("s3cr3t")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if !hashed {
			t.Error("hashed = false, want true")
		}
		if stored == "s3cr3t" {
			t.Error("stored value should not equal the raw credential")
		}
		if !VerifyCredential("s3cr3t", stored) {
			t.Error("issued hash does not verify")
		}
	})

	t.Run("legacy path", func(t *testing.T) {
		stored, hashed, err := NewIssuer(false).Issue("s3cr3t")
		if err != nil {
			t.Fatalf("Issue failed: %v", err)
		}
		if hashed {
			t.Error("hashed = true, want false")
		}
		if stored != "s3cr3t" {
			t.Errorf("stored = %q, want raw credential", stored)
		}
	})
}

func TestGenerateToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 16; i++ {
		tok, err := GenerateToken(12)
		if err != nil {
			t.Fatalf("GenerateToken failed: %v", err)
		}
		if len(tok) != 12 {
			t.Fatalf("token length = %d, want 12", len(tok))
		}
		for _, r := range tok {
			if !strings.ContainsRune(tokenAlphabet, r) {
				t.Fatalf("token %q contains %q outside the alphabet", tok, r)
			}
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
}
