package helpers

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatalf("hash must not equal the plaintext")
	}

	if !CompareHashAndPassword(hash, "correct horse battery staple") {
		t.Fatalf("expected correct password to match")
	}
	if CompareHashAndPassword(hash, "wrong password") {
		t.Fatalf("expected wrong password to fail")
	}
	if CompareHashAndPassword("not-a-bcrypt-hash", "anything") {
		t.Fatalf("expected bogus hash to fail")
	}
}
