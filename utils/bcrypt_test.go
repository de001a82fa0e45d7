package utils

import "testing"

func TestHashAndComparePassword(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := ComparePassword(string(hashed), "s3cret-pass"); err != nil {
		t.Fatalf("expected matching password, got %v", err)
	}
	if err := ComparePassword(string(hashed), "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestComparePassword_MalformedHashFails(t *testing.T) {
	if err := ComparePassword("not-a-bcrypt-hash", "s3cret-pass"); err == nil {
		t.Fatal("expected error for malformed stored hash")
	}
}
