package utils

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{"shop@example.com", "first.last+tag@sub.domain.org"}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}
	invalid := []string{"", "plainstring", "missing@tld", "@nodomain.com", "spaces in@mail.com"}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDereferencePtr(t *testing.T) {
	v := 42
	if got := DereferencePtr(&v); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := DereferencePtr[int](nil, 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
	if got := DereferencePtr[string](nil); got != "" {
		t.Fatalf("expected zero value, got %q", got)
	}
}
