package utils

import "testing"

func TestJwtGenerateAndValidate(t *testing.T) {
	token, err := JwtGenerate(42, "manager")
	if err != nil {
		t.Fatalf("JwtGenerate: %v", err)
	}

	parsed, err := JwtValidate(token)
	if err != nil {
		t.Fatalf("JwtValidate: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("expected token to be valid")
	}

	claims, ok := parsed.Claims.(*JwtCustomClaim)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims.ID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.ID)
	}
	if claims.Role != "manager" {
		t.Fatalf("expected role manager, got %q", claims.Role)
	}
}

func TestJwtValidate_RejectsGarbage(t *testing.T) {
	if _, err := JwtValidate("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}
