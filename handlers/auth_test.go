package handlers

import (
	"net/http"
	"testing"
)

func TestMeHandler_NoUserInContext(t *testing.T) {
	c, w := newTestContext(t)
	MeHandler()(c)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without an authenticated user, got %d", w.Code)
	}
}
