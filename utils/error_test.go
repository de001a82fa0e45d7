package utils

import (
	"errors"
	"fmt"
	"testing"
)

func TestAsAppError(t *testing.T) {
	appErr := NewAppError(ErrorKindInsufficientStock, "product_id", "insufficient stock for %s", "Soap")
	if got := AsAppError(appErr); got == nil || got.Kind != ErrorKindInsufficientStock {
		t.Fatalf("expected InsufficientStock, got %+v", got)
	}

	wrapped := fmt.Errorf("commit failed: %w", appErr)
	if got := AsAppError(wrapped); got == nil || got.Kind != ErrorKindInsufficientStock {
		t.Fatalf("expected unwrap to find AppError, got %+v", got)
	}

	if got := AsAppError(errors.New("plain")); got != nil {
		t.Fatalf("expected nil for plain error, got %+v", got)
	}
}

func TestIsErrorKind(t *testing.T) {
	err := NewAppError(ErrorKindForbidden, "", "forbidden")
	if !IsErrorKind(err, ErrorKindForbidden) {
		t.Fatal("expected Forbidden kind to match")
	}
	if IsErrorKind(err, ErrorKindNotFound) {
		t.Fatal("kinds must not cross-match")
	}
	if IsErrorKind(nil, ErrorKindForbidden) {
		t.Fatal("nil error must not match any kind")
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := NewAppError(ErrorKindInvalidLine, "quantity", "line %d: quantity must be positive, got %d", 2, -1)
	want := "quantity: line 2: quantity must be positive, got -1"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}
