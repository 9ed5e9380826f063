package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := Validation("invalid or missing fields: amount")
	if err.Kind != KindValidation || err.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestIntegrityErrorStatusVariesPerSurface(t *testing.T) {
	callback := Integrity("Invalid hash signature", http.StatusForbidden)
	webhook := Integrity("Invalid signature", http.StatusBadRequest)
	if callback.HTTPStatus != http.StatusForbidden || webhook.HTTPStatus != http.StatusBadRequest {
		t.Fatal("expected per-surface statuses")
	}
}

func TestConfigurationErrorHidesCause(t *testing.T) {
	cause := errors.New("KASHIER_SECRET_KEY is empty")
	err := Configuration(cause)
	if err.Message == cause.Error() {
		t.Fatal("public message must not expose the cause")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause must remain unwrappable for logging")
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", err.HTTPStatus)
	}
}

func TestAsAppErrorPassthrough(t *testing.T) {
	original := Validation("bad")
	wrapped := fmt.Errorf("handler: %w", original)
	got := AsAppError(wrapped)
	if got != original {
		t.Fatal("expected unwrap to recover the original app error")
	}
}

func TestAsAppErrorWrapsUnknown(t *testing.T) {
	got := AsAppError(errors.New("boom"))
	if got.Kind != KindUnexpected {
		t.Fatalf("expected unexpected kind, got %s", got.Kind)
	}
	if got.Message != "internal error" {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}
