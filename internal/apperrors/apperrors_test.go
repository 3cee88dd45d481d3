package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeOfWrappedError(t *testing.T) {
	base := New(CodeConflict, "title already in use")
	wrapped := fmt.Errorf("create task: %w", base)

	if got := CodeOf(wrapped); got != CodeConflict {
		t.Fatalf("expected %s, got %s", CodeConflict, got)
	}
	if !IsCode(wrapped, CodeConflict) {
		t.Fatal("expected IsCode to match through wrapping")
	}
}

func TestCodeOfUnknownErrorIsRetryable(t *testing.T) {
	err := errors.New("connection reset")
	if got := CodeOf(err); got != CodeUnavailable {
		t.Fatalf("expected %s for unknown error, got %s", CodeUnavailable, got)
	}
	if !Retryable(err) {
		t.Fatal("expected unknown errors to be retryable")
	}
	if Retryable(New(CodeValidation, "bad input")) {
		t.Fatal("validation errors must not be retryable")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(CodeNotFound, "task not found", errors.New("record not found"))
	if !errors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("expected errors.Is to match by code")
	}
	if errors.Is(err, New(CodeConflict, "")) {
		t.Fatal("expected different codes not to match")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:      http.StatusBadRequest,
		CodeUnauthenticated: http.StatusUnauthorized,
		CodeNotOwner:        http.StatusForbidden,
		CodeNotFound:        http.StatusNotFound,
		CodeConflict:        http.StatusConflict,
		CodeUnavailable:     http.StatusServiceUnavailable,
	}
	for code, want := range cases {
		if got := code.HTTPStatus(); got != want {
			t.Fatalf("%s: expected %d, got %d", code, want, got)
		}
	}
}
