package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorMessageFallsBackToKind(t *testing.T) {
	err := E(KindNotFound, "")
	if err.Error() != "not_found" {
		t.Fatalf("message = %q, want not_found", err.Error())
	}
}

func TestKindOfThroughWrappedChain(t *testing.T) {
	inner := E(KindUnauthorized, "token rejected")
	outer := fmt.Errorf("fetch profile: %w", inner)

	if got := KindOf(outer); got != KindUnauthorized {
		t.Fatalf("kind = %v, want %v", got, KindUnauthorized)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(KindUnavailable, "store unreachable", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found in chain")
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{E(KindInvalidInput, "bad"), http.StatusBadRequest},
		{E(KindUnauthorized, "no"), http.StatusUnauthorized},
		{E(KindNotFound, "missing"), http.StatusNotFound},
		{E(KindUnavailable, "down"), http.StatusServiceUnavailable},
		{stderrors.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("status for %v = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if IsNotFound(E(KindUnavailable, "down")) {
		t.Fatal("unavailable should not be not-found")
	}
	if !IsNotFound(fmt.Errorf("lookup: %w", E(KindNotFound, "missing"))) {
		t.Fatal("expected wrapped not-found to be detected")
	}
}
