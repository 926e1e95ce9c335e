package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/tapfolio/tapfolio/internal/platform/errors"
)

func TestChainAppliesInDeclarationOrder(t *testing.T) {
	t.Parallel()

	var order []string
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("first"), nil, tag("second"))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "handler" {
		t.Fatalf("order = %v", order)
	}
}

func TestRecoverPanicWrites500(t *testing.T) {
	t.Parallel()

	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RecoverPanic())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	if recorder.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestWriteRedirectHTMXAware(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/save", nil)
	request.Header.Set("HX-Request", "true")
	WriteRedirect(recorder, request, "/editor")
	if recorder.Header().Get("HX-Redirect") != "/editor" {
		t.Fatalf("missing HX-Redirect header: %v", recorder.Header())
	}

	recorder = httptest.NewRecorder()
	WriteRedirect(recorder, httptest.NewRequest(http.MethodPost, "/save", nil), "/editor")
	if recorder.Code != http.StatusFound || recorder.Header().Get("Location") != "/editor" {
		t.Fatalf("status = %d location = %q", recorder.Code, recorder.Header().Get("Location"))
	}
}

func TestWriteErrorMapsKinds(t *testing.T) {
	t.Parallel()

	recorder := httptest.NewRecorder()
	WriteError(recorder, apperrors.E(apperrors.KindNotFound, "missing"))
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d", recorder.Code)
	}
}
