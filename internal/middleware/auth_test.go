package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireParentNoPin(t *testing.T) {
	handler := RequireParent(func() string { return "1234" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("POST", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireParentWrongPin(t *testing.T) {
	handler := RequireParent(func() string { return "1234" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set(PinHeader, "0000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireParentCorrectPin(t *testing.T) {
	handler := RequireParent(func() string { return "1234" })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set(PinHeader, "1234")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRequireParentTracksLivePin(t *testing.T) {
	pin := "1234"
	handler := RequireParent(func() string { return pin })(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	pin = "9876"
	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set(PinHeader, "1234")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stale pin accepted, status = %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/", nil)
	req.Header.Set(PinHeader, "9876")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("current pin rejected, status = %d", rec.Code)
	}
}
