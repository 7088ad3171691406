package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/chorequest/internal/middleware"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/sync"
	"github.com/dukerupert/chorequest/internal/vault"
)

type nopSaver struct{}

func (nopSaver) Save(model.AppState) error { return nil }

func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := sync.New(model.InitialState(), nopSaver{}, vault.NewMemoryStore(), logger, sync.Options{})
	t.Cleanup(m.Close)
	srv := New(m, nil, nil, logger)
	return srv, srv.Router()
}

func TestHealth(t *testing.T) {
	_, router := testServer(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestStateIsPublic(t *testing.T) {
	_, router := testServer(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var state model.AppState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.Children) != 1 {
		t.Errorf("children = %d", len(state.Children))
	}
}

func TestParentRoutesRequirePin(t *testing.T) {
	_, router := testServer(t)

	body := bytes.NewReader([]byte(`{"title":"Sweep","assignedTo":"ALL"}`))
	req := httptest.NewRequest("POST", "/api/parent/chores", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("without pin: status = %d, want 403", rec.Code)
	}

	body = bytes.NewReader([]byte(`{"title":"Sweep","assignedTo":"ALL"}`))
	req = httptest.NewRequest("POST", "/api/parent/chores", body)
	req.Header.Set(middleware.PinHeader, "1234")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("with pin: status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitIsChildAccessible(t *testing.T) {
	_, router := testServer(t)

	body := bytes.NewReader([]byte(`{"childId":"1"}`))
	req := httptest.NewRequest("POST", "/api/chores/c1/submit", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPinGateTracksUpdatedPin(t *testing.T) {
	_, router := testServer(t)

	req := httptest.NewRequest("PUT", "/api/parent/pin", bytes.NewReader([]byte(`{"pin":"9876"}`)))
	req.Header.Set(middleware.PinHeader, "1234")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update pin status = %d: %s", rec.Code, rec.Body.String())
	}

	// Old PIN no longer opens the gate.
	req = httptest.NewRequest("POST", "/api/parent/reset", nil)
	req.Header.Set(middleware.PinHeader, "1234")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("old pin status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest("POST", "/api/parent/reset", nil)
	req.Header.Set(middleware.PinHeader, "9876")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("new pin status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestInviteAcceptJoinsVault(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	remote := vault.NewMemoryStore()

	family := model.InitialState()
	family.Children[0].Name = "Zulu"
	if err := remote.Put(context.Background(), "GHOST-7", family.Sanitized()); err != nil {
		t.Fatalf("seed vault: %v", err)
	}

	m := sync.New(model.InitialState(), nopSaver{}, remote, logger, sync.Options{})
	t.Cleanup(m.Close)
	router := New(m, nil, nil, logger).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/invite/accept?code=ghost-7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := m.State().Children[0].Name; got != "Zulu" {
		t.Errorf("joined family child = %q", got)
	}
}
