package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/sync"
	"github.com/dukerupert/chorequest/internal/vault"
)

// SyncHandler manages the device's link to the shared family vault.
type SyncHandler struct {
	manager *sync.Manager
	logger  *slog.Logger
}

func NewSyncHandler(m *sync.Manager, logger *slog.Logger) *SyncHandler {
	return &SyncHandler{manager: m, logger: logger}
}

type joinRequest struct {
	Code string `json:"code"`
}

// Join replaces this device's family with the one stored under the code.
func (h *SyncHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	state, err := h.manager.Join(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no vault under that code")
			return
		}
		h.logger.Error("join vault", "error", err)
		writeError(w, http.StatusBadGateway, "vault unreachable")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Create provisions a new vault and returns the generated family code.
func (h *SyncHandler) Create(w http.ResponseWriter, r *http.Request) {
	code, err := h.manager.Create(r.Context())
	if err != nil {
		h.logger.Error("create vault", "error", err)
		writeError(w, http.StatusBadGateway, "vault unreachable")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"code": code})
}

// Disconnect severs the vault link, leaving local and remote data in place.
func (h *SyncHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	state := h.manager.Disconnect()
	writeJSON(w, http.StatusOK, state)
}

// InviteAccept is the link-friendly join: GET /invite/accept?code=GHOST-7.
// Another device shows the code as a link or QR and this device follows it.
func (h *SyncHandler) InviteAccept(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	state, err := h.manager.Join(r.Context(), code)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no vault under that code")
			return
		}
		h.logger.Error("accept invite", "error", err)
		writeError(w, http.StatusBadGateway, "vault unreachable")
		return
	}
	writeJSON(w, http.StatusOK, state)
}
