package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/auth"
	"github.com/dukerupert/chorequest/internal/engine"
	"github.com/dukerupert/chorequest/internal/export"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/sync"
)

const maxImportSize = 10 << 20

// SettingsHandler covers PIN management, factory reset, and encrypted
// backups.
type SettingsHandler struct {
	manager *sync.Manager
	logger  *slog.Logger
}

func NewSettingsHandler(m *sync.Manager, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{manager: m, logger: logger}
}

type pinRequest struct {
	Pin string `json:"pin"`
}

// VerifyPin checks a PIN attempt. Deliberately no attempt counter or
// lockout; the PIN keeps children out of the parent console, nothing more.
func (h *SettingsHandler) VerifyPin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if !auth.VerifyPin(h.manager.State().ParentPin, req.Pin) {
		writeError(w, http.StatusUnauthorized, "incorrect PIN")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

func (h *SettingsHandler) UpdatePin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	_, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.UpdatePin(s, req.Pin)
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "PIN must be exactly 4 digits")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// FactoryReset restores the bootstrap family and unlinks the vault.
func (h *SettingsHandler) FactoryReset(w http.ResponseWriter, r *http.Request) {
	state := h.manager.Reset()
	writeJSON(w, http.StatusOK, state)
}

type exportRequest struct {
	Passphrase string `json:"passphrase"`
}

// Export returns the whole snapshot as an encrypted blob.
func (h *SettingsHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Passphrase == "" {
		writeError(w, http.StatusBadRequest, "passphrase is required")
		return
	}

	sealed, err := export.Encrypt(h.manager.State(), req.Passphrase)
	if err != nil {
		h.logger.Error("export backup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export")
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="chorequest-backup.bin"`)
	w.WriteHeader(http.StatusOK)
	w.Write(sealed)
}

// Import replaces the snapshot with a decrypted backup. The passphrase comes
// in a header because the body is the raw blob.
func (h *SettingsHandler) Import(w http.ResponseWriter, r *http.Request) {
	passphrase := r.Header.Get("X-Backup-Passphrase")
	if passphrase == "" {
		writeError(w, http.StatusBadRequest, "X-Backup-Passphrase header is required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read backup")
		return
	}

	restored, err := export.Decrypt(data, passphrase)
	if err != nil {
		writeError(w, http.StatusBadRequest, "wrong passphrase or corrupted backup")
		return
	}

	state := h.manager.Apply(func(s model.AppState) model.AppState {
		// The current device's cloud settings win over whatever the
		// backup carried.
		restored.Cloud = s.Cloud
		return restored
	})
	writeJSON(w, http.StatusOK, state)
}
