package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/sync"
)

// StateHandler serves reads of the family snapshot.
type StateHandler struct {
	manager *sync.Manager
	logger  *slog.Logger
}

func NewStateHandler(m *sync.Manager, logger *slog.Logger) *StateHandler {
	return &StateHandler{manager: m, logger: logger}
}

// Get returns the full snapshot, cloud settings included; this is the
// device's own UI asking.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.manager.State())
}

type progressResponse struct {
	Child       model.Child `json:"child"`
	NextLevelXP int         `json:"nextLevelXp"`
}

// Progress returns a child plus the XP ceiling for their level in progress.
func (h *StateHandler) Progress(w http.ResponseWriter, r *http.Request) {
	state := h.manager.State()
	ki := state.ChildByID(r.PathValue("id"))
	if ki < 0 {
		writeError(w, http.StatusNotFound, "child not found")
		return
	}
	child := state.Children[ki]
	writeJSON(w, http.StatusOK, progressResponse{
		Child:       child,
		NextLevelXP: model.XPForLevel(child.Level),
	})
}
