package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorequest/internal/engine"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/sync"
)

type ChildHandler struct {
	manager *sync.Manager
	logger  *slog.Logger
}

func NewChildHandler(m *sync.Manager, logger *slog.Logger) *ChildHandler {
	return &ChildHandler{manager: m, logger: logger}
}

type childRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (h *ChildHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	state, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.AddChild(s, req.Name, req.Avatar)
	})
	if err != nil {
		writeError(w, errStatus(err), "failed to enroll child")
		return
	}
	writeJSON(w, http.StatusCreated, state.Children[len(state.Children)-1])
}

func (h *ChildHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req childRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	state, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.UpdateChildProfile(s, id, req.Name, req.Avatar, h.manager.Now())
	})
	if err != nil {
		writeError(w, errStatus(err), "child not found")
		return
	}
	writeJSON(w, http.StatusOK, state.Children[state.ChildByID(id)])
}

func (h *ChildHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	_, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.RemoveChild(s, id)
	})
	if err != nil {
		writeError(w, errStatus(err), "failed to remove child")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type adjustRequest struct {
	Coins int `json:"coins"`
	XP    int `json:"xp"`
}

// Adjust applies a signed parent correction to a child's balances.
func (h *ChildHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req adjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	state := h.manager.Apply(func(s model.AppState) model.AppState {
		return engine.AdjustStats(s, id, req.Coins, req.XP, h.manager.Now())
	})
	writeJSON(w, http.StatusOK, state)
}

// ResetDaily reopens everything the child completed today.
func (h *ChildHandler) ResetDaily(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	state := h.manager.Apply(func(s model.AppState) model.AppState {
		return engine.ResetDaily(s, id, h.manager.Now())
	})
	writeJSON(w, http.StatusOK, state)
}

// Chores lists the chores the child should currently see.
func (h *ChildHandler) Chores(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	state := h.manager.State()
	if state.ChildByID(id) < 0 {
		writeError(w, http.StatusNotFound, "child not found")
		return
	}
	chores := engine.VisibleChores(state, id, h.manager.Now())
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}
