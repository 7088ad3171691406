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

type ChoreHandler struct {
	manager *sync.Manager
	logger  *slog.Logger
}

func NewChoreHandler(m *sync.Manager, logger *slog.Logger) *ChoreHandler {
	return &ChoreHandler{manager: m, logger: logger}
}

type choreRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Coins        int             `json:"coins"`
	XP           int             `json:"xp"`
	Frequency    model.Frequency `json:"frequency"`
	SpecificDate *string         `json:"specificDate"`
	Icon         string          `json:"icon"`
	AssignedTo   string          `json:"assignedTo"`
}

func (req choreRequest) toChore() (model.Chore, error) {
	c := model.Chore{
		Title:       req.Title,
		Description: req.Description,
		Coins:       req.Coins,
		XP:          req.XP,
		Frequency:   req.Frequency,
		Icon:        req.Icon,
		AssignedTo:  req.AssignedTo,
	}
	if req.SpecificDate != nil && *req.SpecificDate != "" {
		t, err := parseDate(*req.SpecificDate)
		if err != nil {
			return model.Chore{}, err
		}
		c.SpecificDate = &t
	}
	return c, nil
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.AssignedTo == "" {
		writeError(w, http.StatusBadRequest, "assignedTo is required")
		return
	}
	chore, err := req.toChore()
	if err != nil {
		writeError(w, http.StatusBadRequest, "specificDate must be YYYY-MM-DD")
		return
	}

	state, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.AddChore(s, chore)
	})
	if err != nil {
		writeError(w, errStatus(err), "failed to create chore")
		return
	}
	writeJSON(w, http.StatusCreated, state.Chores[len(state.Chores)-1])
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	chore, err := req.toChore()
	if err != nil {
		writeError(w, http.StatusBadRequest, "specificDate must be YYYY-MM-DD")
		return
	}

	state, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.UpdateChore(s, id, chore)
	})
	if err != nil {
		writeError(w, errStatus(err), "failed to update chore")
		return
	}
	writeJSON(w, http.StatusOK, state.Chores[state.ChoreByID(id)])
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	_, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.DeleteChore(s, id)
	})
	if err != nil {
		writeError(w, errStatus(err), "chore not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type submitRequest struct {
	ChildID string `json:"childId"`
}

// Submit toggles a chore in or out of pending review on behalf of a child.
func (h *ChoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	state := h.manager.Apply(func(s model.AppState) model.AppState {
		return engine.Submit(s, id, req.ChildID, h.manager.Now())
	})
	writeJSON(w, http.StatusOK, state)
}

func (h *ChoreHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	state := h.manager.Apply(func(s model.AppState) model.AppState {
		return engine.Approve(s, id, h.manager.Now())
	})
	writeJSON(w, http.StatusOK, state)
}

func (h *ChoreHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	state := h.manager.Apply(func(s model.AppState) model.AppState {
		return engine.Reject(s, id, h.manager.Now())
	})
	writeJSON(w, http.StatusOK, state)
}
