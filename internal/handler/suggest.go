package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/engine"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/suggest"
	"github.com/dukerupert/chorequest/internal/sync"
)

// SuggestHandler proposes LLM-generated chores and files accepted ones.
type SuggestHandler struct {
	manager  *sync.Manager
	provider suggest.Provider
	logger   *slog.Logger
}

func NewSuggestHandler(m *sync.Manager, provider suggest.Provider, logger *slog.Logger) *SuggestHandler {
	return &SuggestHandler{manager: m, provider: provider, logger: logger}
}

type suggestRequest struct {
	Count int    `json:"count"`
	Hint  string `json:"hint"`
}

func (h *SuggestHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "suggestions not configured")
		return
	}

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	suggestions, err := h.provider.Suggest(r.Context(), req.Count, req.Hint)
	if err != nil {
		h.logger.Error("generate suggestions", "error", err)
		writeError(w, http.StatusBadGateway, "suggestion service unavailable")
		return
	}
	if suggestions == nil {
		suggestions = []suggest.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}

type acceptRequest struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
	AssignedTo  string               `json:"assignedTo"`
}

// Accept files the parent-approved subset of suggestions as real chores.
func (h *SuggestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.AssignedTo == "" {
		req.AssignedTo = model.AssignedAll
	}

	drafts := suggest.Chores(req.Suggestions, req.AssignedTo)
	state := h.manager.Apply(func(s model.AppState) model.AppState {
		return engine.AddChores(s, drafts)
	})
	writeJSON(w, http.StatusOK, state)
}
