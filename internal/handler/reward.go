package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dukerupert/chorequest/internal/engine"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/sync"
)

type RewardHandler struct {
	manager *sync.Manager
	logger  *slog.Logger
}

func NewRewardHandler(m *sync.Manager, logger *slog.Logger) *RewardHandler {
	return &RewardHandler{manager: m, logger: logger}
}

type rewardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Icon        string `json:"icon"`
}

func (h *RewardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Cost < 0 {
		writeError(w, http.StatusBadRequest, "cost must be >= 0")
		return
	}

	state, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.AddReward(s, model.Reward{
			Title:       req.Title,
			Description: req.Description,
			Cost:        req.Cost,
			Icon:        req.Icon,
		})
	})
	if err != nil {
		writeError(w, errStatus(err), "failed to create reward")
		return
	}
	writeJSON(w, http.StatusCreated, state.Rewards[len(state.Rewards)-1])
}

func (h *RewardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req rewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	state, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.UpdateReward(s, id, model.Reward{
			Title:       req.Title,
			Description: req.Description,
			Cost:        req.Cost,
			Icon:        req.Icon,
		})
	})
	if err != nil {
		writeError(w, errStatus(err), "failed to update reward")
		return
	}
	writeJSON(w, http.StatusOK, state.Rewards[state.RewardByID(id)])
}

func (h *RewardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	_, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.DeleteReward(s, id)
	})
	if err != nil {
		writeError(w, errStatus(err), "reward not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type claimRequest struct {
	ChildID string `json:"childId"`
}

// Claim spends a child's coins on a reward.
func (h *RewardHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	state, err := h.manager.ApplyErr(func(s model.AppState) (model.AppState, error) {
		return engine.ClaimReward(s, id, req.ChildID, h.manager.Now())
	})
	if err != nil {
		if errors.Is(err, engine.ErrInsufficientCoins) {
			writeError(w, http.StatusConflict, "not enough credits")
			return
		}
		writeError(w, errStatus(err), "failed to claim reward")
		return
	}
	writeJSON(w, http.StatusOK, state)
}
