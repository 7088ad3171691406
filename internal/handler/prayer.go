package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/chorequest/internal/engine"
	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/prayer"
	"github.com/dukerupert/chorequest/internal/sync"
)

// PrayerHandler exposes prayer times and one-click prayer chore setup.
type PrayerHandler struct {
	manager *sync.Manager
	service *prayer.Service
	logger  *slog.Logger
}

func NewPrayerHandler(m *sync.Manager, svc *prayer.Service, logger *slog.Logger) *PrayerHandler {
	return &PrayerHandler{manager: m, service: svc, logger: logger}
}

func (h *PrayerHandler) Times(w http.ResponseWriter, r *http.Request) {
	if h.service == nil || !h.service.Configured() {
		writeError(w, http.StatusServiceUnavailable, "prayer times not configured")
		return
	}
	times, err := h.service.Lookup(r.Context())
	if err != nil {
		h.logger.Error("prayer lookup", "error", err)
		writeError(w, http.StatusBadGateway, "prayer time service unavailable")
		return
	}
	writeJSON(w, http.StatusOK, times)
}

// GenerateChores fetches today's timings and files one chore per prayer.
func (h *PrayerHandler) GenerateChores(w http.ResponseWriter, r *http.Request) {
	if h.service == nil || !h.service.Configured() {
		writeError(w, http.StatusServiceUnavailable, "prayer times not configured")
		return
	}
	times, err := h.service.Lookup(r.Context())
	if err != nil {
		h.logger.Error("prayer lookup", "error", err)
		writeError(w, http.StatusBadGateway, "prayer time service unavailable")
		return
	}

	drafts := prayer.Chores(times)
	state := h.manager.Apply(func(s model.AppState) model.AppState {
		return engine.AddChores(s, drafts)
	})
	writeJSON(w, http.StatusOK, state)
}
