package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/chorequest/internal/handler"
	"github.com/dukerupert/chorequest/internal/middleware"
	"github.com/dukerupert/chorequest/internal/prayer"
	"github.com/dukerupert/chorequest/internal/suggest"
	"github.com/dukerupert/chorequest/internal/sync"
	ws "github.com/dukerupert/chorequest/internal/websocket"
)

type Server struct {
	manager     *sync.Manager
	hub         *ws.Hub
	stateH      *handler.StateHandler
	choreH      *handler.ChoreHandler
	childH      *handler.ChildHandler
	rewardH     *handler.RewardHandler
	syncH       *handler.SyncHandler
	settingsH   *handler.SettingsHandler
	suggestH    *handler.SuggestHandler
	prayerH     *handler.PrayerHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(manager *sync.Manager, suggestProvider suggest.Provider, prayerSvc *prayer.Service, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	manager.SetOnChange(hub.BroadcastState)

	return &Server{
		manager:     manager,
		hub:         hub,
		stateH:      handler.NewStateHandler(manager, logger.With("component", "state")),
		choreH:      handler.NewChoreHandler(manager, logger.With("component", "chore")),
		childH:      handler.NewChildHandler(manager, logger.With("component", "child")),
		rewardH:     handler.NewRewardHandler(manager, logger.With("component", "reward")),
		syncH:       handler.NewSyncHandler(manager, logger.With("component", "sync")),
		settingsH:   handler.NewSettingsHandler(manager, logger.With("component", "settings")),
		suggestH:    handler.NewSuggestHandler(manager, suggestProvider, logger.With("component", "suggest")),
		prayerH:     handler.NewPrayerHandler(manager, prayerSvc, logger.With("component", "prayer")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Child-facing and read routes, no PIN required
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /api/state", s.stateH.Get)
	outerMux.HandleFunc("GET /api/children/{id}/progress", s.stateH.Progress)
	outerMux.HandleFunc("GET /api/children/{id}/chores", s.childH.Chores)
	outerMux.HandleFunc("POST /api/chores/{id}/submit", s.choreH.Submit)
	outerMux.HandleFunc("POST /api/rewards/{id}/claim", s.rewardH.Claim)
	outerMux.HandleFunc("POST /api/pin/verify", s.settingsH.VerifyPin)
	outerMux.HandleFunc("GET /invite/accept", s.syncH.InviteAccept)
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	// Parent console routes, gated by the family PIN
	parentMux := http.NewServeMux()
	s.registerParentRoutes(parentMux)

	pinGate := middleware.RequireParent(func() string {
		return s.manager.State().ParentPin
	})
	outerMux.Handle("/api/parent/", http.StripPrefix("/api/parent", pinGate(parentMux)))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerParentRoutes(mux *http.ServeMux) {
	// Chore lifecycle review
	mux.HandleFunc("POST /chores/{id}/approve", s.choreH.Approve)
	mux.HandleFunc("POST /chores/{id}/reject", s.choreH.Reject)

	// Chore authoring
	mux.HandleFunc("POST /chores", s.choreH.Create)
	mux.HandleFunc("PUT /chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /chores/{id}", s.choreH.Delete)

	// Reward authoring
	mux.HandleFunc("POST /rewards", s.rewardH.Create)
	mux.HandleFunc("PUT /rewards/{id}", s.rewardH.Update)
	mux.HandleFunc("DELETE /rewards/{id}", s.rewardH.Delete)

	// Roster
	mux.HandleFunc("POST /children", s.childH.Create)
	mux.HandleFunc("PUT /children/{id}", s.childH.UpdateProfile)
	mux.HandleFunc("DELETE /children/{id}", s.childH.Delete)
	mux.HandleFunc("POST /children/{id}/adjust", s.childH.Adjust)
	mux.HandleFunc("POST /children/{id}/reset-daily", s.childH.ResetDaily)

	// Vault link
	mux.HandleFunc("POST /sync/join", s.syncH.Join)
	mux.HandleFunc("POST /sync/create", s.syncH.Create)
	mux.HandleFunc("POST /sync/disconnect", s.syncH.Disconnect)

	// Settings
	mux.HandleFunc("PUT /pin", s.settingsH.UpdatePin)
	mux.HandleFunc("POST /reset", s.settingsH.FactoryReset)
	mux.HandleFunc("POST /export", s.settingsH.Export)
	mux.HandleFunc("POST /import", s.settingsH.Import)

	// Chore generators
	mux.HandleFunc("POST /suggestions", s.rateLimitedHandler(s.suggestH.Generate))
	mux.HandleFunc("POST /suggestions/accept", s.suggestH.Accept)
	mux.HandleFunc("GET /prayer/times", s.prayerH.Times)
	mux.HandleFunc("POST /prayer/chores", s.prayerH.GenerateChores)
}
