// Package prayer fetches daily prayer times and turns them into chores, one
// per prayer, so observance earns credits like any other mission.
package prayer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
)

// Slots are the five daily prayers, in order.
var Slots = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

const (
	prayerCoins = 15
	prayerXP    = 25
)

// Config holds prayer service configuration.
type Config struct {
	Address string // free-form location, e.g. "Dearborn, MI"
	Method  int    // calculation method id, 0 uses the API default
}

// Times maps a prayer slot name to its clock time string, e.g. "05:32".
type Times map[string]string

// Service fetches timings from the Aladhan API.
type Service struct {
	config  Config
	client  *http.Client
	baseURL string
}

// NewService creates a prayer time service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.aladhan.com/v1/timingsByAddress",
	}
}

// Configured reports whether a lookup address is set.
func (s *Service) Configured() bool {
	return s.config.Address != ""
}

type apiResponse struct {
	Data struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

// Lookup fetches today's timings for the configured address, keeping only
// the five daily slots.
func (s *Service) Lookup(ctx context.Context) (Times, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("prayer service not configured")
	}

	u := fmt.Sprintf("%s?address=%s", s.baseURL, url.QueryEscape(s.config.Address))
	if s.config.Method > 0 {
		u += fmt.Sprintf("&method=%d", s.config.Method)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("prayer API request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prayer API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prayer API returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode prayer response: %w", err)
	}

	times := make(Times, len(Slots))
	for _, slot := range Slots {
		if t, ok := apiResp.Data.Timings[slot]; ok {
			times[slot] = t
		}
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("prayer response missing timings")
	}
	return times, nil
}

// Chores builds one chore draft per prayer slot present in times. Drafts use
// the Prayer frequency so they reopen each day, are assigned to everyone,
// and embed the clock time in the description.
func Chores(times Times) []model.Chore {
	var out []model.Chore
	for _, slot := range Slots {
		t, ok := times[slot]
		if !ok {
			continue
		}
		out = append(out, model.Chore{
			Title:       fmt.Sprintf("%s Operation", slot),
			Description: fmt.Sprintf("Complete the %s prayer (%s)", slot, t),
			Coins:       prayerCoins,
			XP:          prayerXP,
			Frequency:   model.FreqPrayer,
			Icon:        "🌙",
			AssignedTo:  model.AssignedAll,
		})
	}
	return out
}
