package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dukerupert/chorequest/internal/model"
)

// StateStore persists the whole family snapshot as a single JSON document.
// The app mutates state through snapshot transitions, so a one-row document
// table is the natural shape; there is nothing to join against.
type StateStore struct {
	db       *sql.DB
	defaults model.CloudConfig
}

// NewStateStore wraps db. cloudDefaults supplies the vault endpoint and
// credential backfilled into snapshots that predate cloud settings.
func NewStateStore(db *sql.DB, cloudDefaults model.CloudConfig) *StateStore {
	return &StateStore{db: db, defaults: cloudDefaults}
}

// Save writes the snapshot, replacing whatever was there.
func (s *StateStore) Save(state model.AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO app_state (id, data, updated_at) VALUES (1, ?, datetime('now'))
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(data),
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Load reads the stored snapshot. A missing row or a document that no longer
// parses yields the bootstrap state so the app always starts usable. Loaded
// snapshots are normalized: cloud connection defaults are backfilled (keeping
// any linked family code) and a missing PIN falls back to the default.
func (s *StateStore) Load() (model.AppState, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM app_state WHERE id = 1`).Scan(&data)
	if err == sql.ErrNoRows {
		return s.normalize(model.InitialState()), nil
	}
	if err != nil {
		return model.AppState{}, fmt.Errorf("load state: %w", err)
	}

	var state model.AppState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return s.normalize(model.InitialState()), nil
	}
	return s.normalize(state), nil
}

func (s *StateStore) normalize(state model.AppState) model.AppState {
	if state.Cloud.Endpoint == "" || state.Cloud.Credential == "" {
		code := state.Cloud.FamilyCode
		state.Cloud = s.defaults
		state.Cloud.FamilyCode = code
	}
	if state.ParentPin == "" {
		state.ParentPin = model.DefaultPin
	}
	return state
}
