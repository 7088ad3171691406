package model

import (
	"math"
	"time"
)

// Frequency controls when a chore becomes performable again after completion.
type Frequency string

const (
	FreqDaily        Frequency = "Daily"
	FreqWeekly       Frequency = "Weekly"
	FreqFortnightly  Frequency = "Fortnightly"
	FreqSpecificDate Frequency = "Specific Date"
	FreqOneOff       Frequency = "One-off"
	FreqPrayer       Frequency = "Prayer"
)

// Valid reports whether f is one of the known recurrence kinds.
func (f Frequency) Valid() bool {
	switch f {
	case FreqDaily, FreqWeekly, FreqFortnightly, FreqSpecificDate, FreqOneOff, FreqPrayer:
		return true
	}
	return false
}

// LogType classifies activity log entries.
type LogType string

const (
	LogChore  LogType = "CHORE"
	LogReward LogType = "REWARD"
	LogSystem LogType = "SYSTEM"
)

// AssignedAll is the sentinel assignee meaning any child may perform a chore.
const AssignedAll = "ALL"

type Child struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Coins  int    `json:"coins"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
}

type Chore struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Coins        int        `json:"coins"`
	XP           int        `json:"xp"`
	Frequency    Frequency  `json:"frequency"`
	SpecificDate *time.Time `json:"specificDate,omitempty"`
	Icon         string     `json:"icon"`
	// AssignedTo is a child ID or AssignedAll.
	AssignedTo string `json:"assignedTo"`
	// CompletedBy records which child submitted the chore. It is set only
	// while PendingApproval is true and AssignedTo is AssignedAll; for a
	// single-assignee chore the performer is already known.
	CompletedBy     string     `json:"completedBy,omitempty"`
	LastCompleted   *time.Time `json:"lastCompleted,omitempty"`
	PendingApproval bool       `json:"pendingApproval,omitempty"`
}

type Reward struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Icon        string `json:"icon"`
}

// LogEntry is an immutable record of a notable event. ChildName is a
// denormalized snapshot so the entry survives child deletion.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	ChildName string    `json:"childName"`
	Action    string    `json:"action"`
	Type      LogType   `json:"type"`
	Value     string    `json:"value"`
}

// CloudConfig is device-local connection configuration. It is persisted
// locally but never included in the payload pushed to or adopted from the
// remote vault.
type CloudConfig struct {
	Endpoint   string `json:"endpoint"`
	Credential string `json:"credential"`
	FamilyCode string `json:"familyCode"`
}

// AppState is the root aggregate: the single unit of persistence and (minus
// Cloud) the single unit of remote synchronization.
type AppState struct {
	Children  []Child     `json:"children"`
	Chores    []Chore     `json:"chores"`
	Rewards   []Reward    `json:"rewards"`
	Logs      []LogEntry  `json:"logs"`
	ParentPin string      `json:"parentPin"`
	Cloud     CloudConfig `json:"cloud"`
}

// Clone returns a deep copy so transitions can build a new snapshot without
// aliasing the caller's slices.
func (s AppState) Clone() AppState {
	out := s
	out.Children = append([]Child(nil), s.Children...)
	out.Chores = append([]Chore(nil), s.Chores...)
	out.Rewards = append([]Reward(nil), s.Rewards...)
	out.Logs = append([]LogEntry(nil), s.Logs...)
	return out
}

// Sanitized returns the state with CloudConfig zeroed, the shape pushed to
// and received from the remote vault.
func (s AppState) Sanitized() AppState {
	out := s.Clone()
	out.Cloud = CloudConfig{}
	return out
}

// ChildByID returns the index of the child with the given id, or -1.
func (s AppState) ChildByID(id string) int {
	for i := range s.Children {
		if s.Children[i].ID == id {
			return i
		}
	}
	return -1
}

// ChoreByID returns the index of the chore with the given id, or -1.
func (s AppState) ChoreByID(id string) int {
	for i := range s.Chores {
		if s.Chores[i].ID == id {
			return i
		}
	}
	return -1
}

// RewardByID returns the index of the reward with the given id, or -1.
func (s AppState) RewardByID(id string) int {
	for i := range s.Rewards {
		if s.Rewards[i].ID == id {
			return i
		}
	}
	return -1
}

// Level derives a child's level from cumulative XP.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(math.Sqrt(float64(xp)/50))) + 1
}

// XPForLevel is the cumulative XP required to reach the given level, used as
// the progress-bar ceiling for the level in progress.
func XPForLevel(level int) int {
	return level * level * 50
}
