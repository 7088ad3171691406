package model

// MaxChildren caps enrollment per family.
const MaxChildren = 6

// LogCap bounds the activity log to the most recent entries.
const LogCap = 50

// DefaultPin is the parent PIN a fresh family starts with.
const DefaultPin = "1234"

// DefaultCloud returns the connection defaults baked into a fresh install.
// The endpoint and credential identify the shared vault deployment; the
// family code is chosen at create/join time.
func DefaultCloud(endpoint, credential string) CloudConfig {
	return CloudConfig{Endpoint: endpoint, Credential: credential}
}

// InitialState is the default family record used on first run and whenever
// stored data is missing or unreadable.
func InitialState() AppState {
	return AppState{
		Children: []Child{
			{ID: "1", Name: "Alpha", Avatar: "🦁", Coins: 0, XP: 0, Level: 1},
		},
		Chores: []Chore{
			{
				ID:          "c1",
				Title:       "Tactical Workspace Clean",
				Description: "Clean your desk and area",
				Coins:       10,
				XP:          20,
				Frequency:   FreqDaily,
				Icon:        "🧹",
				AssignedTo:  "1",
			},
		},
		Rewards: []Reward{
			{ID: "r1", Title: "30m Intel Access", Description: "Screen time reward", Cost: 50, Icon: "📺"},
		},
		Logs:      []LogEntry{},
		ParentPin: DefaultPin,
	}
}
