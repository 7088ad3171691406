package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/chorequest/internal/model"
)

// AppendLog prepends an entry to the activity log and truncates it to the
// most recent model.LogCap entries. Entries are never edited or removed
// individually.
func AppendLog(s model.AppState, childName, action string, typ model.LogType, value string, now time.Time) model.AppState {
	out := s.Clone()
	entry := model.LogEntry{
		ID:        uuid.NewString(),
		Timestamp: now,
		ChildName: childName,
		Action:    action,
		Type:      typ,
		Value:     value,
	}
	out.Logs = append([]model.LogEntry{entry}, out.Logs...)
	if len(out.Logs) > model.LogCap {
		out.Logs = out.Logs[:model.LogCap]
	}
	return out
}
