package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/chorequest/internal/model"
)

// AddChild enrolls a new child at level 1 with empty balances.
func AddChild(s model.AppState, name, avatar string) (model.AppState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrInvalidInput
	}
	if len(s.Children) >= model.MaxChildren {
		return s, ErrRosterFull
	}
	out := s.Clone()
	out.Children = append(out.Children, model.Child{
		ID:     uuid.NewString(),
		Name:   name,
		Avatar: avatar,
		Level:  1,
	})
	return out, nil
}

// RemoveChild discharges a child and cascades to delete every chore assigned
// exclusively to them. ALL-assigned chores are untouched. The last remaining
// child cannot be removed.
func RemoveChild(s model.AppState, childID string) (model.AppState, error) {
	if s.ChildByID(childID) < 0 {
		return s, ErrNotFound
	}
	if len(s.Children) <= 1 {
		return s, ErrLastChild
	}
	out := s.Clone()
	children := out.Children[:0]
	for _, c := range out.Children {
		if c.ID != childID {
			children = append(children, c)
		}
	}
	out.Children = children
	chores := out.Chores[:0]
	for _, c := range out.Chores {
		if c.AssignedTo != childID {
			chores = append(chores, c)
		}
	}
	out.Chores = chores
	return out, nil
}

// UpdateChildProfile changes a child's display name and avatar and logs the
// modification.
func UpdateChildProfile(s model.AppState, childID, name, avatar string, now time.Time) (model.AppState, error) {
	ki := s.ChildByID(childID)
	if ki < 0 {
		return s, ErrNotFound
	}
	out := s.Clone()
	if name = strings.TrimSpace(name); name != "" {
		out.Children[ki].Name = name
	}
	if avatar != "" {
		out.Children[ki].Avatar = avatar
	}
	out = AppendLog(out, out.Children[ki].Name, "Profile Updated", model.LogSystem,
		"Appearance modification synced", now)
	return out, nil
}

// UpdatePin replaces the parent PIN. The PIN must be exactly four digits.
func UpdatePin(s model.AppState, pin string) (model.AppState, error) {
	if !ValidPin(pin) {
		return s, ErrInvalidPin
	}
	out := s.Clone()
	out.ParentPin = pin
	return out, nil
}

// ValidPin reports whether the string is exactly four ASCII digits.
func ValidPin(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
