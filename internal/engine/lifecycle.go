package engine

import (
	"fmt"
	"time"

	"github.com/dukerupert/chorequest/internal/model"
	"github.com/dukerupert/chorequest/internal/recurrence"
)

// Submit toggles a chore's pending-approval flag on behalf of the acting
// child. Toggling on records the performer (for ALL-assigned chores) and
// logs "Completed mission"; toggling off is a retraction before parent
// review. The acting child must be permitted to see the chore (assigned to
// them or to ALL); otherwise the snapshot is returned unchanged.
func Submit(s model.AppState, choreID, childID string, now time.Time) model.AppState {
	ci := s.ChoreByID(choreID)
	ki := s.ChildByID(childID)
	if ci < 0 || ki < 0 {
		return s
	}
	chore := s.Chores[ci]
	if chore.AssignedTo != childID && chore.AssignedTo != model.AssignedAll {
		return s
	}
	child := s.Children[ki]

	out := s.Clone()
	retracting := chore.PendingApproval
	out.Chores[ci].PendingApproval = !retracting
	if retracting {
		out.Chores[ci].CompletedBy = ""
	} else if chore.AssignedTo == model.AssignedAll {
		out.Chores[ci].CompletedBy = childID
	}

	action := fmt.Sprintf("Completed mission: %s", chore.Title)
	value := "Pending Review"
	if retracting {
		action = fmt.Sprintf("Retracted mission: %s", chore.Title)
		value = "Awaiting Field Work"
	}
	return AppendLog(out, child.Name, action, model.LogChore, value, now)
}

// Approve credits the performing child with the chore's coins and XP, stamps
// the completion time, and clears the pending state. The performer is the
// recorded submitter for ALL-assigned chores, otherwise the fixed assignee.
// If the chore or the performer cannot be resolved the snapshot is returned
// unchanged.
func Approve(s model.AppState, choreID string, now time.Time) model.AppState {
	ci := s.ChoreByID(choreID)
	if ci < 0 {
		return s
	}
	chore := s.Chores[ci]
	performer := chore.AssignedTo
	if performer == model.AssignedAll {
		performer = chore.CompletedBy
	}
	ki := s.ChildByID(performer)
	if ki < 0 {
		return s
	}
	child := s.Children[ki]

	newXP := child.XP + chore.XP
	newLevel := model.Level(newXP)
	leveledUp := newLevel > child.Level

	out := s.Clone()
	out.Children[ki].Coins = child.Coins + chore.Coins
	out.Children[ki].XP = newXP
	out.Children[ki].Level = newLevel
	out.Chores[ci].PendingApproval = false
	out.Chores[ci].CompletedBy = ""
	completed := now
	out.Chores[ci].LastCompleted = &completed

	out = AppendLog(out, child.Name,
		fmt.Sprintf("Mission Approved: %s", chore.Title),
		model.LogChore,
		fmt.Sprintf("+%d Credits, +%d XP", chore.Coins, chore.XP),
		now)
	if leveledUp {
		out = AppendLog(out, child.Name,
			fmt.Sprintf("RANK UP! Now Level %d", newLevel),
			model.LogSystem, "PRESTIGE INCREASED", now)
	}
	return out
}

// Reject clears the pending state without crediting anyone and without
// stamping a completion, returning the chore to fully open.
func Reject(s model.AppState, choreID string, now time.Time) model.AppState {
	ci := s.ChoreByID(choreID)
	if ci < 0 {
		return s
	}
	chore := s.Chores[ci]

	childName := "Unknown"
	performer := chore.AssignedTo
	if performer == model.AssignedAll {
		performer = chore.CompletedBy
	}
	if ki := s.ChildByID(performer); ki >= 0 {
		childName = s.Children[ki].Name
	}

	out := s.Clone()
	out.Chores[ci].PendingApproval = false
	out.Chores[ci].CompletedBy = ""
	return AppendLog(out, childName,
		fmt.Sprintf("Mission Rejected: %s", chore.Title),
		model.LogSystem, "RETURNED TO FIELD", now)
}

// ResetDaily re-opens every chore assigned to the child (or to ALL) that was
// completed on the current calendar day, bypassing normal recurrence timing.
// One log entry is written per invocation, not per chore.
func ResetDaily(s model.AppState, childID string, now time.Time) model.AppState {
	ki := s.ChildByID(childID)
	if ki < 0 {
		return s
	}
	child := s.Children[ki]

	out := s.Clone()
	for i := range out.Chores {
		c := out.Chores[i]
		assigned := c.AssignedTo == childID || c.AssignedTo == model.AssignedAll
		doneToday := c.LastCompleted != nil && sameDay(*c.LastCompleted, now)
		if assigned && doneToday {
			out.Chores[i].LastCompleted = nil
			out.Chores[i].PendingApproval = false
			out.Chores[i].CompletedBy = ""
		}
	}
	return AppendLog(out, child.Name, "DAILY MISSION REBOOT", model.LogSystem,
		"All today's tasks reactivated", now)
}

// VisibleChores returns the chores the child should be offered: assigned to
// them or to everyone, and either currently available or awaiting review.
func VisibleChores(s model.AppState, childID string, now time.Time) []model.Chore {
	var out []model.Chore
	for _, c := range s.Chores {
		if c.AssignedTo != childID && c.AssignedTo != model.AssignedAll {
			continue
		}
		if recurrence.IsAvailable(c, now) || c.PendingApproval {
			out = append(out, c)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
