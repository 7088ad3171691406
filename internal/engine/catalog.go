package engine

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/chorequest/internal/model"
)

// AddChore authors a single chore. Lifecycle fields are reset so an authored
// chore always starts open.
func AddChore(s model.AppState, c model.Chore) (model.AppState, error) {
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" || c.AssignedTo == "" {
		return s, ErrInvalidInput
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if !c.Frequency.Valid() {
		c.Frequency = model.FreqDaily
	}
	c.PendingApproval = false
	c.CompletedBy = ""
	c.LastCompleted = nil

	out := s.Clone()
	out.Chores = append(out.Chores, c)
	return out, nil
}

// AddChores bulk-appends authored chores, used by the suggestion and prayer
// batch generators. Drafts without a title are skipped.
func AddChores(s model.AppState, chores []model.Chore) model.AppState {
	out := s.Clone()
	for _, c := range chores {
		if strings.TrimSpace(c.Title) == "" {
			continue
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.AssignedTo == "" {
			c.AssignedTo = model.AssignedAll
		}
		if !c.Frequency.Valid() {
			c.Frequency = model.FreqDaily
		}
		out.Chores = append(out.Chores, c)
	}
	return out
}

// UpdateChore edits a chore's authored fields in place, preserving its
// lifecycle state (pending flag, performer, completion stamp).
func UpdateChore(s model.AppState, id string, c model.Chore) (model.AppState, error) {
	ci := s.ChoreByID(id)
	if ci < 0 {
		return s, ErrNotFound
	}
	c.Title = strings.TrimSpace(c.Title)
	if c.Title == "" || c.AssignedTo == "" {
		return s, ErrInvalidInput
	}
	out := s.Clone()
	existing := out.Chores[ci]
	existing.Title = c.Title
	existing.Description = c.Description
	existing.Coins = c.Coins
	existing.XP = c.XP
	if c.Frequency.Valid() {
		existing.Frequency = c.Frequency
	}
	existing.SpecificDate = c.SpecificDate
	if c.Icon != "" {
		existing.Icon = c.Icon
	}
	existing.AssignedTo = c.AssignedTo
	out.Chores[ci] = existing
	return out, nil
}

// DeleteChore removes a chore outright.
func DeleteChore(s model.AppState, id string) (model.AppState, error) {
	ci := s.ChoreByID(id)
	if ci < 0 {
		return s, ErrNotFound
	}
	out := s.Clone()
	out.Chores = append(out.Chores[:ci], out.Chores[ci+1:]...)
	return out, nil
}

// AddReward authors a reward.
func AddReward(s model.AppState, r model.Reward) (model.AppState, error) {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" || r.Cost < 0 {
		return s, ErrInvalidInput
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	out := s.Clone()
	out.Rewards = append(out.Rewards, r)
	return out, nil
}

// UpdateReward edits a reward in place.
func UpdateReward(s model.AppState, id string, r model.Reward) (model.AppState, error) {
	ri := s.RewardByID(id)
	if ri < 0 {
		return s, ErrNotFound
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" || r.Cost < 0 {
		return s, ErrInvalidInput
	}
	out := s.Clone()
	existing := out.Rewards[ri]
	existing.Title = r.Title
	existing.Description = r.Description
	existing.Cost = r.Cost
	if r.Icon != "" {
		existing.Icon = r.Icon
	}
	out.Rewards[ri] = existing
	return out, nil
}

// DeleteReward removes a reward. Past claims are unaffected; log entries
// denormalize everything they need.
func DeleteReward(s model.AppState, id string) (model.AppState, error) {
	ri := s.RewardByID(id)
	if ri < 0 {
		return s, ErrNotFound
	}
	out := s.Clone()
	out.Rewards = append(out.Rewards[:ri], out.Rewards[ri+1:]...)
	return out, nil
}
