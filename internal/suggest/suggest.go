// Package suggest generates chore ideas with an LLM so parents do not have
// to invent missions from scratch.
package suggest

import (
	"context"
	"strings"

	"github.com/dukerupert/chorequest/internal/model"
)

// Suggestion is one proposed chore. Field names mirror the chore authoring
// form so drafts can be accepted as-is.
type Suggestion struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	SuggestedCoins int             `json:"suggestedCoins"`
	SuggestedXp    int             `json:"suggestedXp"`
	Frequency      model.Frequency `json:"frequency"`
	Icon           string          `json:"icon"`
}

// Provider produces chore suggestions. count is advisory; hint is free-form
// parent input such as "outdoor chores for a 7 year old".
type Provider interface {
	Suggest(ctx context.Context, count int, hint string) ([]Suggestion, error)
}

// Chores converts accepted suggestions into chore drafts for the given
// assignee. Untitled suggestions are dropped; ids and remaining defaults are
// filled in by the authoring path.
func Chores(suggestions []Suggestion, assignedTo string) []model.Chore {
	var out []model.Chore
	for _, s := range suggestions {
		if strings.TrimSpace(s.Title) == "" {
			continue
		}
		out = append(out, model.Chore{
			Title:       s.Title,
			Description: s.Description,
			Coins:       s.SuggestedCoins,
			XP:          s.SuggestedXp,
			Frequency:   s.Frequency,
			Icon:        s.Icon,
			AssignedTo:  assignedTo,
		})
	}
	return out
}
