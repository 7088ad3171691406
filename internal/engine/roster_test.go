package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dukerupert/chorequest/internal/model"
)

func TestAddChildStartsAtLevelOne(t *testing.T) {
	s, err := AddChild(baseState(), "  Charlie  ", "🐯")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	k := s.Children[len(s.Children)-1]
	if k.Name != "Charlie" {
		t.Errorf("name = %q, want trimmed %q", k.Name, "Charlie")
	}
	if k.Level != 1 || k.Coins != 0 || k.XP != 0 {
		t.Errorf("new child = level %d, %d coins, %d xp", k.Level, k.Coins, k.XP)
	}
	if k.ID == "" {
		t.Error("expected generated id")
	}
}

func TestAddChildRosterCap(t *testing.T) {
	s := model.AppState{}
	var err error
	for i := 0; i < model.MaxChildren; i++ {
		s, err = AddChild(s, fmt.Sprintf("Kid %d", i), "🙂")
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	if _, err = AddChild(s, "One Too Many", "🙂"); !errors.Is(err, ErrRosterFull) {
		t.Errorf("err = %v, want ErrRosterFull", err)
	}
}

func TestRemoveChildCascadesExclusiveChores(t *testing.T) {
	s, err := RemoveChild(baseState(), "k1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(s.Children) != 1 || s.Children[0].ID != "k2" {
		t.Fatalf("children = %v", s.Children)
	}
	for _, c := range s.Chores {
		if c.AssignedTo == "k1" {
			t.Errorf("chore %q still assigned to removed child", c.Title)
		}
	}
	// The shared chore survives.
	if s.ChoreByID("c1") < 0 {
		t.Error("ALL-assigned chore must survive a removal")
	}
}

func TestRemoveLastChild(t *testing.T) {
	s := model.AppState{Children: []model.Child{{ID: "k1", Name: "Alpha"}}}
	if _, err := RemoveChild(s, "k1"); !errors.Is(err, ErrLastChild) {
		t.Errorf("err = %v, want ErrLastChild", err)
	}
}

func TestUpdateChildProfileLogs(t *testing.T) {
	s, err := UpdateChildProfile(baseState(), "k1", "Ace", "🚀", noon)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.Children[0].Name != "Ace" || s.Children[0].Avatar != "🚀" {
		t.Errorf("profile = %q %q", s.Children[0].Name, s.Children[0].Avatar)
	}
	if s.Logs[0].Action != "Profile Updated" || s.Logs[0].Value != "Appearance modification synced" {
		t.Errorf("log = %q / %q", s.Logs[0].Action, s.Logs[0].Value)
	}
}

func TestValidPin(t *testing.T) {
	cases := map[string]bool{
		"1234":  true,
		"0000":  true,
		"123":   false,
		"12345": false,
		"12a4":  false,
		"12 4":  false,
		"١٢٣٤":  false,
	}
	for pin, want := range cases {
		if got := ValidPin(pin); got != want {
			t.Errorf("ValidPin(%q) = %v, want %v", pin, got, want)
		}
	}
}

func TestUpdatePinRejectsMalformed(t *testing.T) {
	if _, err := UpdatePin(baseState(), "abcd"); !errors.Is(err, ErrInvalidPin) {
		t.Errorf("err = %v, want ErrInvalidPin", err)
	}
	s, err := UpdatePin(baseState(), "9876")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.ParentPin != "9876" {
		t.Errorf("pin = %q", s.ParentPin)
	}
}
