package model

import (
	"testing"
	"time"
)

func TestLevelFloor(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{0, 1},
		{49, 1},
		{50, 2},
		{199, 2},
		{200, 3},
		{449, 3},
		{450, 4},
		{-10, 1},
	}
	for _, c := range cases {
		if got := Level(c.xp); got != c.want {
			t.Errorf("Level(%d) = %d, want %d", c.xp, got, c.want)
		}
	}
}

func TestLevelMonotonic(t *testing.T) {
	prev := 0
	for xp := 0; xp <= 5000; xp++ {
		l := Level(xp)
		if l < 1 {
			t.Fatalf("Level(%d) = %d, want >= 1", xp, l)
		}
		if l < prev {
			t.Fatalf("Level(%d) = %d decreased from %d", xp, l, prev)
		}
		prev = l
	}
}

func TestXPForLevelThreshold(t *testing.T) {
	for l := 1; l <= 20; l++ {
		if got := Level(XPForLevel(l)); got < l {
			t.Errorf("Level(XPForLevel(%d)) = %d, want >= %d", l, got, l)
		}
	}
	if XPForLevel(2) != 200 {
		t.Errorf("XPForLevel(2) = %d, want 200", XPForLevel(2))
	}
}

func TestCloneIndependence(t *testing.T) {
	now := time.Now()
	s := InitialState()
	s.Chores[0].LastCompleted = &now

	c := s.Clone()
	c.Children[0].Coins = 99
	c.Chores = append(c.Chores, Chore{ID: "x"})

	if s.Children[0].Coins != 0 {
		t.Error("clone mutation leaked into original children")
	}
	if len(s.Chores) != 1 {
		t.Error("clone append leaked into original chores")
	}
}

func TestSanitizedStripsCloud(t *testing.T) {
	s := InitialState()
	s.Cloud = CloudConfig{Endpoint: "nats://x", Credential: "k", FamilyCode: "GHOST-7"}

	got := s.Sanitized()
	if got.Cloud != (CloudConfig{}) {
		t.Errorf("Sanitized cloud = %+v, want zero", got.Cloud)
	}
	if s.Cloud.FamilyCode != "GHOST-7" {
		t.Error("Sanitized mutated the receiver")
	}
}

func TestFrequencyValid(t *testing.T) {
	for _, f := range []Frequency{FreqDaily, FreqWeekly, FreqFortnightly, FreqSpecificDate, FreqOneOff, FreqPrayer} {
		if !f.Valid() {
			t.Errorf("%q should be valid", f)
		}
	}
	if Frequency("Hourly").Valid() {
		t.Error("unknown frequency should be invalid")
	}
}
