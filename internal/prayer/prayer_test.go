package prayer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/chorequest/internal/model"
)

const timingsBody = `{"code":200,"data":{"timings":{
	"Fajr":"05:32","Sunrise":"07:01","Dhuhr":"12:24","Asr":"15:10",
	"Sunset":"17:47","Maghrib":"17:47","Isha":"19:12","Midnight":"00:24"
}}}`

func TestLookupKeepsOnlyDailySlots(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("address"); got != "Dearborn, MI" {
			t.Errorf("address = %q", got)
		}
		w.Write([]byte(timingsBody))
	}))
	defer srv.Close()

	s := NewService(Config{Address: "Dearborn, MI"})
	s.baseURL = srv.URL

	times, err := s.Lookup(context.Background())
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(times) != 5 {
		t.Fatalf("times = %d, want the five daily slots", len(times))
	}
	if times["Maghrib"] != "17:47" {
		t.Errorf("Maghrib = %q", times["Maghrib"])
	}
	if _, ok := times["Sunrise"]; ok {
		t.Error("Sunrise is not a prayer slot")
	}
}

func TestLookupUnconfigured(t *testing.T) {
	s := NewService(Config{})
	if _, err := s.Lookup(context.Background()); err == nil {
		t.Fatal("expected an error without an address")
	}
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewService(Config{Address: "Dearborn, MI"})
	s.baseURL = srv.URL
	if _, err := s.Lookup(context.Background()); err == nil {
		t.Fatal("expected an error on non-200 status")
	}
}

func TestChoresBuildsOnePerSlot(t *testing.T) {
	chores := Chores(Times{
		"Fajr": "05:32", "Dhuhr": "12:24", "Asr": "15:10", "Maghrib": "17:47", "Isha": "19:12",
	})
	if len(chores) != 5 {
		t.Fatalf("chores = %d, want 5", len(chores))
	}
	first := chores[0]
	if first.Title != "Fajr Operation" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Description != "Complete the Fajr prayer (05:32)" {
		t.Errorf("description = %q", first.Description)
	}
	if first.Coins != 15 || first.XP != 25 {
		t.Errorf("coins/xp = %d/%d, want 15/25", first.Coins, first.XP)
	}
	if first.Frequency != model.FreqPrayer || first.AssignedTo != model.AssignedAll || first.Icon != "🌙" {
		t.Errorf("draft = %+v", first)
	}
}

func TestChoresSkipsMissingSlots(t *testing.T) {
	chores := Chores(Times{"Fajr": "05:32"})
	if len(chores) != 1 {
		t.Fatalf("chores = %d, want 1", len(chores))
	}
}
