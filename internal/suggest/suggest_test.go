package suggest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/chorequest/internal/model"
)

func completionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSuggestParsesPayload(t *testing.T) {
	content := `{"suggestions":[
		{"title":"Water the plants","description":"All indoor plants","suggestedCoins":10,"suggestedXp":20,"frequency":"Daily","icon":"🪴"},
		{"title":"Sort recycling","description":"","suggestedCoins":15,"suggestedXp":30,"frequency":"Weekly","icon":"♻️"}
	]}`
	srv := completionServer(t, content)

	p := NewOpenAIProvider("test-key", srv.URL, "", testLogger())
	got, err := p.Suggest(context.Background(), 2, "younger kids")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(got))
	}
	if got[0].Title != "Water the plants" || got[0].SuggestedCoins != 10 || got[0].Frequency != model.FreqDaily {
		t.Errorf("first suggestion = %+v", got[0])
	}
}

func TestSuggestRejectsMalformedContent(t *testing.T) {
	srv := completionServer(t, "sorry, no json today")

	p := NewOpenAIProvider("test-key", srv.URL, "", testLogger())
	if _, err := p.Suggest(context.Background(), 3, ""); err == nil {
		t.Fatal("expected an error for non-JSON content")
	}
}

func TestChoresDropsUntitledAndMapsFields(t *testing.T) {
	drafts := Chores([]Suggestion{
		{Title: "Feed the cat", SuggestedCoins: 5, SuggestedXp: 10, Frequency: model.FreqDaily, Icon: "🐱"},
		{Title: "   "},
	}, model.AssignedAll)

	if len(drafts) != 1 {
		t.Fatalf("drafts = %d, want 1", len(drafts))
	}
	d := drafts[0]
	if d.Coins != 5 || d.XP != 10 || d.AssignedTo != model.AssignedAll || d.Icon != "🐱" {
		t.Errorf("draft = %+v", d)
	}
}
