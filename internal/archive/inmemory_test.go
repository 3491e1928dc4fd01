package archive

import (
	"context"
	"fmt"
	"testing"
)

func TestInMemoryStoreSaveAndRecent(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := s.SaveTurn(ctx, TurnRecord{
			SessionID: "sess-1",
			Role:      "user",
			Text:      fmt.Sprintf("turn %d", i),
			Language:  "en",
		})
		if err != nil {
			t.Fatalf("SaveTurn() error = %v", err)
		}
	}

	got, err := s.RecentTurns(ctx, "sess-1", 3)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(RecentTurns) = %d, want 3", len(got))
	}
	if got[0].Text != "turn 2" || got[2].Text != "turn 4" {
		t.Fatalf("unexpected window: first = %q, last = %q", got[0].Text, got[2].Text)
	}
	if got[0].ID == "" {
		t.Fatalf("record ID should be assigned on save")
	}
}

func TestInMemoryStoreUnknownSession(t *testing.T) {
	s := NewInMemoryStore()
	got, err := s.RecentTurns(context.Background(), "nope", 10)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}
	if got != nil {
		t.Fatalf("RecentTurns on unknown session = %v, want nil", got)
	}
}
